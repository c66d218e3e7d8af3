// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

/*
Package middleware provides chi-compatible HTTP middleware for the compile service.

Key Components:

  - RequestID: request and correlation IDs in headers and the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled by route pattern
  - PerformanceMonitor: sliding window of recent latencies with percentile summaries

All middleware has the func(http.Handler) http.Handler shape, so it plugs
straight into chi's r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perfMon.Middleware)

Route labels come from chi's RouteContext after the handler runs, so
/api/v1/explore/funnel/sql and /api/v1/explore/path/sql share the label
/api/v1/explore/{analysis}/sql.
*/
package middleware

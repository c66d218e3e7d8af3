// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/clickstream-explore/internal/metrics"
)

// unmatchedRoute labels requests no route matched, keeping label cardinality bounded.
const unmatchedRoute = "unmatched"

// PrometheusMetrics records request count, latency and in-flight requests.
// Requests are labelled by chi route pattern, not raw path.
func PrometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		metrics.RecordAPIRequest(
			r.Method,
			routePattern(r),
			strconv.Itoa(statusOf(ww)),
			time.Since(start),
		)
	})
}

// routePattern returns the matched chi pattern, e.g. /api/v1/explore/{analysis}/sql.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return unmatchedRoute
}

// statusOf reports 200 for handlers that wrote a body without an explicit header.
func statusOf(ww chimiddleware.WrapResponseWriter) int {
	if status := ww.Status(); status != 0 {
		return status
	}
	return http.StatusOK
}

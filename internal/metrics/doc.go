// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

/*
Package metrics provides Prometheus collectors for the compile service.

Metrics are recorded at the API boundary. The compiler package never imports
this one.

# Metrics Endpoint

	curl http://localhost:8080/metrics

# Available Metrics

Compiler:
  - explore_compilations_total{analysis,status}: status is success, rejected or error
  - explore_compile_duration_seconds{analysis}: compile latency (histogram)
  - explore_sql_bytes{analysis}: generated SQL size (histogram)
  - explore_validation_failures_total{analysis}

HTTP:
  - api_requests_total{method,path,status}: path is the chi route pattern
  - api_request_duration_seconds{method,path}
  - api_active_requests

# Example Queries

Compile error ratio per analysis:

	sum by (analysis) (rate(explore_compilations_total{status="error"}[5m]))
	  / sum by (analysis) (rate(explore_compilations_total[5m]))

p99 SQL size:

	histogram_quantile(0.99, sum by (le, analysis) (rate(explore_sql_bytes_bucket[1h])))
*/
package metrics

// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

/*
Package api provides the HTTP compile service.

Routes:

	POST /api/v1/explore/{analysis}/sql   compile a request (funnel, event, path, retention, attribution)
	GET  /api/v1/stats/performance        per-route latency percentiles
	GET  /health/live                     liveness probe
	GET  /health/ready                    readiness probe
	GET  /metrics                         Prometheus exposition

Every JSON response uses the models.APIResponse envelope. A compile answers
with models.CompiledSQL, whose fingerprint is the first 16 hex characters of
the SQL's sha256, so a dashboard provisioner can tell when a dataset's query
has not changed.

Status codes of the compile route:

  - 400: the body is not JSON or breaks a request rule (validation package)
  - 404: unknown analysis family
  - 413: body larger than MaxRequestBodyBytes
  - 422: the compiler refused a request that passed validation
  - 429: rate limited
  - 500: unexpected failure; details are logged, not returned

Middleware order: request and correlation IDs, real IP, panic recovery and
CORS run globally. The /api/v1 group adds per-IP rate limiting, security
headers, Prometheus instrumentation, the performance monitor and gzip.

Usage:

	compiler := explore.New(explore.WithEventView(cfg.Explore.EventView))
	perfMon := middleware.NewPerformanceMonitor(1000, time.Second)
	handler := api.NewHandler(compiler, perfMon, api.HandlerConfig{Version: version})
	chiMw := api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg.Security))
	srv := &http.Server{Handler: api.NewRouter(handler, chiMw, perfMon).SetupChi()}
*/
package api

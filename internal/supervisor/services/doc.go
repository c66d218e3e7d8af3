// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

/*
Package services adapts long-running components to suture.Service.

	type Service interface {
	    Serve(ctx context.Context) error
	}

HTTPServerService wraps *http.Server. On cancel it runs the optional drain
hook (the handler's SetReady(false)) and then calls Shutdown.

PerformanceReportService logs the busiest endpoints from the in-process
PerformanceMonitor on a ticker. Slow endpoints are logged at warn.

Every service implements fmt.Stringer so supervisor events name it.
*/
package services

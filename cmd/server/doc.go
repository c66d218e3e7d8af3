// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

/*
Package main is the entry point for the Clickstream Explore compile service.

The service accepts funnel, event, path, retention and attribution requests
over HTTP and returns the warehouse SQL for each. It never connects to the
warehouse itself.

# Process Layout

	RootSupervisor ("clickstream-explore")
	├── APISupervisor ("api-layer")
	│   └── HTTP Server
	└── OpsSupervisor ("ops-layer")
	    └── Performance report (every 5m)

# Configuration

Koanf v2 layers defaults, an optional config.yaml and environment variables
(highest priority wins):

	EXPLORE_EVENT_VIEW=clickstream_event_view_v3
	EXPLORE_DEFAULT_TIMEZONE=UTC
	EXPLORE_MAX_STEP=5
	EXPLORE_FORMAT=true

	HTTP_HOST=0.0.0.0
	HTTP_PORT=8080
	CORS_ORIGINS=https://console.example.com
	RATE_LIMIT_REQUESTS=100

	LOG_LEVEL=info
	LOG_FORMAT=json

# Signal Handling

SIGINT and SIGTERM cancel the supervisor context. The HTTP service first
flips /health/ready to 503, then gives in-flight compiles
HTTP_SHUTDOWN_TIMEOUT to finish.

# Example

	curl -s -X POST localhost:8080/api/v1/explore/funnel/sql \
	  -H 'Content-Type: application/json' \
	  -d @funnel.json | jq -r .data.sql
*/
package main

// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

/*
Package config provides centralized configuration management for the compile
service and the explore-sql CLI.

# Configuration Sources

Koanf v2 layers three sources, later ones overriding earlier ones:
  - Built-in defaults (defaultConfig)
  - An optional YAML file: $CONFIG_PATH, config.yaml, config.yml or
    /etc/clickstream-explore/config.yaml
  - Environment variables, mapped explicitly by envTransformFunc

# Environment Variables

Compiler (ExploreConfig):
  - EXPLORE_EVENT_VIEW: Flattened event view name (default: clickstream_event_view_v3)
  - EXPLORE_DEFAULT_TIMEZONE: Timezone for requests without one (default: UTC)
  - EXPLORE_MAX_STEP: Path depth when a request leaves maxStep unset (default: 5)
  - EXPLORE_FORMAT: Indent generated SQL (default: true)

HTTP Server (ServerConfig):
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8080)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development, staging or production

Security (SecurityConfig):
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging (LoggingConfig):
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Validation

Validate rejects a view name that is not a plain SQL identifier, an unknown
default timezone, EXPLORE_MAX_STEP below 1, ports outside 1-65535, wildcard
CORS in production, out-of-range rate limits and unknown log levels.
*/
package config

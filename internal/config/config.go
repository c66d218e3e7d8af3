// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//   - Explore: compiler settings (event view, default timezone, path depth, formatting)
//   - Server: HTTP listener and timeouts
//   - Security: CORS and rate limiting for the compile endpoint
//   - Logging: zerolog level, format and caller info
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	compiler := explore.New(explore.WithEventView(cfg.Explore.EventView))
type Config struct {
	Explore  ExploreConfig  `koanf:"explore"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ExploreConfig holds SQL compiler settings.
//
// Environment Variables:
//   - EXPLORE_EVENT_VIEW: warehouse view holding flattened events (default: clickstream_event_view_v3)
//   - EXPLORE_DEFAULT_TIMEZONE: timezone used when a request names none (default: UTC)
//   - EXPLORE_MAX_STEP: deepest path step when a request leaves maxStep unset (default: 5)
//   - EXPLORE_FORMAT: indent generated SQL (default: true)
type ExploreConfig struct {
	EventView       string `koanf:"event_view"`
	DefaultTimezone string `koanf:"default_timezone"`
	MaxStep         int    `koanf:"max_step"`
	Format          bool   `koanf:"format"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging or production
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// JSON is recommended for production (structured, machine-parseable).
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Load reads configuration from all sources.
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

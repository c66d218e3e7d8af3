// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/clickstream-explore/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Explore: ExploreConfig{
			EventView:       "clickstream_event_view_v3",
			DefaultTimezone: "UTC",
			MaxStep:         5,
			Format:          true,
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// EXPLORE_EVENT_VIEW -> explore.event_view
	// HTTP_PORT -> server.port
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Compiler mappings
	"explore_event_view":       "explore.event_view",
	"explore_default_timezone": "explore.default_timezone",
	"explore_max_step":         "explore.max_step",
	"explore_format":           "explore.format",

	// Server mappings
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Security mappings
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - EXPLORE_EVENT_VIEW -> explore.event_view
//   - HTTP_PORT -> server.port
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}

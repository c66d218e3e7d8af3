// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/clickstream-explore/internal/validation"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateExplore(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateExplore validates compiler settings. The view name is written into
// SQL unquoted.
func (c *Config) validateExplore() error {
	if c.Explore.EventView == "" {
		return fmt.Errorf("EXPLORE_EVENT_VIEW is required")
	}
	if !validation.IsSQLIdent(c.Explore.EventView) {
		return fmt.Errorf("EXPLORE_EVENT_VIEW %q is not a valid SQL identifier", c.Explore.EventView)
	}
	if _, err := time.LoadLocation(c.Explore.DefaultTimezone); err != nil || c.Explore.DefaultTimezone == "" {
		return fmt.Errorf("EXPLORE_DEFAULT_TIMEZONE %q is not a valid IANA timezone", c.Explore.DefaultTimezone)
	}
	if c.Explore.MaxStep < 1 {
		return fmt.Errorf("EXPLORE_MAX_STEP must be at least 1")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must not be negative")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateCORS rejects wildcard origins in production.
func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production. " +
			"Set specific origins: CORS_ORIGINS=https://yourdomain.com,https://app.yourdomain.com")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// IsProduction reports whether ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

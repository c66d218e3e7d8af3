// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/clickstream-explore/internal/config"
	"github.com/tomtom215/clickstream-explore/internal/middleware"
)

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	// CORS configuration
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSExposedHeaders   []string
	CORSAllowCredentials bool
	CORSMaxAge           int // seconds

	// Rate limiting configuration
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
	RateLimitKeyFunc  httprate.KeyFunc
}

// DefaultChiMiddlewareConfig returns a secure default configuration.
// CORS origins default to empty, requiring explicit configuration.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader, middleware.CorrelationIDHeader},
		CORSExposedHeaders: []string{middleware.RequestIDHeader, middleware.CorrelationIDHeader, "ETag"},
		CORSMaxAge:         86400,

		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

// NewChiMiddlewareConfig bridges the security section of the application
// config to the middleware factories.
func NewChiMiddlewareConfig(sec config.SecurityConfig) *ChiMiddlewareConfig {
	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = sec.CORSOrigins
	cfg.RateLimitRequests = sec.RateLimitReqs
	cfg.RateLimitWindow = sec.RateLimitWindow
	cfg.RateLimitDisabled = sec.RateLimitDisabled
	return cfg
}

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates a new Chi middleware factory with the given configuration.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   config.CORSAllowedOrigins,
		AllowedMethods:   config.CORSAllowedMethods,
		AllowedHeaders:   config.CORSAllowedHeaders,
		ExposedHeaders:   config.CORSExposedHeaders,
		AllowCredentials: config.CORSAllowCredentials,
		MaxAge:           config.CORSMaxAge,
	})

	return &ChiMiddleware{
		config: config,
		cors:   corsHandler,
	}
}

// CORS returns a Chi-compatible CORS middleware using go-chi/cors.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns the per-client limiter for the compile API.
// Limited requests get the standard JSON error body.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	keyFunc := m.config.RateLimitKeyFunc
	if keyFunc == nil {
		keyFunc = httprate.KeyByIP
	}

	return httprate.Limit(
		m.config.RateLimitRequests,
		m.config.RateLimitWindow,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, r, http.StatusTooManyRequests, ErrCodeRateLimited, "Too many requests, retry later", nil)
		}),
	)
}

// RateLimitConfig defines rate limit parameters for specific endpoints.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// RateLimitHealth is permissive limiting for probes (1000/min).
var RateLimitHealth = RateLimitConfig{Requests: 1000, Window: time.Minute}

// RateLimitCustom returns a per-IP limiter with custom configuration.
func (m *ChiMiddleware) RateLimitCustom(config RateLimitConfig) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.LimitByIP(config.Requests, config.Window)
}

// RateLimitHealth returns a rate limiter for health endpoints.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitHealth)
}

// APISecurityHeaders returns a middleware that adds security headers to API responses.
//
// Headers added:
//   - X-Content-Type-Options: nosniff
//   - X-Frame-Options: DENY
//   - Referrer-Policy: strict-origin-when-cross-origin
//
// HSTS is added when the request arrived over HTTPS.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

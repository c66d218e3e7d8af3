// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/clickstream-explore/internal/middleware"
)

// compressLevel is the gzip level for API responses; generated SQL compresses well.
const compressLevel = 5

// Router sets up HTTP routes using Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	perfMon       *middleware.PerformanceMonitor
}

// NewRouter creates a router. perfMon may be nil to skip latency sampling.
func NewRouter(handler *Handler, chiMw *ChiMiddleware, perfMon *middleware.PerformanceMonitor) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMw,
		perfMon:       perfMon,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(middleware.PrometheusMetrics)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		if router.perfMon != nil {
			r.Use(router.perfMon.Middleware)
		}
		r.Use(chimiddleware.Compress(compressLevel, "application/json"))

		r.Post("/explore/{analysis}/sql", router.handler.CompileSQL)
		r.Get("/stats/performance", router.handler.PerformanceStats)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/clickstream-explore/internal/middleware"
	"github.com/tomtom215/clickstream-explore/internal/models"
)

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of readiness.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 503 while no compiler is wired or the server is draining.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.ready.Load()

	statusCode := http.StatusOK
	health := models.HealthStatus{
		Status:    "ready",
		Version:   h.config.Version,
		EventView: h.config.EventView,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if !ready {
		statusCode = http.StatusServiceUnavailable
		health.Status = "not_ready"
	}

	respondJSON(w, r, statusCode, &models.APIResponse{
		Status: health.Status,
		Data:   health,
	})
}

const (
	defaultRecentRequests = 20
	maxRecentRequests     = 1000
)

// PerformanceStats handles GET /api/v1/stats/performance: per-route latency
// percentiles over the monitor's window plus the most recent requests.
// ?recent=N controls how many recent requests are listed.
func (h *Handler) PerformanceStats(w http.ResponseWriter, r *http.Request) {
	recent := defaultRecentRequests
	if raw := r.URL.Query().Get("recent"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxRecentRequests {
			respondErrorWithDetails(w, r, http.StatusBadRequest, ErrCodeValidation,
				"recent must be an integer from 0 to "+strconv.Itoa(maxRecentRequests),
				map[string]interface{}{"field": "recent", "value": raw}, nil)
			return
		}
		recent = n
	}

	endpoints := []middleware.EndpointStats{}
	requests := []middleware.RequestMetrics{}
	if h.perfMon != nil {
		endpoints = h.perfMon.GetStats()
		requests = h.perfMon.GetRecentMetrics(recent)
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"endpoints": endpoints,
			"recent":    requests,
		},
	})
}

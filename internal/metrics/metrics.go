// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Compile outcomes used as the status label of CompilationsTotal.
const (
	StatusSuccess  = "success"
	StatusRejected = "rejected"
	StatusError    = "error"
)

var (
	// Compiler Metrics
	CompilationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "explore_compilations_total",
			Help: "Total number of compile requests by analysis and outcome",
		},
		[]string{"analysis", "status"},
	)

	CompileDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "explore_compile_duration_seconds",
			Help:    "Time spent compiling a request to SQL",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
		[]string{"analysis"},
	)

	SQLBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "explore_sql_bytes",
			Help:    "Size of generated SQL in bytes",
			Buckets: prometheus.ExponentialBuckets(512, 2, 10), // 512B .. 256KB
		},
		[]string{"analysis"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "explore_validation_failures_total",
			Help: "Total number of requests rejected by validation",
		},
		[]string{"analysis"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "path"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "explore_app_info",
			Help: "Application build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordCompilation records one successful compile.
func RecordCompilation(analysis string, duration time.Duration, sqlBytes int) {
	CompilationsTotal.WithLabelValues(analysis, StatusSuccess).Inc()
	CompileDuration.WithLabelValues(analysis).Observe(duration.Seconds())
	SQLBytes.WithLabelValues(analysis).Observe(float64(sqlBytes))
}

// RecordCompileError records a compile that the compiler itself refused.
func RecordCompileError(analysis string, duration time.Duration) {
	CompilationsTotal.WithLabelValues(analysis, StatusError).Inc()
	CompileDuration.WithLabelValues(analysis).Observe(duration.Seconds())
}

// RecordValidationFailure records a request rejected before compiling.
func RecordValidationFailure(analysis string) {
	CompilationsTotal.WithLabelValues(analysis, StatusRejected).Inc()
	ValidationFailures.WithLabelValues(analysis).Inc()
}

// RecordAPIRequest records API request metrics
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements active request counter
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/clickstream-explore/internal/logging"
)

// DefaultSlowThreshold is the latency above which a request is logged as slow.
const DefaultSlowThreshold = time.Second

// RequestMetrics is one observed request.
type RequestMetrics struct {
	Route      string    `json:"route"`
	Method     string    `json:"method"`
	DurationMS int64     `json:"duration_ms"`
	StatusCode int       `json:"status_code"`
	Timestamp  time.Time `json:"timestamp"`
}

// EndpointStats contains aggregated statistics for an endpoint
type EndpointStats struct {
	Endpoint     string  `json:"endpoint"`
	RequestCount int64   `json:"request_count"`
	ErrorCount   int64   `json:"error_count"`
	AvgDuration  float64 `json:"avg_duration_ms"`
	P50Duration  int64   `json:"p50_duration_ms"`
	P95Duration  int64   `json:"p95_duration_ms"`
	P99Duration  int64   `json:"p99_duration_ms"`
	MinDuration  int64   `json:"min_duration_ms"`
	MaxDuration  int64   `json:"max_duration_ms"`
}

// PerformanceMonitor keeps a sliding window of recent requests for the
// in-process latency summary. Prometheus remains the durable record.
type PerformanceMonitor struct {
	mu            sync.RWMutex
	metrics       []RequestMetrics
	maxMetrics    int
	slowThreshold time.Duration
}

// NewPerformanceMonitor creates a monitor holding at most maxMetrics requests.
func NewPerformanceMonitor(maxMetrics int, slowThreshold time.Duration) *PerformanceMonitor {
	if maxMetrics < 1 {
		maxMetrics = 1
	}
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowThreshold
	}
	return &PerformanceMonitor{
		metrics:       make([]RequestMetrics, 0, maxMetrics),
		maxMetrics:    maxMetrics,
		slowThreshold: slowThreshold,
	}
}

// RecordRequest adds a request metric
func (pm *PerformanceMonitor) RecordRequest(metric *RequestMetrics) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.metrics = append(pm.metrics, *metric)
	if len(pm.metrics) > pm.maxMetrics {
		pm.metrics = pm.metrics[1:]
	}
}

// GetStats aggregates the window per "METHOD route", busiest endpoint first.
func (pm *PerformanceMonitor) GetStats() []EndpointStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	durations := make(map[string][]int64)
	errors := make(map[string]int64)
	for _, m := range pm.metrics {
		key := m.Method + " " + m.Route
		durations[key] = append(durations[key], m.DurationMS)
		if m.StatusCode >= http.StatusInternalServerError {
			errors[key]++
		}
	}

	stats := make([]EndpointStats, 0, len(durations))
	for endpoint, ds := range durations {
		sorted := make([]int64, len(ds))
		copy(sorted, ds)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, d := range sorted {
			sum += d
		}

		stats = append(stats, EndpointStats{
			Endpoint:     endpoint,
			RequestCount: int64(len(sorted)),
			ErrorCount:   errors[endpoint],
			AvgDuration:  float64(sum) / float64(len(sorted)),
			P50Duration:  percentile(sorted, 0.50),
			P95Duration:  percentile(sorted, 0.95),
			P99Duration:  percentile(sorted, 0.99),
			MinDuration:  sorted[0],
			MaxDuration:  sorted[len(sorted)-1],
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RequestCount != stats[j].RequestCount {
			return stats[i].RequestCount > stats[j].RequestCount
		}
		return stats[i].Endpoint < stats[j].Endpoint
	})
	return stats
}

// GetRecentMetrics returns the most recent N metrics
func (pm *PerformanceMonitor) GetRecentMetrics(n int) []RequestMetrics {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if n > len(pm.metrics) {
		n = len(pm.metrics)
	}
	if n < 0 {
		n = 0
	}

	recent := make([]RequestMetrics, n)
	copy(recent, pm.metrics[len(pm.metrics)-n:])
	return recent
}

// Middleware records every request and logs the slow ones.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		route := routePattern(r)
		pm.RecordRequest(&RequestMetrics{
			Route:      route,
			Method:     r.Method,
			DurationMS: elapsed.Milliseconds(),
			StatusCode: statusOf(ww),
			Timestamp:  start,
		})

		if elapsed > pm.slowThreshold {
			logging.Ctx(r.Context()).Warn().
				Str("method", r.Method).
				Str("route", route).
				Int64("duration_ms", elapsed.Milliseconds()).
				Int64("threshold_ms", pm.slowThreshold.Milliseconds()).
				Msg("Slow request detected")
		}
	})
}

// percentile calculates the percentile value from a sorted slice
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)-1) * p)
	return sorted[index]
}

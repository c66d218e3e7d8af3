// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestNewPerformanceMonitor(t *testing.T) {
	tests := []struct {
		name          string
		maxMetrics    int
		slow          time.Duration
		wantMax       int
		wantThreshold time.Duration
	}{
		{"explicit values", 100, 250 * time.Millisecond, 100, 250 * time.Millisecond},
		{"defaults threshold", 10, 0, 10, DefaultSlowThreshold},
		{"clamps capacity", 0, time.Second, 1, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm := NewPerformanceMonitor(tt.maxMetrics, tt.slow)
			if pm.maxMetrics != tt.wantMax {
				t.Errorf("Expected maxMetrics %d, got %d", tt.wantMax, pm.maxMetrics)
			}
			if pm.slowThreshold != tt.wantThreshold {
				t.Errorf("Expected threshold %v, got %v", tt.wantThreshold, pm.slowThreshold)
			}
		})
	}
}

func TestPerformanceMonitor_RecordRequest_SlidingWindow(t *testing.T) {
	pm := NewPerformanceMonitor(3, 0)

	for i := int64(1); i <= 5; i++ {
		pm.RecordRequest(&RequestMetrics{Route: "/r", Method: "GET", DurationMS: i, StatusCode: 200})
	}

	recent := pm.GetRecentMetrics(10)
	if len(recent) != 3 {
		t.Fatalf("Expected window of 3, got %d", len(recent))
	}
	if recent[0].DurationMS != 3 || recent[2].DurationMS != 5 {
		t.Errorf("Expected oldest entries evicted, got %+v", recent)
	}
}

func TestPerformanceMonitor_GetStats(t *testing.T) {
	pm := NewPerformanceMonitor(100, 0)

	for _, d := range []int64{10, 20, 30, 40} {
		pm.RecordRequest(&RequestMetrics{Route: "/api/v1/explore/{analysis}/sql", Method: "POST", DurationMS: d, StatusCode: 200})
	}
	pm.RecordRequest(&RequestMetrics{Route: "/api/v1/explore/{analysis}/sql", Method: "POST", DurationMS: 50, StatusCode: 500})
	pm.RecordRequest(&RequestMetrics{Route: "/health/live", Method: "GET", DurationMS: 1, StatusCode: 200})

	stats := pm.GetStats()
	if len(stats) != 2 {
		t.Fatalf("Expected 2 endpoints, got %d", len(stats))
	}

	compile := stats[0]
	if compile.Endpoint != "POST /api/v1/explore/{analysis}/sql" {
		t.Errorf("Expected busiest endpoint first, got %q", compile.Endpoint)
	}
	if compile.RequestCount != 5 {
		t.Errorf("Expected 5 requests, got %d", compile.RequestCount)
	}
	if compile.ErrorCount != 1 {
		t.Errorf("Expected 1 error, got %d", compile.ErrorCount)
	}
	if compile.AvgDuration != 30 {
		t.Errorf("Expected avg 30, got %v", compile.AvgDuration)
	}
	if compile.P50Duration != 30 || compile.MinDuration != 10 || compile.MaxDuration != 50 {
		t.Errorf("Unexpected distribution: %+v", compile)
	}
}

func TestPerformanceMonitor_GetRecentMetrics_MoreThanAvailable(t *testing.T) {
	pm := NewPerformanceMonitor(10, 0)
	pm.RecordRequest(&RequestMetrics{Route: "/r", Method: "GET"})

	if got := len(pm.GetRecentMetrics(5)); got != 1 {
		t.Errorf("Expected 1 metric, got %d", got)
	}
	if got := len(pm.GetRecentMetrics(-1)); got != 0 {
		t.Errorf("Expected 0 metrics for negative n, got %d", got)
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	pm := NewPerformanceMonitor(100, time.Millisecond)

	r := chi.NewRouter()
	r.Use(pm.Middleware)
	r.Post("/api/v1/explore/{analysis}/sql", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusUnprocessableEntity)
	})
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/v1/explore/funnel/sql", nil),
		httptest.NewRequest(http.MethodGet, "/health/live", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	recent := pm.GetRecentMetrics(2)
	if len(recent) != 2 {
		t.Fatalf("Expected 2 metrics, got %d", len(recent))
	}
	if recent[0].Route != "/api/v1/explore/{analysis}/sql" {
		t.Errorf("Expected route pattern, got %q", recent[0].Route)
	}
	if recent[0].StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", recent[0].StatusCode)
	}
	if recent[0].DurationMS < 5 {
		t.Errorf("Expected duration >= 5ms, got %dms", recent[0].DurationMS)
	}
	if recent[1].StatusCode != http.StatusOK {
		t.Errorf("Expected implicit 200, got %d", recent[1].StatusCode)
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		data   []int64
		p      float64
		expect int64
	}{
		{"P50 of odd number of elements", []int64{10, 20, 30, 40, 50}, 0.50, 30},
		{"P95 of dataset", []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.95, 9},
		{"P0 (minimum)", []int64{10, 20, 30}, 0.0, 10},
		{"P100 (maximum)", []int64{10, 20, 30}, 1.0, 30},
		{"single element", []int64{42}, 0.5, 42},
		{"empty", nil, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentile(tt.data, tt.p); got != tt.expect {
				t.Errorf("Expected %d, got %d", tt.expect, got)
			}
		})
	}
}

func TestPerformanceMonitor_ConcurrentAccess(t *testing.T) {
	pm := NewPerformanceMonitor(1000, 0)
	done := make(chan bool)

	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				pm.RecordRequest(&RequestMetrics{Route: "/r", Method: "GET", DurationMS: int64(j), StatusCode: 200})
			}
			done <- true
		}()
	}
	for i := 0; i < 5; i++ {
		go func() {
			for j := 0; j < 50; j++ {
				pm.GetStats()
				pm.GetRecentMetrics(10)
			}
			done <- true
		}()
	}
	for i := 0; i < 15; i++ {
		<-done
	}

	if stats := pm.GetStats(); len(stats) != 1 || stats[0].RequestCount != 1000 {
		t.Errorf("Expected 1000 recorded requests, got %+v", stats)
	}
}

func BenchmarkPerformanceMonitor_RecordRequest(b *testing.B) {
	pm := NewPerformanceMonitor(1000, 0)
	metric := &RequestMetrics{Route: "/api/v1/explore/{analysis}/sql", Method: "POST", DurationMS: 3, StatusCode: 200}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pm.RecordRequest(metric)
	}
}

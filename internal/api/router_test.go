// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/clickstream-explore/internal/config"
	"github.com/tomtom215/clickstream-explore/internal/middleware"
	"github.com/tomtom215/clickstream-explore/internal/models"
)

func get(t *testing.T, srv http.Handler, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("Response is not JSON: %v", err)
		}
	}
	return rec, env
}

func TestHealthLive(t *testing.T) {
	srv, _ := testServer(t, testCompiler(), nil)

	rec, env := get(t, srv, "/health/live")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(string(env.Data), `"alive":true`) {
		t.Errorf("Expected alive payload, got %s", env.Data)
	}
}

func TestHealthReady(t *testing.T) {
	srv, h := testServer(t, testCompiler(), nil)

	rec, env := get(t, srv, "/health/ready")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var health models.HealthStatus
	if err := json.Unmarshal(env.Data, &health); err != nil {
		t.Fatalf("Failed to decode health: %v", err)
	}
	if health.Status != "ready" || health.EventView != "clickstream_event_view_v3" || health.Version != "test" {
		t.Errorf("Unexpected health payload: %+v", health)
	}

	h.SetReady(false)
	rec, env = get(t, srv, "/health/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 while draining, got %d", rec.Code)
	}
	if env.Status != "not_ready" {
		t.Errorf("Expected %q, got %q", "not_ready", env.Status)
	}
}

func TestHealthReady_NoCompiler(t *testing.T) {
	h := NewHandler(nil, nil, HandlerConfig{})
	h.SetReady(true)
	srv := NewRouter(h, nil, nil).SetupChi()

	rec, _ := get(t, srv, "/health/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 without a compiler, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := testServer(t, testCompiler(), nil)
	post(t, srv, "/api/v1/explore/funnel/sql", funnelBody)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	for _, name := range []string{"explore_compilations_total", "explore_sql_bytes", "api_requests_total"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Errorf("Expected /metrics to expose %s", name)
		}
	}
	if !strings.Contains(rec.Body.String(), `path="/api/v1/explore/{analysis}/sql"`) {
		t.Error("Expected request metrics labelled by route pattern")
	}
}

func TestNotFound(t *testing.T) {
	srv, _ := testServer(t, testCompiler(), nil)

	rec, env := get(t, srv, "/api/v2/nothing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("Expected %s error body, got %+v", ErrCodeNotFound, env.Error)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := NewChiMiddlewareConfig(config.SecurityConfig{
		CORSOrigins:     []string{"*"},
		RateLimitReqs:   2,
		RateLimitWindow: time.Minute,
	})
	srv, _ := testServer(t, testCompiler(), cfg)

	var last *httptest.ResponseRecorder
	var lastEnv envelope
	for i := 0; i < 3; i++ {
		last, lastEnv = post(t, srv, "/api/v1/explore/funnel/sql", funnelBody)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected status 429 on third request, got %d", last.Code)
	}
	if lastEnv.Error == nil || lastEnv.Error.Code != ErrCodeRateLimited {
		t.Errorf("Expected %s error body, got %+v", ErrCodeRateLimited, lastEnv.Error)
	}

	// Probes have their own budget.
	if rec, _ := get(t, srv, "/health/live"); rec.Code != http.StatusOK {
		t.Errorf("Expected health probe to bypass API limit, got %d", rec.Code)
	}
}

func TestCORS_Preflight(t *testing.T) {
	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"https://dash.example.com"}
	cfg.RateLimitDisabled = true
	srv, _ := testServer(t, testCompiler(), cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/explore/funnel/sql", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example.com" {
		t.Errorf("Expected allowed origin echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/explore/funnel/sql", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected disallowed origin to get no CORS header, got %q", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _ := testServer(t, testCompiler(), nil)

	rec, _ := post(t, srv, "/api/v1/explore/funnel/sql", funnelBody)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("Expected %q, got %q", "nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("Expected %q, got %q", "DENY", got)
	}
}

func TestCompression(t *testing.T) {
	srv, _ := testServer(t, testCompiler(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/explore/funnel/sql", strings.NewReader(funnelBody))
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Errorf("Expected gzip response, got %q", got)
	}
}

func TestPerformanceStats(t *testing.T) {
	srv, _ := testServer(t, testCompiler(), nil)
	post(t, srv, "/api/v1/explore/funnel/sql", funnelBody)
	post(t, srv, "/api/v1/explore/funnel/sql", funnelBody)

	rec, env := get(t, srv, "/api/v1/stats/performance?recent=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var data struct {
		Endpoints []middleware.EndpointStats  `json:"endpoints"`
		Recent    []middleware.RequestMetrics `json:"recent"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if len(data.Recent) != 1 {
		t.Errorf("Expected 1 recent request, got %d", len(data.Recent))
	}
	found := false
	for _, e := range data.Endpoints {
		if e.Endpoint == "POST /api/v1/explore/{analysis}/sql" && e.RequestCount == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected compile endpoint with 2 requests, got %+v", data.Endpoints)
	}

	rec, env = get(t, srv, "/api/v1/stats/performance?recent=abc")
	if rec.Code != http.StatusBadRequest || env.Error.Code != ErrCodeValidation {
		t.Errorf("Expected 400 %s, got %d %+v", ErrCodeValidation, rec.Code, env.Error)
	}
}

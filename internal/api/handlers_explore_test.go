// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/clickstream-explore/internal/explore"
	"github.com/tomtom215/clickstream-explore/internal/metrics"
	"github.com/tomtom215/clickstream-explore/internal/middleware"
	"github.com/tomtom215/clickstream-explore/internal/models"
)

// envelope mirrors models.APIResponse with Data left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func testCompiler() *explore.Compiler {
	return explore.New(
		explore.WithClock(explore.FixedClock(time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC))),
		explore.WithFormatting(false),
	)
}

func testServer(t *testing.T, compiler SQLCompiler, mwConfig *ChiMiddlewareConfig) (http.Handler, *Handler) {
	t.Helper()
	if mwConfig == nil {
		mwConfig = DefaultChiMiddlewareConfig()
		mwConfig.RateLimitDisabled = true
	}
	perfMon := middleware.NewPerformanceMonitor(100, 0)
	h := NewHandler(compiler, perfMon, HandlerConfig{Version: "test", EventView: "clickstream_event_view_v3"})
	return NewRouter(h, NewChiMiddleware(mwConfig), perfMon).SetupChi(), h
}

func post(t *testing.T, srv http.Handler, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return rec, env
}

const baseJSON = `"dbName":"app","schemaName":"shop","computeMethod":"USER_ID_CNT",
	"timeScopeType":"FIXED","timeStart":"2024-03-01","timeEnd":"2024-03-07",
	"groupColumn":"DAY","timezone":"Asia/Shanghai"`

const funnelBody = `{"chartType":"table","parameters":{` + baseJSON + `,
	"conversionIntervalType":"CUSTOMIZE","conversionIntervalInSeconds":600,
	"eventAndConditions":[{"eventName":"view_item"},{"eventName":"add_to_cart"},{"eventName":"purchase"}]}}`

const attributionBody = `{"chartType":"table","parameters":{"dbName":"app","schemaName":"shop",
	"computeMethod":"EVENT_CNT","timeScopeType":"RELATIVE","lastN":7,"timeUnit":"DD",
	"targetEventAndCondition":{"eventName":"purchase"},
	"eventAndConditions":[{"eventName":"view_item"},{"eventName":"add_to_cart"}],
	"modelType":"POSITION","modelWeights":[0.4,0.4],"timeWindowType":"SESSION"}}`

func TestCompileSQL_Success(t *testing.T) {
	srv, _ := testServer(t, testCompiler(), nil)

	tests := []struct {
		name     string
		path     string
		body     string
		analysis models.AnalysisType
		contains []string
	}{
		{
			name:     "funnel table",
			path:     "/api/v1/explore/funnel/sql",
			body:     funnelBody,
			analysis: models.AnalysisFunnel,
			contains: []string{"base_data", "view_item", "add_to_cart", "purchase", "app.shop.clickstream_event_view_v3"},
		},
		{
			name: "path sankey",
			path: "/api/v1/explore/path/sql",
			body: `{"chartType":"sankey","parameters":{` + baseJSON + `,
				"eventAndConditions":[{"eventName":"view_item"},{"eventName":"purchase"}],
				"pathAnalysis":{"sessionType":"SESSION","nodeType":"event"}}}`,
			analysis: models.AnalysisPath,
			contains: []string{"session_id"},
		},
		{
			name:     "attribution",
			path:     "/api/v1/explore/attribution/sql",
			body:     attributionBody,
			analysis: models.AnalysisAttribution,
			contains: []string{"purchase", "view_item"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			successBefore := testutil.ToFloat64(metrics.CompilationsTotal.WithLabelValues(string(tt.analysis), metrics.StatusSuccess))

			rec, env := post(t, srv, tt.path, tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if env.Status != "success" {
				t.Errorf("Expected %q, got %q", "success", env.Status)
			}

			var compiled models.CompiledSQL
			if err := json.Unmarshal(env.Data, &compiled); err != nil {
				t.Fatalf("Failed to decode data: %v", err)
			}
			if compiled.Analysis != tt.analysis {
				t.Errorf("Expected %q, got %q", tt.analysis, compiled.Analysis)
			}
			if compiled.Fingerprint != Fingerprint(compiled.SQL) || len(compiled.Fingerprint) != 16 {
				t.Errorf("Fingerprint %q does not match the SQL", compiled.Fingerprint)
			}
			for _, s := range tt.contains {
				if !strings.Contains(compiled.SQL, s) {
					t.Errorf("Expected SQL to contain %q", s)
				}
			}

			if etag := rec.Header().Get("ETag"); !strings.HasPrefix(etag, `W/"`) {
				t.Errorf("Expected weak ETag, got %q", etag)
			}
			if id := rec.Header().Get(middleware.RequestIDHeader); id == "" || env.Metadata.RequestID != id {
				t.Errorf("Expected metadata request ID %q, got %q", id, env.Metadata.RequestID)
			}

			successAfter := testutil.ToFloat64(metrics.CompilationsTotal.WithLabelValues(string(tt.analysis), metrics.StatusSuccess))
			if successAfter-successBefore != 1 {
				t.Errorf("Expected one recorded compilation, got %v", successAfter-successBefore)
			}
		})
	}
}

func TestCompileSQL_FingerprintIsStable(t *testing.T) {
	srv, _ := testServer(t, testCompiler(), nil)

	_, first := post(t, srv, "/api/v1/explore/funnel/sql", funnelBody)
	_, second := post(t, srv, "/api/v1/explore/funnel/sql", funnelBody)

	var a, b models.CompiledSQL
	_ = json.Unmarshal(first.Data, &a)
	_ = json.Unmarshal(second.Data, &b)
	if a.Fingerprint == "" || a.Fingerprint != b.Fingerprint {
		t.Errorf("Expected identical requests to share a fingerprint, got %q and %q", a.Fingerprint, b.Fingerprint)
	}
}

func TestCompileSQL_ClientErrors(t *testing.T) {
	srv, _ := testServer(t, testCompiler(), nil)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "unknown analysis",
			path:       "/api/v1/explore/cohort/sql",
			body:       funnelBody,
			wantStatus: http.StatusNotFound,
			wantCode:   ErrCodeUnknownAnalysis,
		},
		{
			name:       "empty body",
			path:       "/api/v1/explore/funnel/sql",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeInvalidJSON,
			wantMsg:    "empty",
		},
		{
			name:       "malformed json",
			path:       "/api/v1/explore/funnel/sql",
			body:       `{"chartType":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeInvalidJSON,
		},
		{
			name:       "trailing document",
			path:       "/api/v1/explore/funnel/sql",
			body:       funnelBody + funnelBody,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeInvalidJSON,
			wantMsg:    "single JSON object",
		},
		{
			name: "funnel with one event",
			path: "/api/v1/explore/funnel/sql",
			body: `{"chartType":"table","parameters":{` + baseJSON + `,
				"eventAndConditions":[{"eventName":"view_item"}]}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidation,
			wantMsg:    "at least 2 events",
		},
		{
			name: "chart not offered by family",
			path: "/api/v1/explore/retention/sql",
			body: `{"chartType":"sankey","parameters":{` + baseJSON + `,
				"pairEventAndConditions":[{"startEvent":{"eventName":"sign_up"},"backEvent":{"eventName":"login"}}]}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidation,
		},
		{
			name: "identifier injection",
			path: "/api/v1/explore/event/sql",
			body: `{"chartType":"bar","parameters":{"dbName":"app; drop table x","schemaName":"shop",
				"computeMethod":"USER_ID_CNT","timeScopeType":"RELATIVE","lastN":7,"timeUnit":"DD",
				"eventAndConditions":[{"eventName":"view_item"}]}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidation,
		},
		{
			name:       "attribution without touch points",
			path:       "/api/v1/explore/attribution/sql",
			body:       strings.Replace(attributionBody, `"eventAndConditions":[{"eventName":"view_item"},{"eventName":"add_to_cart"}]`, `"eventAndConditions":[]`, 1),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidation,
			wantMsg:    "touch point",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := post(t, srv, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if env.Status != "error" || env.Error == nil {
				t.Fatalf("Expected error envelope, got %s", rec.Body.String())
			}
			if env.Error.Code != tt.wantCode {
				t.Errorf("Expected code %q, got %q", tt.wantCode, env.Error.Code)
			}
			if tt.wantMsg != "" && !strings.Contains(env.Error.Message, tt.wantMsg) {
				t.Errorf("Expected message containing %q, got %q", tt.wantMsg, env.Error.Message)
			}
		})
	}
}

func TestCompileSQL_ValidationFailureIsCounted(t *testing.T) {
	srv, _ := testServer(t, testCompiler(), nil)

	counter := metrics.ValidationFailures.WithLabelValues(string(models.AnalysisFunnel))
	before := testutil.ToFloat64(counter)

	post(t, srv, "/api/v1/explore/funnel/sql", `{"chartType":"table","parameters":{}}`)

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("Expected 1 validation failure, got %v", got)
	}
}

func TestCompileSQL_BodyTooLarge(t *testing.T) {
	srv, _ := testServer(t, testCompiler(), nil)

	body := `{"chartType":"table","parameters":{"dbName":"` + strings.Repeat("a", MaxRequestBodyBytes) + `"}}`
	rec, env := post(t, srv, "/api/v1/explore/funnel/sql", body)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("Expected status 413, got %d", rec.Code)
	}
	if env.Error.Code != ErrCodeInvalidJSON {
		t.Errorf("Expected code %q, got %q", ErrCodeInvalidJSON, env.Error.Code)
	}
}

func TestCompileSQL_CompileErrorIsUnprocessable(t *testing.T) {
	srv, _ := testServer(t, testCompiler(), nil)

	// Validation only checks that a value is present; the compiler rejects
	// a non-numeric operand for an int property.
	body := `{"chartType":"bar","parameters":{` + baseJSON + `,
		"eventAndConditions":[{"eventName":"level_up","sqlCondition":{"conditions":[
			{"category":"event","property":"level","operator":">","value":["ten"],"dataType":"int"}]}}]}}`

	errorsBefore := testutil.ToFloat64(metrics.CompilationsTotal.WithLabelValues(string(models.AnalysisEvent), metrics.StatusError))

	rec, env := post(t, srv, "/api/v1/explore/event/sql", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.Error.Code != ErrCodeCompile {
		t.Errorf("Expected code %q, got %q", ErrCodeCompile, env.Error.Code)
	}
	if env.Error.Details["property"] != "level" {
		t.Errorf("Expected failing property in details, got %v", env.Error.Details)
	}

	errorsAfter := testutil.ToFloat64(metrics.CompilationsTotal.WithLabelValues(string(models.AnalysisEvent), metrics.StatusError))
	if errorsAfter-errorsBefore != 1 {
		t.Errorf("Expected one recorded compile error, got %v", errorsAfter-errorsBefore)
	}
}

type failingCompiler struct{ err error }

func (f failingCompiler) Compile(models.AnalysisType, models.ChartType, *models.SQLParameters) (string, error) {
	return "", f.err
}

func (f failingCompiler) CompileAttribution(models.ChartType, *models.AttributionSQLParameters) (string, error) {
	return "", f.err
}

func TestCompileSQL_UnexpectedErrorIsInternal(t *testing.T) {
	srv, _ := testServer(t, failingCompiler{err: errors.New("boom")}, nil)

	rec, env := post(t, srv, "/api/v1/explore/attribution/sql", attributionBody)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", rec.Code)
	}
	if env.Error.Code != ErrCodeInternal {
		t.Errorf("Expected code %q, got %q", ErrCodeInternal, env.Error.Code)
	}
	if strings.Contains(env.Error.Message, "boom") {
		t.Error("Expected internal error text not to reach the client")
	}
}

func TestCompileSQL_MethodNotAllowed(t *testing.T) {
	srv, _ := testServer(t, testCompiler(), nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/explore/funnel/sql", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rec.Code)
	}
}


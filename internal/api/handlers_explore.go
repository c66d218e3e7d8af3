// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/clickstream-explore/internal/explore"
	"github.com/tomtom215/clickstream-explore/internal/metrics"
	"github.com/tomtom215/clickstream-explore/internal/models"
	"github.com/tomtom215/clickstream-explore/internal/validation"
)

// CompileSQL handles POST /api/v1/explore/{analysis}/sql.
//
// The body is {"chartType": ..., "parameters": {...}}. It is validated
// against the request rules of the analysis family and compiled into a single
// SQL statement.
//
// Responses:
//   - 200 with models.CompiledSQL
//   - 400 VALIDATION_ERROR or INVALID_JSON
//   - 404 UNKNOWN_ANALYSIS
//   - 413 INVALID_JSON when the body exceeds MaxRequestBodyBytes
//   - 422 COMPILE_ERROR when the compiler refuses a valid request
//   - 500 INTERNAL_ERROR
func (h *Handler) CompileSQL(w http.ResponseWriter, r *http.Request) {
	segment := chi.URLParam(r, "analysis")
	analysis, ok := parseAnalysis(segment)
	if !ok {
		respondError(w, r, http.StatusNotFound, ErrCodeUnknownAnalysis,
			"Unknown analysis "+sanitizeLogValue(segment)+"; expected funnel, event, path, retention or attribution", nil)
		return
	}

	var (
		chart models.ChartType
		sql   string
		err   error
	)
	start := time.Now()

	if analysis == models.AnalysisAttribution {
		var req models.AttributionRequest
		if !h.decode(w, r, analysis, &req) {
			return
		}
		chart = req.ChartType
		if verr := validation.ValidateAttribution(&req); verr != nil {
			h.rejectInvalid(w, r, analysis, chart, verr)
			return
		}
		start = time.Now()
		sql, err = h.compiler.CompileAttribution(chart, &req.Parameters)
	} else {
		var req models.ExploreRequest
		if !h.decode(w, r, analysis, &req) {
			return
		}
		chart = req.ChartType
		if verr := validation.ValidateExplore(analysis, &req); verr != nil {
			h.rejectInvalid(w, r, analysis, chart, verr)
			return
		}
		start = time.Now()
		sql, err = h.compiler.Compile(analysis, chart, &req.Parameters)
	}
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordCompileError(string(analysis), elapsed)
		h.compileLog.Failed(r.Context(), string(analysis), string(chart), err)
		if explore.IsCompileError(err) {
			respondErrorWithDetails(w, r, http.StatusUnprocessableEntity, ErrCodeCompile, err.Error(),
				compileErrorDetails(err), nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to compile request", err)
		return
	}

	fingerprint := Fingerprint(sql)
	metrics.RecordCompilation(string(analysis), elapsed, len(sql))
	h.compileLog.Compiled(r.Context(), string(analysis), string(chart), len(sql), elapsed, fingerprint)

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.CompiledSQL{
			Analysis:    analysis,
			ChartType:   chart,
			SQL:         sql,
			Fingerprint: fingerprint,
		},
		Metadata: models.Metadata{
			CompileTimeMS: elapsed.Milliseconds(),
		},
	})
}

// decode reads the body into v and answers the request itself on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, analysis models.AnalysisType, v interface{}) bool {
	err := decodeJSON(w, r, v)
	if err == nil {
		return true
	}

	metrics.RecordValidationFailure(string(analysis))
	h.compileLog.Rejected(r.Context(), string(analysis), "", err)

	status := http.StatusBadRequest
	if errors.Is(err, ErrBodyTooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	respondError(w, r, status, ErrCodeInvalidJSON, "Invalid request body: "+err.Error(), nil)
	return false
}

func (h *Handler) rejectInvalid(w http.ResponseWriter, r *http.Request, analysis models.AnalysisType, chart models.ChartType, verr *validation.RequestValidationError) {
	metrics.RecordValidationFailure(string(analysis))
	h.compileLog.Rejected(r.Context(), string(analysis), string(chart), verr)

	apiErr := verr.ToAPIError()
	respondErrorWithDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
}

// compileErrorDetails names the failing condition when there is one.
func compileErrorDetails(err error) map[string]interface{} {
	var condErr *explore.ConditionError
	if !errors.As(err, &condErr) {
		return nil
	}
	return map[string]interface{}{
		"category": condErr.Condition.Category,
		"property": condErr.Condition.Property,
		"dataType": condErr.Condition.DataType,
		"operator": condErr.Condition.Operator,
	}
}

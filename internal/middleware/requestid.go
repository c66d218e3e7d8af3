// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package middleware

import (
	"context"
	"net/http"

	"github.com/tomtom215/clickstream-explore/internal/logging"
)

const (
	// RequestIDHeader carries the request ID in both directions.
	RequestIDHeader = "X-Request-ID"

	// CorrelationIDHeader lets a caller tie several compiles together.
	CorrelationIDHeader = "X-Correlation-ID"
)

// RequestID assigns every request a request ID and a correlation ID, echoes
// both as response headers and stores them in the logging context.
// IDs supplied by an upstream proxy or caller are kept.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}
		correlationID := r.Header.Get(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = logging.GenerateCorrelationID()
		}

		w.Header().Set(RequestIDHeader, requestID)
		w.Header().Set(CorrelationIDHeader, correlationID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		ctx = logging.ContextWithCorrelationID(ctx, correlationID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	return logging.RequestIDFromContext(ctx)
}

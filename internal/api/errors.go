// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package api

import "errors"

// Error codes carried in models.APIError.Code.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeUnknownAnalysis  = "UNKNOWN_ANALYSIS"
	ErrCodeCompile          = "COMPILE_ERROR"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
)

var (
	// ErrEmptyBody indicates a compile request without a JSON body.
	ErrEmptyBody = errors.New("request body is empty")

	// ErrBodyTooLarge indicates a body above MaxRequestBodyBytes.
	ErrBodyTooLarge = errors.New("request body too large")
)

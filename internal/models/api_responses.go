// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package models

import (
	"time"
)

// APIResponse is the envelope of every HTTP response.
//
// Status is "success" with Data populated, or "error" with Error populated.
//
// Example successful compile:
//
//	{
//	  "status": "success",
//	  "data": {
//	    "analysis": "funnel",
//	    "chartType": "table",
//	    "sql": "with base_data as (...) select ...",
//	    "fingerprint": "3f9a0c1b2d4e5f60"
//	  },
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "compile_time_ms": 2}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "EventAndConditions: funnel analysis needs at least 2 events",
//	    "details": {"fields": [...]}
//	  },
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata accompanies every response.
type Metadata struct {
	Timestamp     time.Time `json:"timestamp"`
	CompileTimeMS int64     `json:"compile_time_ms,omitempty"`
	RequestID     string    `json:"request_id,omitempty"`
}

// APIError is the machine-readable error body.
//
// Codes in use:
//   - VALIDATION_ERROR: the request broke a request rule
//   - INVALID_JSON: the body could not be decoded
//   - UNKNOWN_ANALYSIS: the path names no analysis family
//   - COMPILE_ERROR: the compiler refused a request that passed validation
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the payload of the health endpoints.
type HealthStatus struct {
	Status    string  `json:"status"`
	Version   string  `json:"version"`
	EventView string  `json:"event_view,omitempty"`
	Uptime    float64 `json:"uptime"`
}

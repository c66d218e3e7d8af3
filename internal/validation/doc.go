// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

// Package validation checks explore requests before they reach the compiler.
//
// Two layers run on every request:
//   - Struct tags, enforced by a thread-safe singleton go-playground/validator v10
//     instance (enums via oneof, identifiers via the custom sqlident tag,
//     timezones via the built-in timezone tag).
//   - Cross-field rules per analysis family (ValidateExplore, ValidateAttribution):
//     time scope bounds, minimum event counts, grouping restrictions, retention
//     join column pairing, attribution model weights and windows.
//
// Both layers report through RequestValidationError, which converts to the API
// error format:
//
//	if verr := validation.ValidateExplore(models.AnalysisFunnel, &req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Identifiers
//
// Database, schema, property and join column names are written into SQL
// unquoted. The sqlident tag restricts them to [A-Za-z_][A-Za-z0-9_]*.
// Literal values are never checked here; the compiler quotes them.
//
// # Error Message Translation
//
//	required   -> "Property is required"
//	sqlident   -> "Property must start with a letter or underscore and ..."
//	timezone   -> "Timezone must be a valid IANA timezone name"
//	oneof=a b  -> "Operator must be one of: a b"
//	max=255    -> "EventName must be at most 255 characters"
package validation

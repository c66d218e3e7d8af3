// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package api

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/clickstream-explore/internal/logging"
	"github.com/tomtom215/clickstream-explore/internal/models"
)

// fingerprintLen is the number of hex characters kept from the SQL digest.
const fingerprintLen = 16

// Fingerprint identifies generated SQL so callers can skip re-provisioning
// a dataset whose query text has not changed.
func Fingerprint(sql string) string {
	sum := sha256.Sum256([]byte(sql))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with a weak ETag over the encoded body.
// The request ID is copied into the metadata when the caller left it blank.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *models.APIResponse) {
	if response.Metadata.Timestamp.IsZero() {
		response.Metadata.Timestamp = time.Now().UTC()
	}
	if response.Metadata.RequestID == "" {
		response.Metadata.RequestID = logging.RequestIDFromContext(r.Context())
	}

	data, err := json.Marshal(response)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a weak ETag from data using FNV-1a.
// Weak because metadata such as the timestamp differs between identical results.
func generateETag(data []byte) string {
	h := fnv.New32a()
	_, _ = h.Write(data)
	return fmt.Sprintf(`W/"%x"`, h.Sum32())
}

// respondError sends an error response. err, when set, is logged but never
// sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	respondErrorWithDetails(w, r, status, code, message, nil, err)
}

func respondErrorWithDetails(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Int("status", status).
			Msg("API Error")
	}

	respondJSON(w, r, status, &models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

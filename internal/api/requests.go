// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/clickstream-explore/internal/models"
)

// MaxRequestBodyBytes bounds a compile request body.
const MaxRequestBodyBytes = 1 << 20

// decodeJSON reads exactly one JSON document from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
		}
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// parseAnalysis maps the {analysis} path segment to an analysis family.
func parseAnalysis(segment string) (models.AnalysisType, bool) {
	for _, a := range models.AllAnalysisTypes() {
		if string(a) == segment {
			return a, true
		}
	}
	return "", false
}

// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package models

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// DateLayout is the wire and SQL layout of a calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar date. Only the year, month and day are meaningful.
type Date struct {
	time.Time
}

// NewDate returns the calendar date y-m-d.
func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// UnmarshalJSON accepts "2024-01-31", an RFC 3339 timestamp, or epoch milliseconds.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if t, err := time.Parse(DateLayout, s); err == nil {
			d.Time = t
			return nil
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
		}
		y, m, day := t.Date()
		*d = NewDate(y, m, day)
		return nil
	}

	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid date %s: %w", data, err)
	}
	y, m, day := time.UnixMilli(ms).UTC().Date()
	*d = NewDate(y, m, day)
	return nil
}

// MarshalJSON writes the date as YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// ConditionValues holds condition operands as their literal text.
// Numbers and booleans keep their JSON spelling so large integers are not
// rounded through float64.
type ConditionValues []string

// UnmarshalJSON accepts a list mixing strings, numbers and booleans.
func (v *ConditionValues) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("condition value must be a list: %w", err)
	}

	out := make(ConditionValues, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		switch {
		case bytes.Equal(item, []byte("null")):
			continue
		case len(item) > 0 && item[0] == '"':
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				return err
			}
			out = append(out, s)
		case len(item) > 0 && (item[0] == '[' || item[0] == '{'):
			return fmt.Errorf("condition value %s is not a scalar", item)
		default:
			out = append(out, string(item))
		}
	}
	*v = out
	return nil
}

// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCompileLogger(t *testing.T) {
	var buf bytes.Buffer
	cl := NewCompileLoggerWithLogger(NewTestLogger(&buf))
	ctx := ContextWithRequestID(context.Background(), "req-9")

	cl.Compiled(ctx, "funnel", "table", 2048, 1500*time.Microsecond, "0123456789abcdef")

	output := buf.String()
	for _, want := range []string{
		`"component":"explore"`,
		`"analysis":"funnel"`,
		`"chart_type":"table"`,
		`"sql_bytes":2048`,
		`"duration_ms":1.5`,
		`"fingerprint":"0123456789abcdef"`,
		`"request_id":"req-9"`,
		`"level":"info"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %s, got: %s", want, output)
		}
	}
}

func TestCompileLogger_Errors(t *testing.T) {
	var buf bytes.Buffer
	cl := NewCompileLoggerWithLogger(NewTestLogger(&buf))

	cl.Rejected(context.Background(), "path", "", errors.New("pathAnalysis is required"))
	cl.Failed(context.Background(), "event", "line", errors.New(strings.Repeat("x", 1000)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"level":"warn"`) || strings.Contains(lines[0], "chart_type") {
		t.Errorf("Expected warn line without chart_type, got %s", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"error"`) || !strings.Contains(lines[1], `..."`) {
		t.Errorf("Expected truncated error line, got %s", lines[1])
	}
	if len(lines[1]) > 800 {
		t.Errorf("Expected error text to be truncated, got %d bytes", len(lines[1]))
	}
}

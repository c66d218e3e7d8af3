// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newBufferedSlog(level zerolog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(level)
	return slog.New(NewSlogHandlerWithLogger(logger)), &buf
}

func TestSlogHandler_Enabled(t *testing.T) {
	handler := NewSlogHandlerWithLogger(zerolog.New(nil).Level(zerolog.WarnLevel))

	tests := []struct {
		level    slog.Level
		expected bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, false},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := handler.Enabled(context.Background(), tt.level); got != tt.expected {
				t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.expected)
			}
		})
	}
}

func TestSlogHandler_Handle(t *testing.T) {
	slogger, buf := newBufferedSlog(zerolog.DebugLevel)

	slogger.Warn("service restarted",
		"service", "http",
		"attempt", 3,
		"healthy", false,
		"backoff", 15*time.Second,
	)

	output := buf.String()
	for _, want := range []string{
		`"level":"warn"`,
		`"message":"service restarted"`,
		`"service":"http"`,
		`"attempt":3`,
		`"healthy":false`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %s, got: %s", want, output)
		}
	}
}

func TestSlogHandler_WithAttrsAndGroups(t *testing.T) {
	slogger, buf := newBufferedSlog(zerolog.DebugLevel)

	slogger.With("supervisor", "root").
		WithGroup("event").
		WithGroup("service").
		Info("terminated", "name", "api")

	output := buf.String()
	if !strings.Contains(output, `supervisor":"root"`) {
		t.Errorf("expected supervisor attribute, got: %s", output)
	}
	if !strings.Contains(output, `"event.service.name":"api"`) {
		t.Errorf("expected nested group prefix in order, got: %s", output)
	}
}

func TestSlogHandler_GroupAttr(t *testing.T) {
	slogger, buf := newBufferedSlog(zerolog.DebugLevel)

	slogger.Info("grouped", slog.Group("req", slog.String("method", "POST"), slog.Int("status", 200)))

	output := buf.String()
	if !strings.Contains(output, `"req.method":"POST"`) || !strings.Contains(output, `"req.status":200`) {
		t.Errorf("expected flattened group keys, got: %s", output)
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	tests := []struct {
		input    slog.Level
		expected zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		if got := slogToZerologLevel(tt.input); got != tt.expected {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

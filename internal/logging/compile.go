// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package logging

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// CompileLogger records the outcome of compile requests with a fixed field
// set, so dashboards can rely on analysis, chart_type and duration_ms.
type CompileLogger struct {
	logger zerolog.Logger
}

// NewCompileLogger creates a CompileLogger on the global logger.
func NewCompileLogger() *CompileLogger {
	return &CompileLogger{logger: WithComponent("explore")}
}

// NewCompileLoggerWithLogger creates a CompileLogger on a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCompileLoggerWithLogger(logger zerolog.Logger) *CompileLogger {
	return &CompileLogger{logger: logger.With().Str("component", "explore").Logger()}
}

func (c *CompileLogger) event(ctx context.Context, level zerolog.Level, analysis, chart string) *zerolog.Event {
	e := c.logger.WithLevel(level).Str("analysis", analysis)
	if chart != "" {
		e = e.Str("chart_type", chart)
	}
	if id := CorrelationIDFromContext(ctx); id != "" {
		e = e.Str("correlation_id", id)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		e = e.Str("request_id", id)
	}
	return e
}

// Compiled logs a successful compile.
func (c *CompileLogger) Compiled(ctx context.Context, analysis, chart string, sqlBytes int, elapsed time.Duration, fingerprint string) {
	c.event(ctx, zerolog.InfoLevel, analysis, chart).
		Int("sql_bytes", sqlBytes).
		Float64("duration_ms", float64(elapsed.Microseconds())/1000).
		Str("fingerprint", fingerprint).
		Msg("SQL compiled")
}

// Rejected logs a request that failed validation.
func (c *CompileLogger) Rejected(ctx context.Context, analysis, chart string, err error) {
	c.event(ctx, zerolog.WarnLevel, analysis, chart).
		Str("error", truncate(err.Error(), maxLoggedErrorLen)).
		Msg("Compile request rejected")
}

// Failed logs a compile error.
func (c *CompileLogger) Failed(ctx context.Context, analysis, chart string, err error) {
	c.event(ctx, zerolog.ErrorLevel, analysis, chart).
		Str("error", truncate(err.Error(), maxLoggedErrorLen)).
		Msg("SQL compile failed")
}

// maxLoggedErrorLen bounds error text; messages may echo request values.
const maxLoggedErrorLen = 512

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

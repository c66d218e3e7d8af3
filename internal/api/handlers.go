// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package api

import (
	"sync/atomic"
	"time"

	"github.com/tomtom215/clickstream-explore/internal/logging"
	"github.com/tomtom215/clickstream-explore/internal/middleware"
	"github.com/tomtom215/clickstream-explore/internal/models"
)

// SQLCompiler turns validated requests into SQL. *explore.Compiler satisfies it.
type SQLCompiler interface {
	Compile(analysis models.AnalysisType, chart models.ChartType, p *models.SQLParameters) (string, error)
	CompileAttribution(chart models.ChartType, p *models.AttributionSQLParameters) (string, error)
}

// HandlerConfig carries the values the handlers report but do not act on.
type HandlerConfig struct {
	Version   string
	EventView string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_explore.go: the compile endpoint
//   - handlers_health.go: liveness, readiness and the latency summary
type Handler struct {
	compiler   SQLCompiler
	compileLog *logging.CompileLogger
	perfMon    *middleware.PerformanceMonitor
	config     HandlerConfig
	startTime  time.Time
	ready      atomic.Bool
}

// NewHandler creates a handler that is ready to serve. perfMon may be nil,
// in which case the latency summary endpoint reports no data.
func NewHandler(compiler SQLCompiler, perfMon *middleware.PerformanceMonitor, cfg HandlerConfig) *Handler {
	h := &Handler{
		compiler:   compiler,
		compileLog: logging.NewCompileLogger(),
		perfMon:    perfMon,
		config:     cfg,
		startTime:  time.Now(),
	}
	h.ready.Store(compiler != nil)
	return h
}

// SetReady flips the readiness probe, e.g. to drain traffic before shutdown.
func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready && h.compiler != nil)
}

// SetCompileLogger replaces the compile outcome logger.
func (h *Handler) SetCompileLogger(l *logging.CompileLogger) {
	if l != nil {
		h.compileLog = l
	}
}

// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/clickstream-explore/internal/middleware"
)

// StatsSource yields the current per-endpoint latency summary.
// Satisfied by *middleware.PerformanceMonitor.
type StatsSource interface {
	GetStats() []middleware.EndpointStats
}

// PerformanceReportConfig holds configuration for the latency report.
type PerformanceReportConfig struct {
	// Interval between reports. Default: 5m
	Interval time.Duration

	// TopN limits the report to the busiest endpoints. Default: 5
	TopN int

	// SlowP95 marks an endpoint as slow (logged at warn). Default: 1s
	SlowP95 time.Duration
}

func (c PerformanceReportConfig) withDefaults() PerformanceReportConfig {
	if c.Interval <= 0 {
		c.Interval = 5 * time.Minute
	}
	if c.TopN <= 0 {
		c.TopN = 5
	}
	if c.SlowP95 <= 0 {
		c.SlowP95 = middleware.DefaultSlowThreshold
	}
	return c
}

// PerformanceReportService periodically logs the busiest endpoints from the
// in-process performance monitor.
type PerformanceReportService struct {
	source StatsSource
	config PerformanceReportConfig
	logger zerolog.Logger
	name   string
}

// NewPerformanceReportService creates a new report service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPerformanceReportService(source StatsSource, cfg PerformanceReportConfig, logger zerolog.Logger) *PerformanceReportService {
	return &PerformanceReportService{
		source: source,
		config: cfg.withDefaults(),
		logger: logger.With().Str("service", "performance-report").Logger(),
		name:   "performance-report",
	}
}

// Serve implements suture.Service.
func (s *PerformanceReportService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Int("top_n", s.config.TopN).
		Msg("performance report service starting")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("performance report service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.report()
		}
	}
}

// report logs one line per endpoint and returns how many it logged.
func (s *PerformanceReportService) report() int {
	stats := s.source.GetStats()
	if len(stats) == 0 {
		s.logger.Debug().Msg("no requests in window")
		return 0
	}
	if len(stats) > s.config.TopN {
		stats = stats[:s.config.TopN]
	}

	slowMS := s.config.SlowP95.Milliseconds()
	for i := range stats {
		st := &stats[i]
		event := s.logger.Info()
		if st.P95Duration >= slowMS {
			event = s.logger.Warn()
		}
		event.
			Str("endpoint", st.Endpoint).
			Int64("requests", st.RequestCount).
			Int64("errors", st.ErrorCount).
			Float64("avg_ms", st.AvgDuration).
			Int64("p95_ms", st.P95Duration).
			Int64("max_ms", st.MaxDuration).
			Msg("endpoint latency")
	}
	return len(stats)
}

// String returns the service name for logging.
func (s *PerformanceReportService) String() string {
	return s.name
}

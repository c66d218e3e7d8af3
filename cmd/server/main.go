// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/clickstream-explore/internal/api"
	"github.com/tomtom215/clickstream-explore/internal/config"
	"github.com/tomtom215/clickstream-explore/internal/explore"
	"github.com/tomtom215/clickstream-explore/internal/logging"
	"github.com/tomtom215/clickstream-explore/internal/metrics"
	"github.com/tomtom215/clickstream-explore/internal/middleware"
	"github.com/tomtom215/clickstream-explore/internal/supervisor"
	"github.com/tomtom215/clickstream-explore/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// perfWindow is how many recent requests the latency summary keeps.
const perfWindow = 1000

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("event_view", cfg.Explore.EventView).
		Str("default_timezone", cfg.Explore.DefaultTimezone).
		Int("max_step", cfg.Explore.MaxStep).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Clickstream Explore")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	compiler := explore.New(
		explore.WithEventView(cfg.Explore.EventView),
		explore.WithDefaultTimezone(cfg.Explore.DefaultTimezone),
		explore.WithMaxStep(cfg.Explore.MaxStep),
		explore.WithFormatting(cfg.Explore.Format),
		explore.WithLogger(logging.WithComponent("explore")),
	)

	perfMon := middleware.NewPerformanceMonitor(perfWindow, middleware.DefaultSlowThreshold)
	handler := api.NewHandler(compiler, perfMon, api.HandlerConfig{
		Version:   version,
		EventView: cfg.Explore.EventView,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg.Security)), perfMon)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(
		services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout).
			WithDrain(func() {
				logging.Info().Msg("Draining: readiness probe now reports not_ready")
				handler.SetReady(false)
			}),
	)
	tree.AddOpsService(services.NewPerformanceReportService(
		perfMon,
		services.PerformanceReportConfig{},
		logging.WithComponent("ops"),
	))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Clickstream Explore stopped")
}

// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	// Default: 5
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay in seconds.
	// Default: 30
	FailureDecay float64

	// FailureBackoff is the duration to wait when threshold is exceeded.
	// Default: 15s
	FailureBackoff time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// withDefaults fills zero fields from DefaultTreeConfig.
func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

// SupervisorTree is the process tree of the compile service.
//
// Two layers restart independently:
//   - api: the HTTP server
//   - ops: housekeeping such as the periodic latency report
//
// A crash loop in ops never takes the compile endpoint down.
type SupervisorTree struct {
	root   *suture.Supervisor
	api    *suture.Supervisor
	ops    *suture.Supervisor
	logger *slog.Logger
	config TreeConfig
}

// NewSupervisorTree creates a new supervisor tree with the given configuration.
// Supervisor events are written to logger through sutureslog.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	config = config.withDefaults()

	// MustHook has a pointer receiver.
	handler := &sutureslog.Handler{Logger: logger}

	rootSpec := suture.Spec{
		EventHook:        handler.MustHook(),
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	// Children inherit the EventHook when added to the root.
	childSpec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	root := suture.New("clickstream-explore", rootSpec)
	api := suture.New("api-layer", childSpec)
	ops := suture.New("ops-layer", childSpec)

	root.Add(api)
	root.Add(ops)

	return &SupervisorTree{
		root:   root,
		api:    api,
		ops:    ops,
		logger: logger,
		config: config,
	}, nil
}

// Root returns the root supervisor for direct access if needed.
func (t *SupervisorTree) Root() *suture.Supervisor {
	return t.root
}

// AddAPIService adds a service to the API layer supervisor.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// AddOpsService adds a service to the ops layer supervisor.
func (t *SupervisorTree) AddOpsService(svc suture.Service) suture.ServiceToken {
	return t.ops.Add(svc)
}

// RemoveOpsService stops and removes a service added with AddOpsService.
func (t *SupervisorTree) RemoveOpsService(token suture.ServiceToken) error {
	return t.ops.Remove(token)
}

// Serve runs the tree until ctx is canceled.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground starts the supervisor tree in a background goroutine.
// Returns a channel that receives the error (or nil) when the supervisor stops.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport returns information about services that failed to stop
// within the configured shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}

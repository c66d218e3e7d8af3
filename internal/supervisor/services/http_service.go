// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPServer is the slice of *http.Server the service drives.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs the compile API under the supervisor.
//
// ListenAndServe runs in a goroutine. When the context is canceled the
// drain hook runs first (readiness flips to 503 so load balancers stop
// routing), then Shutdown is given shutdownTimeout to finish in-flight
// compiles.
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	drain           func()
	name            string
}

// NewHTTPServerService wraps server. A non-positive shutdownTimeout means 10s.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            "http-server",
	}
}

// WithDrain sets a hook that runs once before Shutdown.
func (h *HTTPServerService) WithDrain(drain func()) *HTTPServerService {
	h.drain = drain
	return h
}

// WithName overrides the name reported to the supervisor.
func (h *HTTPServerService) WithName(name string) *HTTPServerService {
	if name != "" {
		h.name = name
	}
	return h
}

// Serve implements suture.Service.
// http.ErrServerClosed is not an error; a listen failure is returned so the
// supervisor restarts the service.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		if h.drain != nil {
			h.drain()
		}

		// ctx is already canceled
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}

		<-errCh
		return ctx.Err()
	}
}

// String identifies the service in supervisor logs.
func (h *HTTPServerService) String() string {
	return h.name
}

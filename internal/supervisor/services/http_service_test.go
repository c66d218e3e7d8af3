// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// fakeServer blocks in ListenAndServe until Shutdown, unless listenErr is set.
type fakeServer struct {
	listenErr   error
	shutdownErr error

	listens   atomic.Int32
	shutdowns atomic.Int32
	started   chan struct{}
	stopCh    chan struct{}
	stopOnce  sync.Once

	// order records "drain" and "shutdown" as they happen.
	mu    sync.Mutex
	order []string
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		started: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}
}

func (f *fakeServer) ListenAndServe() error {
	f.listens.Add(1)
	select {
	case f.started <- struct{}{}:
	default:
	}
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stopCh
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(_ context.Context) error {
	f.shutdowns.Add(1)
	f.record("shutdown")
	f.stopOnce.Do(func() { close(f.stopCh) })
	return f.shutdownErr
}

func (f *fakeServer) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = append(f.order, step)
}

func (f *fakeServer) steps() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.order...)
}

func (f *fakeServer) waitStarted(t *testing.T) {
	t.Helper()
	select {
	case <-f.started:
	case <-time.After(time.Second):
		t.Fatal("server did not start")
	}
}

var _ suture.Service = (*HTTPServerService)(nil)

func TestNewHTTPServerService_Defaults(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"explicit", 3 * time.Second, 3 * time.Second},
		{"zero", 0, 10 * time.Second},
		{"negative", -time.Second, 10 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewHTTPServerService(newFakeServer(), tt.timeout)
			if svc.shutdownTimeout != tt.want {
				t.Errorf("Expected timeout %v, got %v", tt.want, svc.shutdownTimeout)
			}
			if svc.String() != "http-server" {
				t.Errorf("Expected name %q, got %q", "http-server", svc.String())
			}
		})
	}
}

func TestHTTPServerService_WithName(t *testing.T) {
	svc := NewHTTPServerService(newFakeServer(), time.Second).WithName("compile-api")
	if svc.String() != "compile-api" {
		t.Errorf("Expected %q, got %q", "compile-api", svc.String())
	}
	svc.WithName("")
	if svc.String() != "compile-api" {
		t.Errorf("Expected empty name to be ignored, got %q", svc.String())
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Run("drains then shuts down on cancel", func(t *testing.T) {
		server := newFakeServer()
		svc := NewHTTPServerService(server, time.Second).WithDrain(func() { server.record("drain") })

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		server.waitStarted(t)
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Expected context.Canceled, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after cancel")
		}

		steps := server.steps()
		if len(steps) != 2 || steps[0] != "drain" || steps[1] != "shutdown" {
			t.Errorf("Expected [drain shutdown], got %v", steps)
		}
	})

	t.Run("listen failure is returned", func(t *testing.T) {
		bindErr := errors.New("bind: address already in use")
		server := newFakeServer()
		server.listenErr = bindErr

		err := NewHTTPServerService(server, time.Second).Serve(context.Background())
		if !errors.Is(err, bindErr) {
			t.Errorf("Expected wrapped bind error, got %v", err)
		}
		if server.shutdowns.Load() != 0 {
			t.Errorf("Expected no Shutdown call, got %d", server.shutdowns.Load())
		}
	})

	t.Run("shutdown failure is returned", func(t *testing.T) {
		shutdownErr := errors.New("shutdown timeout")
		server := newFakeServer()
		server.shutdownErr = shutdownErr
		svc := NewHTTPServerService(server, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		server.waitStarted(t)
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, shutdownErr) {
				t.Errorf("Expected shutdown error, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return")
		}
	})
}

func TestHTTPServerService_UnderSupervisor(t *testing.T) {
	server := newFakeServer()
	svc := NewHTTPServerService(server, time.Second)

	sup := suture.New("test-sup", suture.Spec{
		FailureThreshold: 3,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          2 * time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	server.waitStarted(t)
	cancel()
	<-errCh

	if server.listens.Load() != 1 {
		t.Errorf("Expected 1 ListenAndServe call, got %d", server.listens.Load())
	}
	if server.shutdowns.Load() != 1 {
		t.Errorf("Expected 1 Shutdown call, got %d", server.shutdowns.Load())
	}
}

// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

// Package logging provides centralized zerolog-based structured logging.
//
// The package provides:
//   - A global logger configured once from LOG_LEVEL, LOG_FORMAT and LOG_CALLER
//   - JSON output for production and console output for development
//   - Context-aware logging with correlation and request IDs (Ctx, CtxWith)
//   - An slog adapter so suture supervisor events reach the same output
//   - CompileLogger, which records compile outcomes with a fixed field set
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("addr", addr).Msg("Compile service listening")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Compile request rejected")
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
//
// The SQL compiler itself never uses the global logger. It takes a
// zerolog.Logger through explore.WithLogger and defaults to zerolog.Nop().
package logging

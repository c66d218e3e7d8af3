// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

/*
Package supervisor runs the long-lived parts of the compile service under
suture v4.

	RootSupervisor ("clickstream-explore")
	├── APISupervisor ("api-layer")
	│   └── HTTPServerService
	└── OpsSupervisor ("ops-layer")
	    └── PerformanceReportService

Crashed services restart with suture's backoff (threshold 5, decay 30s,
backoff 15s). Canceling the context passed to Serve shuts the tree down,
giving each service ShutdownTimeout to return.

Supervisor events are logged through sutureslog. Pass the zerolog-backed
slog logger so they land in the same stream as everything else:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor tree stopped")
	}
*/
package supervisor

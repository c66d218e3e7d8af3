// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

// Command explore-sql compiles one explore request to warehouse SQL.
//
//	explore-sql --analysis funnel --input funnel.json
//	cat retention.json | explore-sql -a retention --now 2024-03-10T08:00:00Z
package main

import (
	"os"

	"github.com/tomtom215/clickstream-explore/internal/cli/compilecmd"
)

func main() {
	if err := compilecmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}

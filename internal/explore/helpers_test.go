// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package explore

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/clickstream-explore/internal/models"
)

// openDuckDB returns an in-memory database closed at test end.
func openDuckDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		t.Fatalf("failed to open duckdb: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustExec(t *testing.T, db *sql.DB, stmts ...string) {
	t.Helper()
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
}

func datePtr(y int, m time.Month, d int) *models.Date {
	date := models.NewDate(y, m, d)
	return &date
}

// fixedBase is a FIXED-scope request header used across compiler tests.
func fixedBase() models.BaseSQLParameters {
	return models.BaseSQLParameters{
		DBName:        "app",
		SchemaName:    "shop",
		ComputeMethod: models.ComputeUserIDCount,
		TimeScopeType: models.TimeScopeFixed,
		TimeStart:     datePtr(2024, time.March, 1),
		TimeEnd:       datePtr(2024, time.March, 7),
		GroupColumn:   models.GroupColumnDay,
		Timezone:      "Asia/Shanghai",
	}
}

func events(names ...string) []models.EventAndCondition {
	out := make([]models.EventAndCondition, len(names))
	for i, n := range names {
		out[i] = models.EventAndCondition{EventName: n}
	}
	return out
}

// testCompiler has formatting off so assertions can match raw fragments.
func testCompiler(opts ...Option) *Compiler {
	base := []Option{
		WithFormatting(false),
		WithClock(FixedClock(time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC))),
	}
	return New(append(base, opts...)...)
}

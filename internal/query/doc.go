// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

// Package query provides SQL text building utilities for the explore compiler.
//
// The compiler emits a single self-contained statement that is registered
// verbatim as a dataset definition, so there are no bind parameters. Every
// value is rendered as a quoted literal and every fragment is plain text.
//
// # Overview
//
// WhereBuilder accumulates boolean fragments and joins them with one logical
// operator:
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("event_name", "_page_view")
//	wb.AddIn("platform", []string{"Web", "iOS"})
//	wb.Build()
//	// event_name = '_page_view' and platform in ('Web', 'iOS')
//
// OR groups use NewWhereBuilderWith(query.Or). Nested groups are added with
// AddGroup, which parenthesizes the inner builder's output:
//
//	inner := query.NewWhereBuilderWith(query.Or)
//	inner.AddClause("a is null").AddClause("a <> 'x'")
//	query.NewWhereBuilder().AddGroup(inner).Build()
//	// (a is null or a <> 'x')
//
// # Literals
//
// QuoteLiteral doubles embedded single quotes, QuoteIdent doubles embedded
// double quotes, and LiteralList renders a parenthesized IN list. These are
// the only places user-supplied values enter the SQL text.
package query

// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package query

import (
	"fmt"
	"strings"
)

// Logical operators accepted by NewWhereBuilderWith.
const (
	And = "and"
	Or  = "or"
)

// WhereBuilder constructs boolean SQL expressions from literal fragments.
type WhereBuilder struct {
	clauses []string
	op      string
}

// NewWhereBuilder creates a builder that joins clauses with AND.
func NewWhereBuilder() *WhereBuilder {
	return NewWhereBuilderWith(And)
}

// NewWhereBuilderWith creates a builder that joins clauses with op.
// Anything other than Or is treated as And.
func NewWhereBuilderWith(op string) *WhereBuilder {
	if !strings.EqualFold(op, Or) {
		op = And
	}
	return &WhereBuilder{
		clauses: []string{},
		op:      strings.ToLower(op),
	}
}

// AddClause adds a raw boolean fragment. Blank fragments are skipped.
func (wb *WhereBuilder) AddClause(clause string) *WhereBuilder {
	if strings.TrimSpace(clause) != "" {
		wb.clauses = append(wb.clauses, clause)
	}
	return wb
}

// AddClausef adds a formatted fragment.
func (wb *WhereBuilder) AddClausef(format string, args ...interface{}) *WhereBuilder {
	return wb.AddClause(fmt.Sprintf(format, args...))
}

// AddEquals adds "column = 'value'".
func (wb *WhereBuilder) AddEquals(column, value string) *WhereBuilder {
	return wb.AddClause(fmt.Sprintf("%s = %s", column, QuoteLiteral(value)))
}

// AddIn adds "column in ('a', 'b')". An empty list is skipped.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	return wb.AddClause(fmt.Sprintf("%s in %s", column, LiteralList(values)))
}

// AddNotIn adds "column not in ('a', 'b')". An empty list is skipped.
func (wb *WhereBuilder) AddNotIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	return wb.AddClause(fmt.Sprintf("%s not in %s", column, LiteralList(values)))
}

// AddGroup adds another builder's expression in parentheses.
// Empty builders are skipped.
func (wb *WhereBuilder) AddGroup(inner *WhereBuilder) *WhereBuilder {
	if inner == nil || inner.IsEmpty() {
		return wb
	}
	return wb.AddClause("(" + inner.Build() + ")")
}

// Build joins the clauses with the builder's operator.
// Returns "1=1" if no clauses were added.
func (wb *WhereBuilder) Build() string {
	if len(wb.clauses) == 0 {
		return "1=1"
	}
	return strings.Join(wb.clauses, " "+wb.op+" ")
}

// BuildWithPrefix returns "prefix (expr)" for appending to an existing
// predicate, or "" when the builder is empty.
func (wb *WhereBuilder) BuildWithPrefix(prefix string) string {
	if wb.IsEmpty() {
		return ""
	}
	return prefix + " (" + wb.Build() + ")"
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

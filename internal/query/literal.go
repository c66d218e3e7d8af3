// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package query

import "strings"

// QuoteLiteral renders s as a single-quoted string literal.
func QuoteLiteral(s string) string {
	return "'" + EscapeLiteral(s) + "'"
}

// EscapeLiteral doubles single quotes so s can sit inside '...'.
func EscapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// QuoteIdent renders s as a double-quoted identifier.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// LiteralList renders values as "('a', 'b')".
func LiteralList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = QuoteLiteral(v)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

// EscapeLike escapes LIKE wildcards in an already quote-escaped value.
// The warehouse uses backslash as the LIKE escape and reads '\\' in a
// literal as one backslash, so each wildcard gets two.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, "%", `\\%`)
	return strings.ReplaceAll(s, "_", `\\_`)
}

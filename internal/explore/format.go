// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package explore

import (
	"strings"
	"unicode"
)

const indentUnit = "  "

// FormatSQL re-indents generated SQL by parenthesis depth. Blank lines are
// dropped and each line is trimmed. Parentheses inside quoted literals and
// identifiers are ignored, and lines that continue a multi-line literal are
// copied verbatim. FormatSQL is idempotent.
func FormatSQL(sql string) string {
	var b strings.Builder
	depth := 0
	var quote byte
	for _, raw := range strings.Split(sql, "\n") {
		if quote != 0 {
			b.WriteByte('\n')
			b.WriteString(raw)
			var opens, closes int
			opens, closes, _, quote = scanLine(raw, quote)
			depth = max(depth+opens-closes, 0)
			continue
		}

		line := strings.TrimLeftFunc(raw, unicode.IsSpace)
		opens, closes, leading, after := scanLine(line, 0)
		if after == 0 {
			line = strings.TrimRightFunc(line, unicode.IsSpace)
		}
		quote = after
		if line == "" {
			continue
		}

		indent := max(depth-leading, 0)
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat(indentUnit, indent))
		b.WriteString(line)

		depth = max(depth+opens-closes, 0)
	}
	return b.String()
}

// parenBalance counts parentheses outside quotes, and how many closing
// parentheses start the line.
func parenBalance(line string) (opens, closes, leading int) {
	opens, closes, leading, _ = scanLine(line, 0)
	return opens, closes, leading
}

// scanLine is parenBalance for a line that starts inside quote (0 for none).
// It also returns the quote still open at the end of the line.
func scanLine(line string, quote byte) (opens, closes, leading int, open byte) {
	counting := quote == 0
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
			counting = false
		case '(':
			opens++
			counting = false
		case ')':
			closes++
			if counting {
				leading++
			}
		case ' ', '\t':
		default:
			counting = false
		}
	}
	return opens, closes, leading, quote
}

// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package explore

import "strings"

// cte is one named intermediate result.
type cte struct {
	name string
	body string
}

// statement assembles named CTEs followed by a single final select.
type statement struct {
	ctes []cte
}

func (s *statement) with(name, body string) *statement {
	s.ctes = append(s.ctes, cte{name: name, body: body})
	return s
}

func (s *statement) withAll(ctes []cte) *statement {
	s.ctes = append(s.ctes, ctes...)
	return s
}

// names returns the CTE names in declaration order.
func (s *statement) names() []string {
	out := make([]string, len(s.ctes))
	for i, c := range s.ctes {
		out[i] = c.name
	}
	return out
}

func (s *statement) build(final string) string {
	var b strings.Builder
	for i, c := range s.ctes {
		if i == 0 {
			b.WriteString("with ")
		}
		b.WriteString(c.name)
		b.WriteString(" as (\n")
		b.WriteString(strings.TrimSpace(c.body))
		b.WriteString("\n)")
		if i < len(s.ctes)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.TrimSpace(final))
	return b.String()
}

// selectList renders one column per line with trailing commas.
func selectList(cols []string) string {
	return strings.Join(cols, ",\n")
}

// unionAll joins select bodies with "union all".
func unionAll(selects []string) string {
	return strings.Join(selects, "\nunion all\n")
}

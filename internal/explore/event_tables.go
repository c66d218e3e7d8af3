// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package explore

import (
	"fmt"

	"github.com/tomtom215/clickstream-explore/internal/models"
	"github.com/tomtom215/clickstream-explore/internal/query"
)

// stepIdentity are the base_data columns every step table carries suffixed.
var stepIdentity = []string{"event_name", "event_timestamp", "event_id", "user_id", "user_pseudo_id"}

// bucketColumns are carried unsuffixed so joins and unions can group on them.
var bucketColumns = []string{"month", "week", "day", "hour"}

type groupingMode int

const (
	// groupFirstStep projects grouping columns unsuffixed on table_0 only.
	groupFirstStep groupingMode = iota
	// groupEveryStep projects grouping columns as col_i on every table.
	groupEveryStep
)

// stepTable describes one table_i derived from base_data.
type stepTable struct {
	index      int
	event      models.EventAndCondition
	grouping   *models.GroupingCondition
	mode       groupingMode
	labelEvent bool     // event_name_i becomes '{i+1}_' || event_name
	carry      []string // extra base_data columns projected as col_i
	id         string   // base_data expression projected as x_id_i, if set
}

func stepTableName(i int) string {
	return fmt.Sprintf("table_%d", i)
}

func suffixed(col string, i int) string {
	return fmt.Sprintf("%s_%d", col, i)
}

// stepLabel is the step-prefixed event name expression.
func stepLabel(i int, column string) string {
	return fmt.Sprintf("'%d_' || %s", i+1, column)
}

func (s stepTable) build() (string, error) {
	cond, err := TranslateSQLCondition(s.event.SQLCondition)
	if err != nil {
		return "", err
	}

	seen := make(map[string]bool)
	var cols []string
	project := func(expr, alias string) {
		if seen[alias] {
			return
		}
		seen[alias] = true
		if expr == alias {
			cols = append(cols, expr)
		} else {
			cols = append(cols, expr+" as "+alias)
		}
	}

	for _, b := range bucketColumns {
		project(b, b)
	}
	for _, g := range s.grouping.Columns() {
		name := g.ColumnName()
		switch {
		case s.mode == groupEveryStep || s.grouping.AppliesToAll():
			project(name+"::varchar", suffixed(name, s.index))
		case s.index == 0:
			project(name+"::varchar", name)
		}
	}
	for _, col := range stepIdentity {
		expr := col
		if col == "event_name" && s.labelEvent {
			expr = stepLabel(s.index, col)
		}
		project(expr, suffixed(col, s.index))
	}
	for _, col := range s.carry {
		project(col, suffixed(col, s.index))
	}
	if s.id != "" {
		project(s.id, suffixed("x_id", s.index))
	}
	if !s.event.SQLCondition.IsEmpty() {
		for _, c := range s.event.SQLCondition.Conditions {
			name := models.ColumnAttribute{Category: c.Category, Property: c.Property}.ColumnName()
			if !basicColumns[name] {
				project(name, suffixed(name, s.index))
			}
		}
	}

	where := query.NewWhereBuilder().AddEquals("event_name", s.event.EventName)
	if cond != "" {
		where.AddClause("(" + cond + ")")
	}
	return fmt.Sprintf("select\n%s\nfrom base_data base\nwhere %s", selectList(cols), where.Build()), nil
}

// bucketDate renders the date bucket column as a date.
func bucketDate(g models.GroupColumn) string {
	switch g {
	case models.GroupColumnWeek:
		return "week::date"
	case models.GroupColumnMonth:
		return "(month || '-01')::date"
	default:
		return "day::date"
	}
}

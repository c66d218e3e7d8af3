// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package explore

import (
	"fmt"
	"strings"

	"github.com/tomtom215/clickstream-explore/internal/models"
	"github.com/tomtom215/clickstream-explore/internal/query"
)

// dateList renders one row per calendar day of the time scope.
func (c *Compiler) dateList(base *models.BaseSQLParameters) (string, error) {
	scope := base.TimeScope()
	var rows []string

	switch scope.Type {
	case models.TimeScopeFixed:
		if scope.Start == nil || scope.End == nil || scope.End.Before(scope.Start.Time) {
			return "", fmt.Errorf("%w: fixed time scope needs timeStart <= timeEnd", ErrInvalidRequest)
		}
		for _, d := range fixedDays(*scope.Start, *scope.End) {
			rows = append(rows, fmt.Sprintf("select '%s'::date as event_date", d))
		}
	case models.TimeScopeRelative:
		days, err := LookbackDays(scope, c.timezone(base), c.clock.Now())
		if err != nil {
			return "", err
		}
		// Local today, so the list starts on the same day as the base_data bound.
		today := fmt.Sprintf("(CURRENT_TIMESTAMP AT TIME ZONE %s)::date", query.QuoteLiteral(c.timezone(base)))
		for k := 0; k <= days; k++ {
			rows = append(rows, fmt.Sprintf("select (%s - INTERVAL '%d day')::date as event_date", today, k))
		}
	default:
		return "", fmt.Errorf("%w: unknown time scope type %q", ErrInvalidRequest, scope.Type)
	}
	return unionAll(rows), nil
}

// retentionSide renders first_table_i or second_table_i.
func retentionSide(e models.EventAndCondition, cohort bool, grouping []models.ColumnAttribute) (string, error) {
	cond, err := TranslateSQLCondition(e.SQLCondition)
	if err != nil {
		return "", err
	}

	cols := []string{"day::date as event_date", "event_name", "user_pseudo_id"}
	seen := map[string]bool{"event_date": true, "event_name": true, "user_pseudo_id": true}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			cols = append(cols, name)
		}
	}
	if e.RetentionJoinColumn != nil {
		add(e.RetentionJoinColumn.ColumnName())
	}
	for _, g := range grouping {
		add(g.ColumnName())
	}

	op := ">="
	if cohort {
		op = "="
	}
	where := query.NewWhereBuilder().AddEquals("event_name", e.EventName)
	if cond != "" {
		where.AddClause("(" + cond + ")")
	}
	return fmt.Sprintf("select\n%s\nfrom base_data\njoin first_date on base_data.day::date %s first_date.first_date\nwhere %s",
		selectList(cols), op, where.Build()), nil
}

// retentionPair joins one cohort to every day of the window and the users
// that came back on that day.
func retentionPair(i int, pair models.PairEventAndCondition, grouping []models.ColumnAttribute) string {
	first, second := suffixed("first_table", i), suffixed("second_table", i)

	var cols []string
	for _, g := range grouping {
		cols = append(cols, fmt.Sprintf("%s.%s", first, g.ColumnName()))
	}
	cols = append(cols,
		query.QuoteLiteral(fmt.Sprintf("%s_%d", pair.StartEvent.EventName, i))+" as grouping",
		first+".event_date as start_event_date",
		first+".user_pseudo_id as start_user_pseudo_id",
		"date_list.event_date as event_date",
		second+".user_pseudo_id as end_user_pseudo_id",
		second+".event_date as end_event_date",
	)

	on := query.NewWhereBuilder().
		AddClausef("date_list.event_date = %s.event_date", second).
		AddClausef("%s.user_pseudo_id = %s.user_pseudo_id", first, second)
	if pair.StartEvent.RetentionJoinColumn != nil && pair.BackEvent.RetentionJoinColumn != nil {
		on.AddClausef("%s.%s = %s.%s", first, pair.StartEvent.RetentionJoinColumn.ColumnName(),
			second, pair.BackEvent.RetentionJoinColumn.ColumnName())
	}
	for _, g := range grouping {
		on.AddClausef("%s.%s = %s.%s", first, g.ColumnName(), second, g.ColumnName())
	}

	return fmt.Sprintf("select\n%s\nfrom %s\njoin date_list on 1=1\nleft join %s on %s",
		selectList(cols), first, second, on.Build())
}

// retentionDate truncates a result date for presentation.
func retentionDate(g models.GroupColumn, column string) string {
	switch g {
	case models.GroupColumnWeek:
		return fmt.Sprintf("(DATE_TRUNC('week', %s) - INTERVAL '1 day')::date", column)
	case models.GroupColumnMonth:
		return fmt.Sprintf("DATE_TRUNC('month', %s)::date", column)
	default:
		return column
	}
}

// Retention renders the share of each cohort that performed the back event
// on every day of the window.
func (c *Compiler) Retention(p *models.SQLParameters) (string, error) {
	if len(p.PairEventAndConditions) == 0 {
		return "", fmt.Errorf("%w: retention needs at least one event pair", ErrInvalidRequest)
	}

	var names []string
	for _, pair := range p.PairEventAndConditions {
		names = append(names, pair.StartEvent.EventName, pair.BackEvent.EventName)
	}
	base, err := c.baseData(&p.BaseSQLParameters, AnalyzeAttributes(p), includeEvents(names), 0)
	if err != nil {
		return "", err
	}
	dates, err := c.dateList(&p.BaseSQLParameters)
	if err != nil {
		return "", err
	}

	stmt := (&statement{}).
		with("base_data", base).
		with("date_list", dates).
		with("first_date", "select\nmin(event_date) as first_date\nfrom date_list")

	grouping := p.GroupCondition.Columns()
	var pairs []string
	for i, pair := range p.PairEventAndConditions {
		first, err := retentionSide(pair.StartEvent, true, grouping)
		if err != nil {
			return "", err
		}
		second, err := retentionSide(pair.BackEvent, false, grouping)
		if err != nil {
			return "", err
		}
		stmt.with(suffixed("first_table", i), first).with(suffixed("second_table", i), second)
		pairs = append(pairs, retentionPair(i, pair, grouping))
	}
	stmt.with("result_table", unionAll(pairs))

	var cols, groupBy []string
	for _, g := range grouping {
		cols = append(cols, g.ColumnName()+"::varchar as "+g.ColumnName())
		groupBy = append(groupBy, g.ColumnName()+"::varchar")
	}
	start := retentionDate(p.GroupColumn, "start_event_date")
	date := retentionDate(p.GroupColumn, "event_date")
	cols = append(cols,
		"grouping",
		start+" as start_event_date",
		date+" as event_date",
		"(count(distinct end_user_pseudo_id)::decimal / NULLIF(count(distinct start_user_pseudo_id), 0))::decimal(20, 4) as retention",
	)
	groupBy = append(groupBy, "grouping", start, date)

	final := fmt.Sprintf("select\n%s\nfrom result_table\ngroup by %s\norder by grouping, start_event_date, event_date",
		selectList(cols), strings.Join(groupBy, ", "))
	return stmt.build(final), nil
}

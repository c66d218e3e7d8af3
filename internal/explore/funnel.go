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

// funnelKey is the column consecutive steps are joined on.
func funnelKey(p *models.SQLParameters) string {
	if p.SpecifyJoinColumn && p.JoinColumn != "" {
		return p.JoinColumn
	}
	return "user_pseudo_id"
}

// funnelBase renders base_data, every table_i and join_table.
func (c *Compiler) funnelBase(p *models.SQLParameters, labelEvents bool) (*statement, error) {
	if len(p.EventAndConditions) == 0 {
		return nil, fmt.Errorf("%w: funnel needs at least one event", ErrInvalidRequest)
	}

	base, err := c.baseData(&p.BaseSQLParameters, AnalyzeAttributes(p), includeEvents(eventNames(p.EventAndConditions)), 0)
	if err != nil {
		return nil, err
	}
	stmt := (&statement{}).with("base_data", base)

	key := funnelKey(p)
	var carry []string
	if !basicColumns[key] {
		carry = append(carry, key)
	}
	for i, e := range p.EventAndConditions {
		body, err := stepTable{
			index:      i,
			event:      e,
			grouping:   p.GroupCondition,
			mode:       groupFirstStep,
			labelEvent: labelEvents,
			carry:      carry,
		}.build()
		if err != nil {
			return nil, err
		}
		stmt.with(stepTableName(i), body)
	}

	stmt.with("join_table", c.funnelJoin(p, key, carry))
	return stmt, nil
}

// funnelJoin left-joins each step to its predecessor in strict forward
// time order within the conversion window.
func (c *Compiler) funnelJoin(p *models.SQLParameters, key string, carry []string) string {
	n := len(p.EventAndConditions)
	tz := query.QuoteLiteral(c.timezone(&p.BaseSQLParameters))
	grouping := p.GroupCondition.Columns()
	all := p.GroupCondition.AppliesToAll()

	cols := []string{"table_0.*"}
	var joins []string
	for i := 1; i < n; i++ {
		cur, prev := stepTableName(i), stepTableName(i-1)
		for _, col := range []string{"event_id", "event_name", "user_pseudo_id", "event_timestamp"} {
			cols = append(cols, fmt.Sprintf("%s.%s", cur, suffixed(col, i)))
		}
		for _, col := range carry {
			cols = append(cols, fmt.Sprintf("%s.%s", cur, suffixed(col, i)))
		}
		if all {
			for _, g := range grouping {
				cols = append(cols, fmt.Sprintf("%s.%s", cur, suffixed(g.ColumnName(), i)))
			}
		}

		on := query.NewWhereBuilder().
			AddClausef("%s.%s = %s.%s", prev, suffixed(key, i-1), cur, suffixed(key, i))
		if all {
			for _, g := range grouping {
				on.AddClausef("%s.%s = %s.%s", prev, suffixed(g.ColumnName(), i-1), cur, suffixed(g.ColumnName(), i))
			}
		}
		on.AddClausef("EXTRACT(epoch FROM %s.%s - %s.%s) > 0",
			cur, suffixed("event_timestamp", i), prev, suffixed("event_timestamp", i-1))
		if p.ConversionIntervalType == models.ConversionCustomize {
			on.AddClausef("EXTRACT(epoch FROM %s.%s - table_0.event_timestamp_0) <= cast(%d as bigint)",
				cur, suffixed("event_timestamp", i), p.ConversionIntervalInSeconds)
		} else {
			on.AddClausef("CONVERT_TIMEZONE(%s, %s.%s)::DATE = CONVERT_TIMEZONE(%s, %s.%s)::DATE",
				tz, prev, suffixed("event_timestamp", i-1), tz, cur, suffixed("event_timestamp", i))
		}
		joins = append(joins, fmt.Sprintf("left outer join %s on %s", cur, on.Build()))
	}

	return fmt.Sprintf("select\n%s\nfrom table_0\n%s", selectList(cols), strings.Join(joins, "\n"))
}

// funnelGrouping returns the final projection and group-by expressions of
// the grouping columns in join_table.
func funnelGrouping(p *models.SQLParameters) (projections, groupBy []string) {
	for _, g := range p.GroupCondition.Columns() {
		name := g.ColumnName()
		if p.GroupCondition.AppliesToAll() {
			projections = append(projections, suffixed(name, 0)+" as "+name)
			groupBy = append(groupBy, suffixed(name, 0))
		} else {
			projections = append(projections, name)
			groupBy = append(groupBy, name)
		}
	}
	return projections, groupBy
}

func conversionRate(numerator, denominator string) string {
	return fmt.Sprintf("(count(distinct %s)::decimal / NULLIF(count(distinct %s), 0))::decimal(20, 4)", numerator, denominator)
}

// FunnelTable renders the funnel as one row per date bucket (and group)
// with per-step counts, stepwise rates and the overall conversion rate.
func (c *Compiler) FunnelTable(p *models.SQLParameters) (string, error) {
	stmt, err := c.funnelBase(p, false)
	if err != nil {
		return "", err
	}

	n := len(p.EventAndConditions)
	id := idColumn(p.ComputeMethod)
	bucket := p.GroupColumn.Column()
	groupCols, groupBy := funnelGrouping(p)

	first := query.QuoteIdent("1_" + p.EventAndConditions[0].EventName)
	cols := append([]string{bucket}, groupCols...)
	cols = append(cols,
		fmt.Sprintf("count(distinct %s) as %s", suffixed(id, 0), first),
		conversionRate(suffixed(id, n-1), suffixed(id, 0))+" as total_conversion_rate",
	)
	for i := 1; i < n; i++ {
		label := fmt.Sprintf("%d_%s", i+1, p.EventAndConditions[i].EventName)
		cols = append(cols,
			fmt.Sprintf("count(distinct %s) as %s", suffixed(id, i), query.QuoteIdent(label)),
			conversionRate(suffixed(id, i), suffixed(id, i-1))+" as "+query.QuoteIdent(label+"_rate"),
		)
	}

	final := fmt.Sprintf("select\n%s\nfrom join_table\ngroup by %s\norder by %s, %s desc",
		selectList(cols),
		strings.Join(append([]string{bucket}, groupBy...), ", "),
		bucket, first)
	return stmt.build(final), nil
}

// FunnelChart renders one row per (date, step, group) with the number of
// distinct ids that reached the step, for funnel and bar visuals.
func (c *Compiler) FunnelChart(p *models.SQLParameters) (string, error) {
	stmt, err := c.funnelBase(p, true)
	if err != nil {
		return "", err
	}

	id := idColumn(p.ComputeMethod)
	date := bucketDate(p.GroupColumn)
	groupCols, _ := funnelGrouping(p)

	var branches []string
	for i := range p.EventAndConditions {
		cols := []string{date + " as event_date", suffixed("event_name", i) + " as event_name"}
		cols = append(cols, groupCols...)
		cols = append(cols, suffixed(id, i)+" as x_id")
		branch := fmt.Sprintf("select\n%s\nfrom join_table", selectList(cols))
		if i > 0 {
			branch += fmt.Sprintf("\nwhere %s is not null", suffixed(id, i))
		}
		branches = append(branches, branch)
	}
	stmt.with("final_table", unionAll(branches))

	names := []string{"event_date", "event_name"}
	for _, g := range p.GroupCondition.Columns() {
		names = append(names, g.ColumnName())
	}
	cols := append(append([]string{}, names...), `count(distinct x_id) as "Count"`)
	final := fmt.Sprintf("select\n%s\nfrom final_table\nwhere event_name is not null\ngroup by %s\norder by event_date, event_name",
		selectList(cols), strings.Join(names, ", "))
	return stmt.build(final), nil
}

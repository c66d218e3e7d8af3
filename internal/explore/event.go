// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package explore

import (
	"fmt"
	"strings"

	"github.com/tomtom215/clickstream-explore/internal/models"
)

// eventAmountColumn is the measure column of event analysis output.
const eventAmountColumn = `"count/aggregation amount"`

// eventMethod resolves a step's compute method against the request default.
func eventMethod(p *models.SQLParameters, e models.EventAndCondition) models.ComputeMethod {
	if e.ComputeMethod != "" {
		return e.ComputeMethod
	}
	return p.ComputeMethod
}

// eventMeasure returns the base_data column a step measures and the
// aggregate applied to it.
func eventMeasure(method models.ComputeMethod, e models.EventAndCondition) (column string, aggregate func(string) string, err error) {
	distinct := func(col string) string { return "count(distinct " + col + ")" }

	switch method {
	case models.ComputeEventCount:
		return "event_id", distinct, nil
	case models.ComputeUserIDCount:
		return "user_pseudo_id", distinct, nil
	}

	if e.EventExtParameter == nil || e.EventExtParameter.TargetProperty.Property == "" {
		return "", nil, fmt.Errorf("%w: %s on %q needs a target property", ErrInvalidRequest, method, e.EventName)
	}
	column = e.EventExtParameter.TargetProperty.ColumnName()

	switch method {
	case models.ComputeCountProperty:
		return column, distinct, nil
	case models.ComputeSumValue:
		return column, func(col string) string { return "sum(" + col + ")" }, nil
	case models.ComputeAggregationProperty:
		return column, propertyAggregate(e.EventExtParameter.AggregationMethod), nil
	default:
		return "", nil, fmt.Errorf("%w: unknown compute method %q", ErrInvalidRequest, method)
	}
}

func propertyAggregate(m models.AggregationMethod) func(string) string {
	switch m {
	case models.AggregationMin, models.AggregationMax, models.AggregationAvg:
		return func(col string) string { return fmt.Sprintf("%s(%s)", m, col) }
	case models.AggregationMedian:
		return func(col string) string { return "percentile_cont(0.5) within group (order by " + col + ")" }
	default:
		return func(col string) string { return "sum(" + col + ")" }
	}
}

// Event renders per-event counts or property aggregates, one row per
// (date, step-prefixed event name, group).
func (c *Compiler) Event(p *models.SQLParameters) (string, error) {
	if len(p.EventAndConditions) == 0 {
		return "", fmt.Errorf("%w: event analysis needs at least one event", ErrInvalidRequest)
	}

	base, err := c.baseData(&p.BaseSQLParameters, AnalyzeAttributes(p), includeEvents(eventNames(p.EventAndConditions)), 0)
	if err != nil {
		return "", err
	}
	stmt := (&statement{}).with("base_data", base)

	date := bucketDate(p.GroupColumn)
	grouping := p.GroupCondition.Columns()
	var branches []string

	for i, e := range p.EventAndConditions {
		measure, aggregate, err := eventMeasure(eventMethod(p, e), e)
		if err != nil {
			return "", err
		}
		body, err := stepTable{
			index:    i,
			event:    e,
			grouping: p.GroupCondition,
			mode:     groupEveryStep,
			id:       measure,
		}.build()
		if err != nil {
			return "", err
		}
		stmt.with(stepTableName(i), body)

		cols := []string{date + " as event_date", stepLabel(i, suffixed("event_name", i)) + " as event_name"}
		groupBy := []string{date, suffixed("event_name", i)}
		for _, g := range grouping {
			cols = append(cols, suffixed(g.ColumnName(), i)+" as "+g.ColumnName())
			groupBy = append(groupBy, suffixed(g.ColumnName(), i))
		}
		cols = append(cols, aggregate(suffixed("x_id", i))+"::double precision as "+eventAmountColumn)
		branches = append(branches, fmt.Sprintf("select\n%s\nfrom %s\ngroup by %s",
			selectList(cols), stepTableName(i), strings.Join(groupBy, ", ")))
	}
	stmt.with("event_table", unionAll(branches))

	names := []string{"event_date", "event_name"}
	for _, g := range grouping {
		names = append(names, g.ColumnName())
	}
	final := fmt.Sprintf("select\n%s\nfrom event_table\norder by %s",
		selectList(append(append([]string{}, names...), eventAmountColumn)), strings.Join(names, ", "))
	return stmt.build(final), nil
}

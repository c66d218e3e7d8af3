// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package explore

import (
	"fmt"

	"github.com/tomtom215/clickstream-explore/internal/models"
)

// basicColumns are always projected by base_data and never analyzed.
var basicColumns = map[string]bool{
	"event_id":        true,
	"event_name":      true,
	"event_timestamp": true,
	"user_id":         true,
	"user_pseudo_id":  true,
}

// sessionIDAttribute is required whenever walks or credit windows are session scoped.
var sessionIDAttribute = models.ColumnAttribute{
	Category: models.CategoryEventOuter,
	Property: "session_id",
	DataType: models.DataTypeString,
}

// AttributeUsage is the set of flattened columns base_data must project.
type AttributeUsage struct {
	Nested []models.ColumnAttribute
	Outer  []models.ColumnAttribute
}

// Columns returns outer attributes followed by nested ones, in projection order.
func (u AttributeUsage) Columns() []models.ColumnAttribute {
	out := make([]models.ColumnAttribute, 0, len(u.Outer)+len(u.Nested))
	out = append(out, u.Outer...)
	return append(out, u.Nested...)
}

// attributeSources lists everything in a request that can reference a column.
type attributeSources struct {
	events        []models.EventAndCondition
	conditions    []*models.SQLCondition
	global        *models.SQLCondition
	grouping      *models.GroupingCondition
	pairs         []models.PairEventAndCondition
	extra         []models.ColumnAttribute
	sessionScoped bool
}

type usageCollector struct {
	usage AttributeUsage
	seen  map[string]bool
}

// add records attr once per base_data column name.
func (c *usageCollector) add(attr models.ColumnAttribute) {
	name := attr.ColumnName()
	if attr.Property == "" || basicColumns[name] || c.seen[name] {
		return
	}
	c.seen[name] = true
	if attr.Category.IsNested() {
		c.usage.Nested = append(c.usage.Nested, attr)
	} else {
		c.usage.Outer = append(c.usage.Outer, attr)
	}
}

func (c *usageCollector) addCondition(sc *models.SQLCondition) {
	if sc.IsEmpty() {
		return
	}
	for _, cond := range sc.Conditions {
		c.add(models.ColumnAttribute{Category: cond.Category, Property: cond.Property, DataType: cond.DataType})
	}
}

func (c *usageCollector) addEvent(e models.EventAndCondition) {
	c.addCondition(e.SQLCondition)
	if e.EventExtParameter != nil {
		c.add(e.EventExtParameter.TargetProperty)
	}
	if e.RetentionJoinColumn != nil {
		c.add(*e.RetentionJoinColumn)
	}
}

func collectAttributes(src attributeSources) AttributeUsage {
	c := &usageCollector{seen: make(map[string]bool)}

	for _, e := range src.events {
		c.addEvent(e)
	}
	for _, sc := range src.conditions {
		c.addCondition(sc)
	}
	c.addCondition(src.global)
	for _, g := range src.grouping.Columns() {
		c.add(g)
	}
	for _, p := range src.pairs {
		c.addEvent(p.StartEvent)
		c.addEvent(p.BackEvent)
	}
	for _, x := range src.extra {
		c.add(x)
	}
	if src.sessionScoped {
		c.add(sessionIDAttribute)
	}
	return c.usage
}

// AnalyzeAttributes walks a funnel, event, path or retention request and
// returns the columns base_data must materialize.
func AnalyzeAttributes(p *models.SQLParameters) AttributeUsage {
	return collectAttributes(sqlParameterSources(p))
}

func sqlParameterSources(p *models.SQLParameters) attributeSources {
	src := attributeSources{
		events:        p.EventAndConditions,
		global:        p.GlobalEventCondition,
		grouping:      p.GroupCondition,
		pairs:         p.PairEventAndConditions,
		sessionScoped: p.PathAnalysis.IsSessionScoped(),
	}
	if col, ok := joinColumnAttribute(p); ok {
		src.extra = append(src.extra, col)
	}
	if node, ok := p.PathAnalysis.PropertyNode(); ok {
		src.extra = append(src.extra, nodeAttribute(node))
	}
	return src
}

// analyzeAttributionAttributes is AnalyzeAttributes for attribution requests.
func analyzeAttributionAttributes(p *models.AttributionSQLParameters) AttributeUsage {
	src := attributeSources{
		events:        []models.EventAndCondition{p.TargetEventAndCondition},
		global:        p.GlobalEventCondition,
		grouping:      p.GroupCondition,
		sessionScoped: p.TimeWindowType == models.AttributionWindowSession,
	}
	for _, tp := range p.EventAndConditions {
		src.conditions = append(src.conditions, tp.SQLCondition)
		if tp.GroupColumn != nil {
			src.extra = append(src.extra, *tp.GroupColumn)
		}
	}
	return collectAttributes(src)
}

// joinColumnAttribute returns the funnel join column as an outer attribute
// when it is not already one of the basic columns.
func joinColumnAttribute(p *models.SQLParameters) (models.ColumnAttribute, bool) {
	if !p.SpecifyJoinColumn || p.JoinColumn == "" || basicColumns[p.JoinColumn] {
		return models.ColumnAttribute{}, false
	}
	return models.ColumnAttribute{
		Category: models.CategoryEventOuter,
		Property: p.JoinColumn,
		DataType: models.DataTypeString,
	}, true
}

func nodeAttribute(node models.PropertyNode) models.ColumnAttribute {
	return models.ColumnAttribute{
		Category: models.CategoryEventOuter,
		Property: string(node.Property),
		DataType: models.DataTypeString,
	}
}

// sqlColumnType maps a declared data type to its warehouse cast type.
// Outer booleans stay varchar because the view stores them as strings.
func sqlColumnType(attr models.ColumnAttribute) string {
	switch {
	case attr.DataType == models.DataTypeInteger:
		return "bigint"
	case attr.DataType.IsNumeric():
		return "double precision"
	case attr.DataType == models.DataTypeBoolean && attr.Category.IsNested():
		return "boolean"
	default:
		return "varchar"
	}
}

// sourceExpr is the expression that reads attr from the event view.
func sourceExpr(attr models.ColumnAttribute) string {
	if attr.Category.IsNested() {
		return fmt.Sprintf("event.%s.%s.value::%s", attr.Category.Container(), attr.Property, sqlColumnType(attr))
	}
	return "event." + attr.Property
}

// projectionExpr is the base_data select-list entry for attr.
func projectionExpr(attr models.ColumnAttribute) string {
	if attr.Category.IsNested() {
		return sourceExpr(attr) + " as " + attr.ColumnName()
	}
	return sourceExpr(attr)
}

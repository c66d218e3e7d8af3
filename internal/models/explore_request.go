// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package models

// Condition is a single filter on one property.
type Condition struct {
	Category Category        `json:"category" validate:"required,oneof=user user_outer event event_outer"`
	Property string          `json:"property" validate:"required,sqlident"`
	Operator Operator        `json:"operator" validate:"required,oneof=is_null is_not_null = <> > >= < <= in not_in contains not_contains true false"`
	Value    ConditionValues `json:"value"`
	DataType DataType        `json:"dataType" validate:"required,oneof=string int double float number boolean"`
}

// SQLCondition is an ordered list of conditions joined by one logical operator.
type SQLCondition struct {
	Conditions        []Condition     `json:"conditions" validate:"dive"`
	ConditionOperator LogicalOperator `json:"conditionOperator,omitempty" validate:"omitempty,oneof=and or"`
}

// Operator returns the combining operator, defaulting to AND.
func (s *SQLCondition) Operator() LogicalOperator {
	if s == nil || s.ConditionOperator == "" {
		return LogicalAnd
	}
	return s.ConditionOperator
}

// IsEmpty reports whether there is nothing to filter on.
func (s *SQLCondition) IsEmpty() bool {
	return s == nil || len(s.Conditions) == 0
}

// ColumnAttribute references one flattened column of base_data.
type ColumnAttribute struct {
	Category Category `json:"category" validate:"required,oneof=user user_outer event event_outer"`
	Property string   `json:"property" validate:"required,sqlident"`
	DataType DataType `json:"dataType" validate:"required,oneof=string int double float number boolean"`
}

// ColumnName returns the alias the attribute has in base_data.
func (c ColumnAttribute) ColumnName() string {
	return c.Category.Prefix() + c.Property
}

// EventExtParameter names the property an event aggregates over.
type EventExtParameter struct {
	TargetProperty    ColumnAttribute   `json:"targetProperty"`
	AggregationMethod AggregationMethod `json:"aggregationMethod,omitempty" validate:"omitempty,oneof=min max sum avg median"`
}

// EventAndCondition is one requested event with its own filter.
type EventAndCondition struct {
	EventName           string             `json:"eventName" validate:"required,max=255"`
	SQLCondition        *SQLCondition      `json:"sqlCondition,omitempty"`
	RetentionJoinColumn *ColumnAttribute   `json:"retentionJoinColumn,omitempty"`
	ComputeMethod       ComputeMethod      `json:"computeMethod,omitempty" validate:"omitempty,oneof=USER_ID_CNT EVENT_CNT SUM_VALUE COUNT_PROPERTY AGGREGATION_PROPERTY"`
	EventExtParameter   *EventExtParameter `json:"eventExtParameter,omitempty"`
}

// GroupingCondition breaks a result down by one or more attributes.
type GroupingCondition struct {
	ApplyTo    GroupApplyTo      `json:"applyTo,omitempty" validate:"omitempty,oneof=FIRST ALL"`
	Conditions []ColumnAttribute `json:"conditions" validate:"dive"`
}

// IsValid reports whether the grouping has at least one attribute and every
// attribute names a property. Invalid groupings are treated as no grouping.
func (g *GroupingCondition) IsValid() bool {
	if g == nil || len(g.Conditions) == 0 {
		return false
	}
	for _, c := range g.Conditions {
		if c.Property == "" {
			return false
		}
	}
	return true
}

// Columns returns the grouping attributes, or nil when the grouping is invalid.
func (g *GroupingCondition) Columns() []ColumnAttribute {
	if !g.IsValid() {
		return nil
	}
	return g.Conditions
}

// AppliesToAll reports whether every step carries the grouping columns.
func (g *GroupingCondition) AppliesToAll() bool {
	return g.IsValid() && g.ApplyTo == GroupApplyAll
}

// PairEventAndCondition is a retention (start, back) pair.
type PairEventAndCondition struct {
	StartEvent EventAndCondition `json:"startEvent"`
	BackEvent  EventAndCondition `json:"backEvent"`
}

// TimeScope is either FIXED (Start, End) or RELATIVE (LastN, Unit).
type TimeScope struct {
	Type  TimeScopeType
	Start *Date
	End   *Date
	LastN int
	Unit  RelativeTimeUnit
}

// BaseSQLParameters holds the fields shared by every analysis family.
type BaseSQLParameters struct {
	DBName               string             `json:"dbName" validate:"required,sqlident"`
	SchemaName           string             `json:"schemaName" validate:"required,sqlident"`
	ComputeMethod        ComputeMethod      `json:"computeMethod" validate:"required,oneof=USER_ID_CNT EVENT_CNT SUM_VALUE COUNT_PROPERTY AGGREGATION_PROPERTY"`
	GlobalEventCondition *SQLCondition      `json:"globalEventCondition,omitempty"`
	TimeScopeType        TimeScopeType      `json:"timeScopeType" validate:"required,oneof=FIXED RELATIVE"`
	TimeStart            *Date              `json:"timeStart,omitempty"`
	TimeEnd              *Date              `json:"timeEnd,omitempty"`
	LastN                int                `json:"lastN,omitempty" validate:"gte=0"`
	TimeUnit             RelativeTimeUnit   `json:"timeUnit,omitempty" validate:"omitempty,oneof=DD WK MM YY"`
	GroupColumn          GroupColumn        `json:"groupColumn,omitempty" validate:"omitempty,oneof=DAY WEEK MONTH"`
	Locale               string             `json:"locale,omitempty"`
	GroupCondition       *GroupingCondition `json:"groupCondition,omitempty"`
	Timezone             string             `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

// TimeScope returns the time window fields as one value.
func (b *BaseSQLParameters) TimeScope() TimeScope {
	return TimeScope{
		Type:  b.TimeScopeType,
		Start: b.TimeStart,
		End:   b.TimeEnd,
		LastN: b.LastN,
		Unit:  b.TimeUnit,
	}
}

// SQLParameters is the request root for funnel, event, path and retention.
type SQLParameters struct {
	BaseSQLParameters

	// Funnel
	SpecifyJoinColumn           bool                   `json:"specifyJoinColumn"`
	JoinColumn                  string                 `json:"joinColumn,omitempty" validate:"omitempty,sqlident"`
	ConversionIntervalType      ConversionIntervalType `json:"conversionIntervalType,omitempty" validate:"omitempty,oneof=CURRENT_DAY CUSTOMIZE"`
	ConversionIntervalInSeconds int64                  `json:"conversionIntervalInSeconds,omitempty" validate:"gte=0"`

	// Funnel, event and path
	EventAndConditions []EventAndCondition `json:"eventAndConditions,omitempty" validate:"dive"`

	// Path
	MaxStep      int                    `json:"maxStep,omitempty" validate:"gte=0,lte=100"`
	PathAnalysis *PathAnalysisParameter `json:"pathAnalysis,omitempty"`

	// Retention
	PairEventAndConditions []PairEventAndCondition `json:"pairEventAndConditions,omitempty" validate:"dive"`
}

// AttributionTouchPoint is an event that may receive credit for a target event.
type AttributionTouchPoint struct {
	EventName    string           `json:"eventName" validate:"required,max=255"`
	SQLCondition *SQLCondition    `json:"sqlCondition,omitempty"`
	GroupColumn  *ColumnAttribute `json:"groupColumn,omitempty"`
}

// AttributionSQLParameters is the request root for attribution analysis.
type AttributionSQLParameters struct {
	BaseSQLParameters

	TargetEventAndCondition EventAndCondition       `json:"targetEventAndCondition"`
	EventAndConditions      []AttributionTouchPoint `json:"eventAndConditions" validate:"dive"`
	ModelType               AttributionModelType    `json:"modelType" validate:"required,oneof=LAST_TOUCH FIRST_TOUCH LINEAR TIME_DECAY POSITION"`
	ModelWeights            []float64               `json:"modelWeights,omitempty" validate:"omitempty,dive,gte=0,lte=1"`
	TimeWindowType          AttributionWindowType   `json:"timeWindowType" validate:"required,oneof=CURRENT_DAY CUSTOMIZE SESSION"`
	TimeWindowInSeconds     int64                   `json:"timeWindowInSeconds,omitempty" validate:"gte=0"`
}

// ExploreRequest is the envelope accepted by the compile endpoint and CLI.
type ExploreRequest struct {
	ChartType  ChartType     `json:"chartType" validate:"required,oneof=bar line funnel sankey table"`
	Parameters SQLParameters `json:"parameters"`
}

// AttributionRequest is the envelope for attribution compiles.
type AttributionRequest struct {
	ChartType  ChartType                `json:"chartType" validate:"required,oneof=bar line funnel sankey table"`
	Parameters AttributionSQLParameters `json:"parameters"`
}

// CompiledSQL is the compile endpoint's response payload.
type CompiledSQL struct {
	Analysis    AnalysisType `json:"analysis"`
	ChartType   ChartType    `json:"chartType"`
	SQL         string       `json:"sql"`
	Fingerprint string       `json:"fingerprint"`
}

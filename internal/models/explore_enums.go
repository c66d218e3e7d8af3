// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package models

// Category identifies where a property lives in the event view.
// USER and EVENT properties are nested maps that must be extracted and cast;
// the OUTER variants are plain columns on the view.
type Category string

const (
	CategoryUser       Category = "user"
	CategoryUserOuter  Category = "user_outer"
	CategoryEvent      Category = "event"
	CategoryEventOuter Category = "event_outer"
)

// Prefix returns the column alias prefix for the category.
func (c Category) Prefix() string {
	switch c {
	case CategoryUser:
		return "u_"
	case CategoryEvent:
		return "e_"
	default:
		return ""
	}
}

// IsNested reports whether values of this category are stored inside a
// property container rather than as a top-level column.
func (c Category) IsNested() bool {
	return c == CategoryUser || c == CategoryEvent
}

// Container returns the nested container column name, or "" for outer categories.
func (c Category) Container() string {
	switch c {
	case CategoryUser:
		return "user_properties"
	case CategoryEvent:
		return "custom_parameters"
	default:
		return ""
	}
}

// DataType is the declared value type of a property.
type DataType string

const (
	DataTypeString  DataType = "string"
	DataTypeInteger DataType = "int"
	DataTypeDouble  DataType = "double"
	DataTypeFloat   DataType = "float"
	DataTypeNumber  DataType = "number"
	DataTypeBoolean DataType = "boolean"
)

// IsNumeric reports whether the type belongs to the number family.
func (d DataType) IsNumeric() bool {
	switch d {
	case DataTypeInteger, DataTypeDouble, DataTypeFloat, DataTypeNumber:
		return true
	}
	return false
}

// Operator is a condition comparison operator. Values match the wire format.
type Operator string

const (
	OperatorNull               Operator = "is_null"
	OperatorNotNull            Operator = "is_not_null"
	OperatorEqual              Operator = "="
	OperatorNotEqual           Operator = "<>"
	OperatorGreaterThan        Operator = ">"
	OperatorGreaterThanOrEqual Operator = ">="
	OperatorLessThan           Operator = "<"
	OperatorLessThanOrEqual    Operator = "<="
	OperatorIn                 Operator = "in"
	OperatorNotIn              Operator = "not_in"
	OperatorContains           Operator = "contains"
	OperatorNotContains        Operator = "not_contains"
	OperatorTrue               Operator = "true"
	OperatorFalse              Operator = "false"
)

// TakesValue reports whether the operator reads Condition.Value.
func (o Operator) TakesValue() bool {
	switch o {
	case OperatorNull, OperatorNotNull, OperatorTrue, OperatorFalse:
		return false
	}
	return true
}

// LogicalOperator combines the conditions of an SQLCondition.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "and"
	LogicalOr  LogicalOperator = "or"
)

// ComputeMethod is the statistic basis for counting.
type ComputeMethod string

const (
	ComputeUserIDCount         ComputeMethod = "USER_ID_CNT"
	ComputeEventCount          ComputeMethod = "EVENT_CNT"
	ComputeSumValue            ComputeMethod = "SUM_VALUE"
	ComputeCountProperty       ComputeMethod = "COUNT_PROPERTY"
	ComputeAggregationProperty ComputeMethod = "AGGREGATION_PROPERTY"
)

// AggregationMethod is applied to an extended target attribute.
type AggregationMethod string

const (
	AggregationMin    AggregationMethod = "min"
	AggregationMax    AggregationMethod = "max"
	AggregationSum    AggregationMethod = "sum"
	AggregationAvg    AggregationMethod = "avg"
	AggregationMedian AggregationMethod = "median"
)

// ConversionIntervalType bounds how far apart funnel steps may be.
type ConversionIntervalType string

const (
	ConversionCurrentDay ConversionIntervalType = "CURRENT_DAY"
	ConversionCustomize  ConversionIntervalType = "CUSTOMIZE"
)

// TimeScopeType selects between an absolute and a rolling time window.
type TimeScopeType string

const (
	TimeScopeFixed    TimeScopeType = "FIXED"
	TimeScopeRelative TimeScopeType = "RELATIVE"
)

// RelativeTimeUnit is the unit of a RELATIVE time scope.
type RelativeTimeUnit string

const (
	TimeUnitDay   RelativeTimeUnit = "DD"
	TimeUnitWeek  RelativeTimeUnit = "WK"
	TimeUnitMonth RelativeTimeUnit = "MM"
	TimeUnitYear  RelativeTimeUnit = "YY"
)

// GroupColumn is the date bucket granularity of a result.
type GroupColumn string

const (
	GroupColumnDay   GroupColumn = "DAY"
	GroupColumnWeek  GroupColumn = "WEEK"
	GroupColumnMonth GroupColumn = "MONTH"
)

// Column returns the base_data date bucket column for the granularity.
// Unknown values fall back to the day bucket.
func (g GroupColumn) Column() string {
	switch g {
	case GroupColumnWeek:
		return "week"
	case GroupColumnMonth:
		return "month"
	default:
		return "day"
	}
}

// GroupApplyTo scopes a grouping condition to the first step or every step.
type GroupApplyTo string

const (
	GroupApplyFirst GroupApplyTo = "FIRST"
	GroupApplyAll   GroupApplyTo = "ALL"
)

// PathSessionType selects how path walks are segmented.
type PathSessionType string

const (
	PathSessionBySession PathSessionType = "SESSION"
	PathSessionCustomize PathSessionType = "CUSTOMIZE"
)

// PathNodeType is the outer view column a node path reads its step identity from.
type PathNodeType string

const (
	PathNodeEvent      PathNodeType = "event"
	PathNodePageTitle  PathNodeType = "page_view_page_title"
	PathNodePageURL    PathNodeType = "page_view_page_url"
	PathNodeScreenName PathNodeType = "screen_view_screen_name"
	PathNodeScreenID   PathNodeType = "screen_view_screen_id"
)

// ChartType is the visual the compiled dataset feeds.
type ChartType string

const (
	ChartBar    ChartType = "bar"
	ChartLine   ChartType = "line"
	ChartFunnel ChartType = "funnel"
	ChartSankey ChartType = "sankey"
	ChartTable  ChartType = "table"
)

// AnalysisType names an analysis family.
type AnalysisType string

const (
	AnalysisFunnel      AnalysisType = "funnel"
	AnalysisEvent       AnalysisType = "event"
	AnalysisPath        AnalysisType = "path"
	AnalysisRetention   AnalysisType = "retention"
	AnalysisAttribution AnalysisType = "attribution"
)

// AllAnalysisTypes returns every analysis family in routing order.
func AllAnalysisTypes() []AnalysisType {
	return []AnalysisType{
		AnalysisFunnel,
		AnalysisEvent,
		AnalysisPath,
		AnalysisRetention,
		AnalysisAttribution,
	}
}

// AttributionModelType selects how credit is split across touch points.
type AttributionModelType string

const (
	AttributionLastTouch  AttributionModelType = "LAST_TOUCH"
	AttributionFirstTouch AttributionModelType = "FIRST_TOUCH"
	AttributionLinear     AttributionModelType = "LINEAR"
	AttributionTimeDecay  AttributionModelType = "TIME_DECAY"
	AttributionPosition   AttributionModelType = "POSITION"
)

// AttributionWindowType bounds which touch points may receive credit.
type AttributionWindowType string

const (
	AttributionWindowCurrentDay AttributionWindowType = "CURRENT_DAY"
	AttributionWindowCustomize  AttributionWindowType = "CUSTOMIZE"
	AttributionWindowSession    AttributionWindowType = "SESSION"
)

// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package validation

import (
	"fmt"

	"github.com/tomtom215/clickstream-explore/internal/explore"
	"github.com/tomtom215/clickstream-explore/internal/models"
)

// maxRangeYears bounds time scopes and attribution windows.
const maxRangeYears = 10

const maxWindowSeconds = maxRangeYears * 366 * 24 * 3600

// relativeUnitLimits is the largest lastN per unit inside maxRangeYears.
var relativeUnitLimits = map[models.RelativeTimeUnit]int{
	models.TimeUnitDay:   maxRangeYears * 366,
	models.TimeUnitWeek:  maxRangeYears * 53,
	models.TimeUnitMonth: maxRangeYears * 12,
	models.TimeUnitYear:  maxRangeYears,
}

// ruleSet accumulates cross-field violations.
type ruleSet struct {
	errors []ValidationError
}

func (r *ruleSet) fail(field, tag, format string, args ...interface{}) {
	r.errors = append(r.errors, ValidationError{
		field:   field,
		tag:     tag,
		message: fmt.Sprintf(format, args...),
	})
}

func (r *ruleSet) merge(verr *RequestValidationError) {
	if verr != nil {
		r.errors = append(r.errors, verr.errors...)
	}
}

func (r *ruleSet) result() *RequestValidationError {
	if len(r.errors) == 0 {
		return nil
	}
	return &RequestValidationError{errors: r.errors}
}

// ValidateExplore checks a funnel, event, path or retention request. It
// returns nil when the request can be compiled.
func ValidateExplore(analysis models.AnalysisType, req *models.ExploreRequest) *RequestValidationError {
	r := &ruleSet{}
	if req == nil {
		r.fail("parameters", "required", "request body is required")
		return r.result()
	}
	r.merge(ValidateStruct(req))

	p := &req.Parameters
	r.chart(analysis, req.ChartType)
	r.base(&p.BaseSQLParameters)
	for i, e := range p.EventAndConditions {
		r.conditions(fmt.Sprintf("eventAndConditions[%d].sqlCondition", i), e.SQLCondition)
	}

	switch analysis {
	case models.AnalysisFunnel:
		r.funnel(req)
	case models.AnalysisEvent:
		r.event(p)
	case models.AnalysisPath:
		r.path(p)
	case models.AnalysisRetention:
		r.retention(p)
	default:
		r.fail("analysis", "oneof", "analysis %q does not take explore parameters", analysis)
	}
	return r.result()
}

// ValidateAttribution checks an attribution request.
func ValidateAttribution(req *models.AttributionRequest) *RequestValidationError {
	r := &ruleSet{}
	if req == nil {
		r.fail("parameters", "required", "request body is required")
		return r.result()
	}
	r.merge(ValidateStruct(req))

	p := &req.Parameters
	r.chart(models.AnalysisAttribution, req.ChartType)
	r.base(&p.BaseSQLParameters)
	r.attribution(p)
	return r.result()
}

func (r *ruleSet) chart(analysis models.AnalysisType, chart models.ChartType) {
	if chart != "" && !explore.SupportsChart(analysis, chart) {
		r.fail("chartType", "oneof", "%s analysis does not support the %s chart", analysis, chart)
	}
}

// base checks the fields every family shares.
func (r *ruleSet) base(b *models.BaseSQLParameters) {
	switch b.TimeScopeType {
	case models.TimeScopeFixed:
		if b.LastN != 0 || b.TimeUnit != "" {
			r.fail("lastN", "excluded_with", "fixed time scope must not set lastN or timeUnit")
		}
		if b.TimeStart == nil || b.TimeEnd == nil {
			r.fail("timeStart", "required", "fixed time scope requires timeStart and timeEnd")
			break
		}
		if b.TimeEnd.Before(b.TimeStart.Time) {
			r.fail("timeEnd", "gtefield", "timeEnd must not be before timeStart")
		}
		if b.TimeEnd.After(b.TimeStart.AddDate(maxRangeYears, 0, 0)) {
			r.fail("timeEnd", "max", "time range must not exceed %d years", maxRangeYears)
		}
	case models.TimeScopeRelative:
		if b.TimeStart != nil || b.TimeEnd != nil {
			r.fail("timeStart", "excluded_with", "relative time scope must not set timeStart or timeEnd")
		}
		limit, ok := relativeUnitLimits[b.TimeUnit]
		if !ok {
			r.fail("timeUnit", "required", "relative time scope requires timeUnit DD, WK, MM or YY")
		}
		if b.LastN < 1 {
			r.fail("lastN", "min", "relative time scope requires lastN of at least 1")
		} else if ok && b.LastN > limit {
			r.fail("lastN", "max", "time range must not exceed %d years", maxRangeYears)
		}
	}

	r.conditions("globalEventCondition", b.GlobalEventCondition)
	if g := b.GroupCondition; g != nil && len(g.Conditions) > 0 && !g.IsValid() {
		r.fail("groupCondition", "required", "every grouping condition must name a property")
	}
}

// conditions rejects value-bearing operators without a value.
func (r *ruleSet) conditions(field string, sc *models.SQLCondition) {
	if sc.IsEmpty() {
		return
	}
	for i, c := range sc.Conditions {
		if c.Operator.TakesValue() && len(c.Value) == 0 {
			r.fail(fmt.Sprintf("%s.conditions[%d].value", field, i), "required",
				"operator %q on %s requires a value", c.Operator, c.Property)
		}
	}
}

func (r *ruleSet) funnel(req *models.ExploreRequest) {
	p := &req.Parameters
	if len(p.EventAndConditions) < 2 {
		r.fail("eventAndConditions", "min", "funnel analysis requires at least 2 events")
	}
	if req.ChartType == models.ChartFunnel && p.GroupCondition.IsValid() {
		r.fail("groupCondition", "excluded_with", "funnel chart does not support grouping")
	}
	if p.SpecifyJoinColumn && p.JoinColumn == "" {
		r.fail("joinColumn", "required_if", "joinColumn is required when specifyJoinColumn is set")
	}
	if p.ConversionIntervalType == models.ConversionCustomize && p.ConversionIntervalInSeconds <= 0 {
		r.fail("conversionIntervalInSeconds", "gt", "custom conversion interval must be greater than 0 seconds")
	}
}

func (r *ruleSet) event(p *models.SQLParameters) {
	if len(p.EventAndConditions) < 1 {
		r.fail("eventAndConditions", "min", "event analysis requires at least 1 event")
	}
	for i, e := range p.EventAndConditions {
		method := e.ComputeMethod
		if method == "" {
			method = p.ComputeMethod
		}
		field := fmt.Sprintf("eventAndConditions[%d].eventExtParameter", i)
		switch method {
		case models.ComputeCountProperty, models.ComputeAggregationProperty, models.ComputeSumValue:
			if e.EventExtParameter == nil || e.EventExtParameter.TargetProperty.Property == "" {
				r.fail(field, "required", "%s on %q requires a target property", method, e.EventName)
				continue
			}
			if method == models.ComputeAggregationProperty && e.EventExtParameter.AggregationMethod == "" {
				r.fail(field+".aggregationMethod", "required", "%s on %q requires an aggregation method", method, e.EventName)
			}
		}
	}
}

func (r *ruleSet) path(p *models.SQLParameters) {
	pa := p.PathAnalysis
	if pa == nil {
		r.fail("pathAnalysis", "required", "path analysis requires pathAnalysis")
		return
	}
	if p.GroupCondition.IsValid() {
		r.fail("groupCondition", "excluded_with", "path analysis does not support grouping")
	}
	if pa.SessionType == models.PathSessionCustomize && pa.LagSeconds <= 0 {
		r.fail("pathAnalysis.lagSeconds", "gt", "custom path sessions require lagSeconds greater than 0")
	}
	if node, ok := pa.PropertyNode(); ok {
		if len(node.Nodes) == 0 {
			r.fail("pathAnalysis.nodes", "required", "node path analysis requires at least 1 node")
		}
		if node.Platform == "" {
			r.fail("pathAnalysis.platform", "required", "node path analysis requires a platform")
		}
		return
	}
	if len(p.EventAndConditions) < 1 {
		r.fail("eventAndConditions", "min", "path analysis requires at least 1 event")
	}
}

func (r *ruleSet) retention(p *models.SQLParameters) {
	if len(p.PairEventAndConditions) < 1 {
		r.fail("pairEventAndConditions", "min", "retention analysis requires at least 1 event pair")
	}
	for i, pair := range p.PairEventAndConditions {
		field := fmt.Sprintf("pairEventAndConditions[%d]", i)
		r.conditions(field+".startEvent.sqlCondition", pair.StartEvent.SQLCondition)
		r.conditions(field+".backEvent.sqlCondition", pair.BackEvent.SQLCondition)

		start, back := pair.StartEvent.RetentionJoinColumn, pair.BackEvent.RetentionJoinColumn
		switch {
		case (start == nil) != (back == nil):
			r.fail(field+".retentionJoinColumn", "required_with", "retention join columns must be set on both events or neither")
		case start != nil && start.DataType != back.DataType:
			r.fail(field+".retentionJoinColumn", "eqfield", "retention join columns must have the same data type")
		}
	}
}

func (r *ruleSet) attribution(p *models.AttributionSQLParameters) {
	r.conditions("targetEventAndCondition.sqlCondition", p.TargetEventAndCondition.SQLCondition)
	if len(p.EventAndConditions) < 1 {
		r.fail("eventAndConditions", "min", "attribution analysis requires at least 1 touch point")
	}
	for i, tp := range p.EventAndConditions {
		r.conditions(fmt.Sprintf("eventAndConditions[%d].sqlCondition", i), tp.SQLCondition)
	}

	if p.ModelType == models.AttributionPosition {
		if len(p.ModelWeights) != 2 {
			r.fail("modelWeights", "len", "position model requires first and last touch weights")
		} else if p.ModelWeights[0]+p.ModelWeights[1] > 1 {
			r.fail("modelWeights", "lte", "position model weights must sum to at most 1")
		}
	}

	if p.TimeWindowType == models.AttributionWindowCustomize &&
		(p.TimeWindowInSeconds <= 0 || p.TimeWindowInSeconds > maxWindowSeconds) {
		r.fail("timeWindowInSeconds", "range", "custom attribution window must be between 1 second and %d years", maxRangeYears)
	}

	switch p.ComputeMethod {
	case models.ComputeEventCount:
	case models.ComputeSumValue:
		ext := p.TargetEventAndCondition.EventExtParameter
		if ext == nil || ext.TargetProperty.Property == "" {
			r.fail("targetEventAndCondition.eventExtParameter", "required", "%s attribution requires a target value property", models.ComputeSumValue)
		}
	default:
		r.fail("computeMethod", "oneof", "attribution compute method must be one of: %s %s", models.ComputeEventCount, models.ComputeSumValue)
	}
}

// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package explore

import (
	"fmt"
	"strconv"

	"github.com/tomtom215/clickstream-explore/internal/models"
	"github.com/tomtom215/clickstream-explore/internal/query"
)

// timeDecayHalfLifeSeconds halves a touch point's credit every seven days.
const timeDecayHalfLifeSeconds = 7 * 24 * 3600

// Attribution renders the credit each touch point earns for the target
// event under the requested model and window.
func (c *Compiler) Attribution(p *models.AttributionSQLParameters) (string, error) {
	if p.TargetEventAndCondition.EventName == "" || len(p.EventAndConditions) == 0 {
		return "", fmt.Errorf("%w: attribution needs a target event and touch points", ErrInvalidRequest)
	}

	var lookback int64
	if p.TimeWindowType == models.AttributionWindowCustomize {
		lookback = p.TimeWindowInSeconds
	}
	names := []string{p.TargetEventAndCondition.EventName}
	for _, tp := range p.EventAndConditions {
		names = append(names, tp.EventName)
	}
	base, err := c.baseData(&p.BaseSQLParameters, analyzeAttributionAttributes(p), includeEvents(names), lookback)
	if err != nil {
		return "", err
	}

	target, err := c.targetTable(p)
	if err != nil {
		return "", err
	}
	touchPoints, err := touchPointTable(p)
	if err != nil {
		return "", err
	}
	window, err := c.attributionWindow(p)
	if err != nil {
		return "", err
	}
	weight, err := attributionWeight(p.ModelType, p.ModelWeights)
	if err != nil {
		return "", err
	}

	stmt := (&statement{}).
		with("base_data", base).
		with("target_table", target).
		with("touch_point_table", touchPoints).
		with("attribution_data", attributionData(window)).
		with("attribution_weighted", fmt.Sprintf("select\ntarget_event_id,\ntarget_value,\ntouch_point_name,\n%s as contribution\nfrom attribution_data", weight))

	final := `select
touch_point_name,
count(distinct target_event_id) as trigger_count,
sum(contribution * target_value)::decimal(20, 4) as contribution,
(sum(contribution * target_value) / NULLIF((select sum(target_value) from target_table), 0))::decimal(20, 4) as contribution_rate
from attribution_weighted
group by touch_point_name
order by contribution desc, touch_point_name`
	return stmt.build(final), nil
}

// targetTable keeps target events inside the requested window. base_data
// may reach further back so that earlier touch points can be credited.
func (c *Compiler) targetTable(p *models.AttributionSQLParameters) (string, error) {
	target := p.TargetEventAndCondition
	cond, err := TranslateSQLCondition(target.SQLCondition)
	if err != nil {
		return "", err
	}
	inWindow, err := TimeWindowPredicate(p.TimeScope(), c.timezone(&p.BaseSQLParameters), "event_timestamp", 0)
	if err != nil {
		return "", err
	}

	value := "1.0"
	if target.ComputeMethod == models.ComputeSumValue || p.ComputeMethod == models.ComputeSumValue {
		if target.EventExtParameter == nil || target.EventExtParameter.TargetProperty.Property == "" {
			return "", fmt.Errorf("%w: %s target needs a value property", ErrInvalidRequest, models.ComputeSumValue)
		}
		value = fmt.Sprintf("COALESCE(%s::double precision, 0)", target.EventExtParameter.TargetProperty.ColumnName())
	}

	cols := []string{
		"event_id as target_event_id",
		"user_pseudo_id",
		"event_timestamp as target_event_timestamp",
	}
	if p.TimeWindowType == models.AttributionWindowSession {
		cols = append(cols, "session_id")
	}
	cols = append(cols, value+" as target_value")

	where := query.NewWhereBuilder().AddEquals("event_name", target.EventName).AddClause(inWindow)
	if cond != "" {
		where.AddClause("(" + cond + ")")
	}
	return fmt.Sprintf("select\n%s\nfrom base_data\nwhere %s", selectList(cols), where.Build()), nil
}

func touchPointTable(p *models.AttributionSQLParameters) (string, error) {
	var branches []string
	for i, tp := range p.EventAndConditions {
		cond, err := TranslateSQLCondition(tp.SQLCondition)
		if err != nil {
			return "", err
		}

		name := stepLabel(i, "event_name")
		if tp.GroupColumn != nil && tp.GroupColumn.Property != "" {
			name += fmt.Sprintf(" || COALESCE('_' || %s::varchar, '')", tp.GroupColumn.ColumnName())
		}
		cols := []string{name + " as touch_point_name", "event_id", "user_pseudo_id", "event_timestamp"}
		if p.TimeWindowType == models.AttributionWindowSession {
			cols = append(cols, "session_id")
		}

		where := query.NewWhereBuilder().AddEquals("event_name", tp.EventName)
		if cond != "" {
			where.AddClause("(" + cond + ")")
		}
		branches = append(branches, fmt.Sprintf("select\n%s\nfrom base_data\nwhere %s", selectList(cols), where.Build()))
	}
	return unionAll(branches), nil
}

// attributionWindow bounds which touch points may precede a target.
func (c *Compiler) attributionWindow(p *models.AttributionSQLParameters) (string, error) {
	switch p.TimeWindowType {
	case models.AttributionWindowCurrentDay, "":
		tz := query.QuoteLiteral(c.timezone(&p.BaseSQLParameters))
		return fmt.Sprintf("CONVERT_TIMEZONE(%s, p.event_timestamp)::DATE = CONVERT_TIMEZONE(%s, t.target_event_timestamp)::DATE", tz, tz), nil
	case models.AttributionWindowCustomize:
		return fmt.Sprintf("EXTRACT(epoch FROM t.target_event_timestamp - p.event_timestamp) <= cast(%d as bigint)", p.TimeWindowInSeconds), nil
	case models.AttributionWindowSession:
		return "p.session_id = t.session_id", nil
	default:
		return "", fmt.Errorf("%w: unknown attribution window %q", ErrInvalidRequest, p.TimeWindowType)
	}
}

func attributionData(window string) string {
	on := query.NewWhereBuilder().
		AddClause("t.user_pseudo_id = p.user_pseudo_id").
		AddClause("p.event_timestamp <= t.target_event_timestamp").
		AddClause("p.event_id <> t.target_event_id").
		AddClause(window)

	return fmt.Sprintf(`select
t.target_event_id,
t.target_value,
p.touch_point_name,
p.event_id as touch_event_id,
ROW_NUMBER() OVER (PARTITION BY t.target_event_id ORDER BY p.event_timestamp asc, p.event_id asc) as touch_rank_asc,
ROW_NUMBER() OVER (PARTITION BY t.target_event_id ORDER BY p.event_timestamp desc, p.event_id desc) as touch_rank_desc,
COUNT(*) OVER (PARTITION BY t.target_event_id) as touch_count,
EXTRACT(epoch FROM t.target_event_timestamp - p.event_timestamp) as seconds_before_target
from target_table t
join touch_point_table p on %s`, on.Build())
}

func formatWeight(w float64) string {
	s := strconv.FormatFloat(w, 'f', -1, 64)
	if _, err := strconv.Atoi(s); err == nil {
		s += ".0"
	}
	return s
}

// attributionWeight is the share of one target credited to one touch point.
// Shares of every target sum to 1.
func attributionWeight(model models.AttributionModelType, weights []float64) (string, error) {
	switch model {
	case models.AttributionLastTouch:
		return "CASE WHEN touch_rank_desc = 1 THEN 1.0 ELSE 0.0 END", nil
	case models.AttributionFirstTouch:
		return "CASE WHEN touch_rank_asc = 1 THEN 1.0 ELSE 0.0 END", nil
	case models.AttributionLinear:
		return "1.0 / touch_count", nil
	case models.AttributionTimeDecay:
		decay := fmt.Sprintf("power(2, -seconds_before_target / %d.0)", timeDecayHalfLifeSeconds)
		return fmt.Sprintf("%s / SUM(%s) OVER (PARTITION BY target_event_id)", decay, decay), nil
	case models.AttributionPosition:
		if len(weights) == 0 {
			return "", fmt.Errorf("%w: position model needs first and last weights", ErrInvalidRequest)
		}
		first, last := weights[0], weights[0]
		if len(weights) > 1 {
			last = weights[1]
		}
		if first < 0 || last < 0 || first+last > 1 {
			return "", fmt.Errorf("%w: position weights %v must be non-negative and sum to at most 1", ErrInvalidRequest, weights)
		}
		return fmt.Sprintf(`CASE
WHEN touch_count = 1 THEN 1.0
WHEN touch_count = 2 THEN 0.5
WHEN touch_rank_asc = 1 THEN %s
WHEN touch_rank_desc = 1 THEN %s
ELSE (1.0 - %s - %s) / (touch_count - 2)
END`, formatWeight(first), formatWeight(last), formatWeight(first), formatWeight(last)), nil
	default:
		return "", fmt.Errorf("%w: unknown attribution model %q", ErrInvalidRequest, model)
	}
}

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

// BuiltinEvents are the events the SDKs emit on their own. Paths that include
// other events exclude them unless they were requested explicitly.
var BuiltinEvents = []string{
	"_session_start",
	"_session_stop",
	"_screen_view",
	"_app_exception",
	"_app_update",
	"_first_open",
	"_os_update",
	"_user_engagement",
	"_profile_set",
	"_page_view",
	"_app_start",
	"_scroll",
	"_search",
	"_click",
	"_clickstream_error",
	"_mp_share",
	"_mp_favorite",
	"_app_end",
}

// nodeSourceEvents carry the screen and page properties node paths read.
var nodeSourceEvents = []string{"_screen_view", "_page_view"}

// eventFilter restricts base_data by event name and platform.
type eventFilter struct {
	include  []string
	exclude  []string
	platform string
}

func includeEvents(names []string) eventFilter {
	return eventFilter{include: uniqueNames(names)}
}

// excludeBuiltins keeps every custom event plus the builtins in requested.
func excludeBuiltins(requested []string) eventFilter {
	keep := make(map[string]bool, len(requested))
	for _, n := range requested {
		keep[n] = true
	}
	var excluded []string
	for _, n := range BuiltinEvents {
		if !keep[n] {
			excluded = append(excluded, n)
		}
	}
	return eventFilter{exclude: excluded}
}

func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func eventNames(events []models.EventAndCondition) []string {
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.EventName
	}
	return names
}

// dateBuckets are the timezone-local presentation columns of base_data.
func dateBuckets(tz string) []string {
	local := fmt.Sprintf("CONVERT_TIMEZONE(%s, event.event_timestamp)", query.QuoteLiteral(tz))
	return []string{
		fmt.Sprintf("TO_CHAR(%s, 'YYYY-MM') as month", local),
		fmt.Sprintf("TO_CHAR(date_trunc('week', %s), 'YYYY-MM-DD') as week", local),
		fmt.Sprintf("TO_CHAR(%s, 'YYYY-MM-DD') as day", local),
		fmt.Sprintf("TO_CHAR(%s, 'YYYY-MM-DD HH24') || ':00:00' as hour", local),
	}
}

// baseData renders the base_data CTE body: one row per in-window event with
// identity columns, every analyzed attribute, and the date buckets.
// lookbackSeconds widens the lower time bound.
func (c *Compiler) baseData(base *models.BaseSQLParameters, usage AttributeUsage, filter eventFilter, lookbackSeconds int64) (string, error) {
	tz := c.timezone(base)
	timeRange, err := TimeWindowPredicate(base.TimeScope(), tz, "event.event_timestamp", lookbackSeconds)
	if err != nil {
		return "", err
	}
	global, err := translateSQLCondition(base.GlobalEventCondition, sourceExpr)
	if err != nil {
		return "", err
	}

	cols := []string{
		"event.event_id",
		"event.event_name",
		"event.event_timestamp",
		"event.merged_user_id as user_pseudo_id",
		"event.user_id",
	}
	for _, attr := range usage.Columns() {
		cols = append(cols, projectionExpr(attr))
	}
	cols = append(cols, dateBuckets(tz)...)

	where := query.NewWhereBuilder().
		AddClause(timeRange).
		AddIn("event.event_name", filter.include).
		AddNotIn("event.event_name", filter.exclude)
	if filter.platform != "" {
		where.AddEquals("event.platform", filter.platform)
	}
	if global != "" {
		where.AddClause("(" + global + ")")
	}

	return fmt.Sprintf("select\n%s\nfrom %s.%s.%s as event\nwhere %s",
		selectList(cols), base.DBName, base.SchemaName, c.eventView, where.Build()), nil
}

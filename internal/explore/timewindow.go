// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package explore

import (
	"fmt"
	"math"
	"time"
	_ "time/tzdata" // timezone names must resolve on minimal images

	"github.com/tomtom215/clickstream-explore/internal/models"
	"github.com/tomtom215/clickstream-explore/internal/query"
)

// Clock supplies the current time for RELATIVE time scopes.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now returns f().
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

func loadLocation(timezone string) (*time.Location, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, timezone)
	}
	return loc, nil
}

var relativeTruncUnits = map[models.RelativeTimeUnit]struct{ trunc, interval string }{
	models.TimeUnitDay:   {"day", "days"},
	models.TimeUnitWeek:  {"week", "weeks"},
	models.TimeUnitMonth: {"month", "months"},
	models.TimeUnitYear:  {"year", "years"},
}

// TimeWindowPredicate bounds column (an event timestamp expression) by the
// time scope. lookbackSeconds widens the lower bound, e.g. for touch points
// that precede the first in-window target event; pass 0 for none.
func TimeWindowPredicate(scope models.TimeScope, timezone, column string, lookbackSeconds int64) (string, error) {
	if _, err := loadLocation(timezone); err != nil {
		return "", err
	}
	tz := query.QuoteLiteral(timezone)

	switch scope.Type {
	case models.TimeScopeFixed:
		if scope.Start == nil || scope.End == nil {
			return "", fmt.Errorf("%w: fixed time scope needs timeStart and timeEnd", ErrInvalidRequest)
		}
		lower := fmt.Sprintf("(date '%s')::timestamp AT TIME ZONE %s", scope.Start, tz)
		if lookbackSeconds > 0 {
			lower += fmt.Sprintf(" - interval '%d seconds'", lookbackSeconds)
		}
		return fmt.Sprintf("%s >= %s and %s <= (date '%s' + interval '1 days')::timestamp AT TIME ZONE %s",
			column, lower, column, scope.End, tz), nil

	case models.TimeScopeRelative:
		unit, ok := relativeTruncUnits[scope.Unit]
		if !ok || scope.LastN < 1 {
			return "", fmt.Errorf("%w: relative time scope needs lastN >= 1 and a time unit", ErrInvalidRequest)
		}
		lower := fmt.Sprintf("DATE_TRUNC('%s', CURRENT_TIMESTAMP AT TIME ZONE %s - interval '%d %s')",
			unit.trunc, tz, scope.LastN-1, unit.interval)
		if lookbackSeconds > 0 {
			days := int64(math.Ceil(float64(lookbackSeconds) / 86400))
			lower = fmt.Sprintf("DATEADD(DAY, -%d, %s)", days, lower)
		}
		return fmt.Sprintf("%s >= %s and %s <= CURRENT_TIMESTAMP", column, lower, column), nil

	default:
		return "", fmt.Errorf("%w: unknown time scope type %q", ErrInvalidRequest, scope.Type)
	}
}

// AnchorDate returns the first calendar day a RELATIVE scope covers, in the
// scope's timezone, as seen at now. It matches the DATE_TRUNC lower bound of
// TimeWindowPredicate.
func AnchorDate(scope models.TimeScope, timezone string, now time.Time) (models.Date, error) {
	loc, err := loadLocation(timezone)
	if err != nil {
		return models.Date{}, err
	}
	if _, ok := relativeTruncUnits[scope.Unit]; !ok || scope.LastN < 1 {
		return models.Date{}, fmt.Errorf("%w: relative time scope needs lastN >= 1 and a time unit", ErrInvalidRequest)
	}

	y, m, d := now.In(loc).Date()
	today := models.NewDate(y, m, d)
	n := scope.LastN - 1

	switch scope.Unit {
	case models.TimeUnitWeek:
		sinceMonday := (int(today.Weekday()) + 6) % 7
		return models.Date{Time: today.AddDate(0, 0, -sinceMonday-7*n)}, nil
	case models.TimeUnitMonth:
		return models.NewDate(y, m-time.Month(n), 1), nil
	case models.TimeUnitYear:
		return models.NewDate(y-n, time.January, 1), nil
	default:
		return models.Date{Time: today.AddDate(0, 0, -n)}, nil
	}
}

// LookbackDays returns the number of whole days from the anchor of a RELATIVE
// scope to today.
func LookbackDays(scope models.TimeScope, timezone string, now time.Time) (int, error) {
	anchor, err := AnchorDate(scope, timezone, now)
	if err != nil {
		return 0, err
	}
	loc, _ := loadLocation(timezone)
	y, m, d := now.In(loc).Date()
	today := models.NewDate(y, m, d)
	return int(today.Sub(anchor.Time).Hours() / 24), nil
}

// fixedDays lists every calendar day from start to end inclusive.
func fixedDays(start, end models.Date) []models.Date {
	var days []models.Date
	for d := start.Time; !d.After(end.Time); d = d.AddDate(0, 0, 1) {
		days = append(days, models.Date{Time: d})
	}
	return days
}

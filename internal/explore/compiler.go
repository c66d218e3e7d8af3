// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package explore

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/clickstream-explore/internal/models"
)

const (
	// DefaultEventView is the flattened clickstream view every analysis reads.
	DefaultEventView = "clickstream_event_view_v3"

	// DefaultTimezone applies when a request carries no timezone.
	DefaultTimezone = "UTC"

	// DefaultMaxStep bounds path walks when a request carries no maxStep.
	DefaultMaxStep = 5
)

// Compiler turns explore requests into a single warehouse SQL statement.
// A Compiler holds no per-request state and is safe for concurrent use.
type Compiler struct {
	clock           Clock
	eventView       string
	defaultTimezone string
	maxStep         int
	format          bool
	logger          zerolog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithClock injects the clock used for RELATIVE time scopes.
func WithClock(clock Clock) Option {
	return func(c *Compiler) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithEventView overrides the source view name.
func WithEventView(view string) Option {
	return func(c *Compiler) {
		if view != "" {
			c.eventView = view
		}
	}
}

// WithDefaultTimezone sets the timezone used when a request has none.
func WithDefaultTimezone(tz string) Option {
	return func(c *Compiler) {
		if tz != "" {
			c.defaultTimezone = tz
		}
	}
}

// WithMaxStep sets the path depth used when a request has none.
func WithMaxStep(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.maxStep = n
		}
	}
}

// WithFormatting toggles FormatSQL on compiled output.
func WithFormatting(enabled bool) Option {
	return func(c *Compiler) {
		c.format = enabled
	}
}

// WithLogger sets the compiler's logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// New returns a Compiler with defaults applied before opts.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		clock:           SystemClock,
		eventView:       DefaultEventView,
		defaultTimezone: DefaultTimezone,
		maxStep:         DefaultMaxStep,
		format:          true,
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// supportedCharts lists the chart kinds each family renders.
var supportedCharts = map[models.AnalysisType][]models.ChartType{
	models.AnalysisFunnel:      {models.ChartFunnel, models.ChartBar, models.ChartTable},
	models.AnalysisEvent:       {models.ChartLine, models.ChartBar},
	models.AnalysisPath:        {models.ChartSankey},
	models.AnalysisRetention:   {models.ChartLine, models.ChartBar},
	models.AnalysisAttribution: {models.ChartTable},
}

// SupportsChart reports whether analysis can be rendered as chart.
func SupportsChart(analysis models.AnalysisType, chart models.ChartType) bool {
	for _, c := range supportedCharts[analysis] {
		if c == chart {
			return true
		}
	}
	return false
}

// Compile dispatches a funnel, event, path or retention request.
// Attribution requests use CompileAttribution.
func (c *Compiler) Compile(analysis models.AnalysisType, chart models.ChartType, p *models.SQLParameters) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: missing parameters", ErrInvalidRequest)
	}
	if !SupportsChart(analysis, chart) {
		return "", fmt.Errorf("%w: %s chart for %s analysis", ErrUnsupportedChartType, chart, analysis)
	}

	start := time.Now()
	var (
		sql string
		err error
	)
	switch analysis {
	case models.AnalysisFunnel:
		if chart == models.ChartTable {
			sql, err = c.FunnelTable(p)
		} else {
			sql, err = c.FunnelChart(p)
		}
	case models.AnalysisEvent:
		sql, err = c.Event(p)
	case models.AnalysisPath:
		sql, err = c.Path(p)
	case models.AnalysisRetention:
		sql, err = c.Retention(p)
	default:
		return "", fmt.Errorf("%w: %s analysis takes attribution parameters", ErrInvalidRequest, analysis)
	}
	return c.finish(analysis, chart, sql, err, start)
}

// CompileAttribution compiles an attribution request.
func (c *Compiler) CompileAttribution(chart models.ChartType, p *models.AttributionSQLParameters) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: missing parameters", ErrInvalidRequest)
	}
	if !SupportsChart(models.AnalysisAttribution, chart) {
		return "", fmt.Errorf("%w: %s chart for attribution analysis", ErrUnsupportedChartType, chart)
	}
	start := time.Now()
	sql, err := c.Attribution(p)
	return c.finish(models.AnalysisAttribution, chart, sql, err, start)
}

func (c *Compiler) finish(analysis models.AnalysisType, chart models.ChartType, sql string, err error, start time.Time) (string, error) {
	if err != nil {
		c.logger.Error().Err(err).
			Str("analysis", string(analysis)).
			Str("chart_type", string(chart)).
			Msg("Failed to compile explore request")
		return "", err
	}
	if c.format {
		sql = FormatSQL(sql)
	}
	c.logger.Debug().
		Str("analysis", string(analysis)).
		Str("chart_type", string(chart)).
		Int("sql_bytes", len(sql)).
		Dur("duration", time.Since(start)).
		Msg("Compiled explore request")
	return sql, nil
}

// timezone resolves the request timezone against the compiler default.
func (c *Compiler) timezone(base *models.BaseSQLParameters) string {
	if base.Timezone != "" {
		return base.Timezone
	}
	return c.defaultTimezone
}

// idColumn is the column counted by a compute method.
func idColumn(method models.ComputeMethod) string {
	if method == models.ComputeEventCount {
		return "event_id"
	}
	return "user_pseudo_id"
}

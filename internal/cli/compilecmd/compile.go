// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

// Package compilecmd implements the explore-sql command: read one request,
// validate it, print the compiled SQL.
package compilecmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/clickstream-explore/internal/api"
	"github.com/tomtom215/clickstream-explore/internal/config"
	"github.com/tomtom215/clickstream-explore/internal/explore"
	"github.com/tomtom215/clickstream-explore/internal/logging"
	"github.com/tomtom215/clickstream-explore/internal/models"
	"github.com/tomtom215/clickstream-explore/internal/validation"
)

// ErrInvalidRequest is returned after validation failures have been printed.
var ErrInvalidRequest = errors.New("request failed validation")

type options struct {
	analysis  string
	input     string
	now       string
	eventView string
	timezone  string
	maxStep   int
	noFormat  bool
	asJSON    bool
	logLevel  string
}

// New returns the explore-sql root command.
func New() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "explore-sql --analysis <family> [--input request.json]",
		Short: "Compile an explore request to warehouse SQL",
		Long: `Reads a request envelope ({"chartType": ..., "parameters": {...}}) from
--input or stdin, validates it and writes the SQL to stdout.

Compiler defaults come from the same config.yaml and EXPLORE_* variables the
server reads; flags override them.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.analysis, "analysis", "a", "", "analysis family: "+analysisList())
	f.StringVarP(&opts.input, "input", "i", "-", "request file, - for stdin")
	f.StringVar(&opts.now, "now", "", "pin the clock for RELATIVE scopes (RFC 3339)")
	f.StringVar(&opts.eventView, "event-view", "", "override the event view name")
	f.StringVar(&opts.timezone, "timezone", "", "override the default timezone")
	f.IntVar(&opts.maxStep, "max-step", 0, "override the default path depth")
	f.BoolVar(&opts.noFormat, "no-format", false, "skip SQL indentation")
	f.BoolVar(&opts.asJSON, "json", false, "print {analysis, chartType, sql, fingerprint} instead of bare SQL")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level for stderr diagnostics")
	_ = cmd.MarkFlagRequired("analysis")

	return cmd
}

func analysisList() string {
	names := make([]string, 0, len(models.AllAnalysisTypes()))
	for _, a := range models.AllAnalysisTypes() {
		names = append(names, string(a))
	}
	return strings.Join(names, ", ")
}

func parseAnalysis(s string) (models.AnalysisType, error) {
	for _, a := range models.AllAnalysisTypes() {
		if string(a) == strings.ToLower(s) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown analysis %q; expected one of %s", s, analysisList())
}

func run(cmd *cobra.Command, opts *options) error {
	logging.Init(logging.Config{Level: opts.logLevel, Format: "console", Output: cmd.ErrOrStderr()})

	analysis, err := parseAnalysis(opts.analysis)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	compiler, err := newCompiler(cfg.Explore, opts)
	if err != nil {
		return err
	}

	data, err := readInput(cmd.InOrStdin(), opts.input)
	if err != nil {
		return err
	}
	logging.Trace().Str("input", opts.input).Bytes("request", data).Msg("request read")

	var (
		chart models.ChartType
		sql   string
	)
	if analysis == models.AnalysisAttribution {
		var req models.AttributionRequest
		if err := decode(data, &req); err != nil {
			return err
		}
		if verr := validation.ValidateAttribution(&req); verr != nil {
			return reportInvalid(cmd.ErrOrStderr(), verr)
		}
		chart = req.ChartType
		sql, err = compiler.CompileAttribution(chart, &req.Parameters)
	} else {
		var req models.ExploreRequest
		if err := decode(data, &req); err != nil {
			return err
		}
		if verr := validation.ValidateExplore(analysis, &req); verr != nil {
			return reportInvalid(cmd.ErrOrStderr(), verr)
		}
		chart = req.ChartType
		sql, err = compiler.Compile(analysis, chart, &req.Parameters)
	}
	if err != nil {
		return fmt.Errorf("compile %s: %w", analysis, err)
	}

	logging.Debug().Str("analysis", string(analysis)).Str("chart", string(chart)).Int("sql_bytes", len(sql)).Msg("compiled")

	out := cmd.OutOrStdout()
	if !opts.asJSON {
		_, err = fmt.Fprintln(out, sql)
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(models.CompiledSQL{
		Analysis:    analysis,
		ChartType:   chart,
		SQL:         sql,
		Fingerprint: api.Fingerprint(sql),
	})
}

func newCompiler(cfg config.ExploreConfig, opts *options) (*explore.Compiler, error) {
	copts := []explore.Option{
		explore.WithEventView(cfg.EventView),
		explore.WithDefaultTimezone(cfg.DefaultTimezone),
		explore.WithMaxStep(cfg.MaxStep),
		explore.WithFormatting(cfg.Format && !opts.noFormat),
		explore.WithLogger(logging.WithComponent("explore")),
		// flags last so they win over config
		explore.WithEventView(opts.eventView),
		explore.WithDefaultTimezone(opts.timezone),
		explore.WithMaxStep(opts.maxStep),
	}
	if opts.eventView != "" && !validation.IsSQLIdent(opts.eventView) {
		return nil, fmt.Errorf("--event-view %q is not a SQL identifier", opts.eventView)
	}
	if opts.now != "" {
		now, err := time.Parse(time.RFC3339, opts.now)
		if err != nil {
			return nil, fmt.Errorf("--now: %w", err)
		}
		copts = append(copts, explore.WithClock(explore.FixedClock(now)))
	}
	return explore.New(copts...), nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" || path == "" {
		data, err = io.ReadAll(io.LimitReader(stdin, api.MaxRequestBodyBytes+1))
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // path is operator supplied
	}
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	if len(data) > api.MaxRequestBodyBytes {
		return nil, fmt.Errorf("read request: %w", api.ErrBodyTooLarge)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("read request: %w", api.ErrEmptyBody)
	}
	return data, nil
}

func decode(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	if dec.More() {
		return errors.New("decode request: input must contain a single JSON object")
	}
	return nil
}

// reportInvalid prints one "field: message" line per failure, in rule order.
func reportInvalid(w io.Writer, verr *validation.RequestValidationError) error {
	errs := verr.Errors()
	for i := range errs {
		fmt.Fprintf(w, "  %s: %s\n", errs[i].Field(), errs[i].Error())
	}
	return ErrInvalidRequest
}

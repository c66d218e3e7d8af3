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

// otherStep labels events and nodes outside the requested set.
const otherStep = "other"

// pathWalk numbers the steps of mid_table per segment, anchors every
// segment at its first occurrence of anchor and pairs each step with its
// successor.
type pathWalk struct {
	step       string // step identity column of mid_table
	anchor     string
	session    bool
	lagSeconds int64
	maxStep    int
	id         string
}

// segment is the column that, with user_pseudo_id, scopes step numbering.
func (w pathWalk) segment() string {
	if w.session {
		return "session_id"
	}
	return "group_id"
}

func (w pathWalk) ctes() []cte {
	seg := w.segment()
	source := "mid_table"
	var out []cte
	if !w.session {
		groups := runLengthGroups{source: "mid_table", prefix: "data", lagSeconds: w.lagSeconds}
		out = append(out, groups.ctes()...)
		source = groups.output()
	}

	walkCols := fmt.Sprintf("%s,\nevent_date,\nuser_pseudo_id,\nevent_id,\nevent_timestamp,\n%s", w.step, seg)
	number := func(order string) string {
		rn := fmt.Sprintf("ROW_NUMBER() OVER (PARTITION BY user_pseudo_id, %s ORDER BY %s)", seg, order)
		return fmt.Sprintf("%s as step_1,\n%s + 1 as step_2", rn, rn)
	}

	out = append(out,
		cte{
			name: "data",
			body: fmt.Sprintf("select\n%s,\n%s\nfrom %s", walkCols, number("event_timestamp asc, event_id asc"), source),
		},
		cte{
			name: "step_table_1",
			body: fmt.Sprintf("select\nuser_pseudo_id,\n%s,\nmin(step_1) as min_step\nfrom data\nwhere %s = %s\ngroup by user_pseudo_id, %s",
				seg, w.step, query.QuoteLiteral(w.anchor), seg),
		},
		cte{
			name: "step_table_2",
			body: fmt.Sprintf("select\ndata.*\nfrom data\njoin step_table_1 on data.user_pseudo_id = step_table_1.user_pseudo_id and data.%s = step_table_1.%s and data.step_1 >= step_table_1.min_step",
				seg, seg),
		},
		cte{
			name: "data_final",
			body: fmt.Sprintf("select\n%s,\n%s\nfrom step_table_2", walkCols, number("step_1 asc")),
		},
	)
	return out
}

func (w pathWalk) final() string {
	seg := w.segment()
	return fmt.Sprintf(`select
a.event_date,
a.%[1]s || '_' || a.step_1::varchar as source,
CASE WHEN b.%[1]s is not null THEN b.%[1]s || '_' || a.step_2::varchar ELSE 'lost_' || a.step_2::varchar END as target,
a.%[2]s as x_id
from data_final a
left join data_final b on a.step_2 = b.step_1 and a.%[3]s = b.%[3]s and a.user_pseudo_id = b.user_pseudo_id
where a.step_2 <= %[4]d`, w.step, w.id, seg, w.maxStep)
}

// Path renders a sankey source/target edge list for event or node paths.
func (c *Compiler) Path(p *models.SQLParameters) (string, error) {
	pa := p.PathAnalysis
	if pa == nil {
		return "", fmt.Errorf("%w: path analysis needs pathAnalysis", ErrInvalidRequest)
	}

	walk := pathWalk{
		session:    pa.IsSessionScoped(),
		lagSeconds: pa.LagSeconds,
		maxStep:    c.maxStep,
		id:         idColumn(p.ComputeMethod),
	}
	if p.MaxStep > 0 {
		walk.maxStep = p.MaxStep
	}

	var (
		stmt *statement
		err  error
	)
	if node, ok := pa.PropertyNode(); ok {
		stmt, err = c.nodePath(p, node, &walk)
	} else {
		stmt, err = c.eventPath(p, &walk)
	}
	if err != nil {
		return "", err
	}
	return stmt.withAll(walk.ctes()).build(walk.final()), nil
}

// pathCarry are the mid_table columns after the step identity.
func pathCarry(session bool) []string {
	cols := []string{"event_date", "user_pseudo_id", "event_id", "event_timestamp"}
	if session {
		cols = append(cols, "session_id")
	}
	return cols
}

// mergeConsecutive keeps the latest row of each (step, user[, session]).
func mergeConsecutive(source, step string, session bool, filter string) string {
	partition := step + ", user_pseudo_id"
	if session {
		partition += ", session_id"
	}
	where := query.NewWhereBuilder().AddClause("rk = 1").AddClause(filter)
	return fmt.Sprintf("select\n%s\nfrom (\nselect\n*,\nROW_NUMBER() OVER (PARTITION BY %s ORDER BY event_timestamp desc) as rk\nfrom %s\n) as ranked\nwhere %s",
		selectList(append([]string{step}, pathCarry(session)...)), partition, source, where.Build())
}

func (c *Compiler) eventPath(p *models.SQLParameters, walk *pathWalk) (*statement, error) {
	events := p.EventAndConditions
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: path analysis needs at least one event", ErrInvalidRequest)
	}
	pa := p.PathAnalysis
	names := eventNames(events)
	startFrom := len(events) == 1

	filter := includeEvents(names)
	if pa.IncludingOtherEvents || startFrom {
		filter = excludeBuiltins(names)
	}
	base, err := c.baseData(&p.BaseSQLParameters, AnalyzeAttributes(p), filter, 0)
	if err != nil {
		return nil, err
	}

	duplicates := len(uniqueNames(names)) != len(names)
	label := func(i int) string {
		if duplicates {
			return stepLabel(i, "event_name")
		}
		return "event_name"
	}
	carry := pathCarry(walk.session)
	carry[0] = "day as event_date"

	var branches []string
	for i, e := range events {
		cond, err := TranslateSQLCondition(e.SQLCondition)
		if err != nil {
			return nil, err
		}
		where := query.NewWhereBuilder().AddEquals("event_name", e.EventName)
		if cond != "" {
			where.AddClause("(" + cond + ")")
		}
		branches = append(branches, fmt.Sprintf("select\n%s\nfrom base_data\nwhere %s",
			selectList(append([]string{label(i) + " as event_name"}, carry...)), where.Build()))
	}
	if pa.IncludingOtherEvents || startFrom {
		other := query.QuoteLiteral(otherStep)
		if startFrom {
			other = "event_name"
		}
		branches = append(branches, fmt.Sprintf("select\n%s\nfrom base_data\nwhere %s",
			selectList(append([]string{other + " as event_name"}, carry...)),
			query.NewWhereBuilder().AddNotIn("event_name", uniqueNames(names)).Build()))
	}

	walk.step = "event_name"
	walk.anchor = events[0].EventName
	if duplicates {
		walk.anchor = "1_" + events[0].EventName
	}

	mid := fmt.Sprintf("select\n%s\nfrom union_base_data", selectList(append([]string{"event_name"}, pathCarry(walk.session)...)))
	if pa.MergeConsecutiveEvents {
		mid = mergeConsecutive("union_base_data", "event_name", walk.session, "")
	}

	return (&statement{}).
		with("base_data", base).
		with("union_base_data", unionAll(branches)).
		with("mid_table", mid), nil
}

func (c *Compiler) nodePath(p *models.SQLParameters, node models.PropertyNode, walk *pathWalk) (*statement, error) {
	if len(node.Nodes) == 0 {
		return nil, fmt.Errorf("%w: node path needs at least one node", ErrInvalidRequest)
	}
	pa := p.PathAnalysis
	startFrom := len(node.Nodes) == 1

	filter := includeEvents(nodeSourceEvents)
	filter.platform = node.Platform
	base, err := c.baseData(&p.BaseSQLParameters, AnalyzeAttributes(p), filter, 0)
	if err != nil {
		return nil, err
	}

	carry := pathCarry(walk.session)
	first := append([]string{}, carry...)
	first[0] = "day as event_date"
	column := nodeAttribute(node).ColumnName()

	joined := "mid_table_1.*,\nmid_table_2.node"
	where := query.NewWhereBuilder().AddClause("node is not null")
	if pa.MergeConsecutiveEvents {
		partition := "mid_table_2.node, mid_table_1.user_pseudo_id"
		if walk.session {
			partition += ", mid_table_1.session_id"
		}
		joined += fmt.Sprintf(",\nROW_NUMBER() OVER (PARTITION BY %s ORDER BY mid_table_1.event_timestamp desc) as rk", partition)
		where.AddClause("rk = 1")
	}

	step := "node"
	if !startFrom {
		if !pa.IncludingOtherEvents {
			where.AddIn("node", node.Nodes)
		}
		step = fmt.Sprintf("CASE WHEN node in %s THEN node ELSE %s END as node",
			query.LiteralList(node.Nodes), query.QuoteLiteral(otherStep))
	}

	walk.step = "node"
	walk.anchor = node.Nodes[0]

	return (&statement{}).
		with("base_data", base).
		with("mid_table_1", fmt.Sprintf("select\n%s\nfrom base_data", selectList(first))).
		with("mid_table_2", fmt.Sprintf("select\nevent_timestamp,\nevent_id,\nmax(%s) as node\nfrom base_data\ngroup by event_timestamp, event_id", column)).
		with("mid_table", fmt.Sprintf("select\n%s\nfrom (\nselect\n%s\nfrom mid_table_1\njoin mid_table_2 on mid_table_1.event_id = mid_table_2.event_id and mid_table_1.event_timestamp = mid_table_2.event_timestamp\n) as joined\nwhere %s",
			selectList(append([]string{step}, carry...)), joined, where.Build())), nil
}

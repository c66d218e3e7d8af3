// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package explore

import "fmt"

// runLengthGroups splits each user's time-ordered rows into groups separated
// by gaps longer than lagSeconds. The source relation must expose
// user_pseudo_id, event_id and event_timestamp.
//
// A row is flagged as the last of its group when the next row of the same
// user is more than lagSeconds later, or when there is no next row. A row's
// group_id is the number of flagged rows before it, so the first row of every
// user is in group 0 and a gap of exactly lagSeconds does not split.
type runLengthGroups struct {
	source     string
	prefix     string
	lagSeconds int64
}

func (g runLengthGroups) name(n int) string {
	return fmt.Sprintf("%s_%d", g.prefix, n)
}

// output is the CTE carrying group_id.
func (g runLengthGroups) output() string {
	return g.name(3)
}

func (g runLengthGroups) ctes() []cte {
	ordered, flagged := g.name(1), g.name(2)
	return []cte{
		{
			name: ordered,
			body: fmt.Sprintf("select\n*,\nROW_NUMBER() OVER (PARTITION BY user_pseudo_id ORDER BY event_timestamp asc, event_id asc) as seq\nfrom %s", g.source),
		},
		{
			name: flagged,
			body: fmt.Sprintf("select\na.*,\nCASE WHEN b.event_timestamp is not null and EXTRACT(epoch FROM b.event_timestamp - a.event_timestamp) <= cast(%d as bigint) THEN 0 ELSE 1 END as group_end\nfrom %s a\nleft join %s b on a.user_pseudo_id = b.user_pseudo_id and a.seq + 1 = b.seq",
				g.lagSeconds, ordered, ordered),
		},
		{
			name: g.output(),
			body: fmt.Sprintf("select\n*,\nCOALESCE(SUM(group_end) OVER (PARTITION BY user_pseudo_id ORDER BY seq ROWS BETWEEN UNBOUNDED PRECEDING AND 1 PRECEDING), 0) as group_id\nfrom %s", flagged),
		},
	}
}

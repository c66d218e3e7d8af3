// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

/*
Package models defines the request and response types shared by the compiler,
the validation rules, the HTTP API and the CLI.

Request types:

  - BaseSQLParameters: database, schema, compute method, time scope, timezone,
    global condition and grouping shared by every analysis family
  - SQLParameters: funnel, event, path and retention requests
  - AttributionSQLParameters: attribution requests
  - ExploreRequest / AttributionRequest: the {chartType, parameters} envelopes

Building blocks:

  - Condition, SQLCondition: typed filters joined by and/or
  - ColumnAttribute: a (category, property, data type) column reference and
    its flattened base_data alias
  - EventAndCondition, PairEventAndCondition, AttributionTouchPoint
  - PathAnalysisParameter, PropertyNode
  - GroupingCondition, TimeScope, Date

Enums use the wire strings as values (for example OperatorEqual is "=" and
TimeUnitDay is "DD"), so JSON round trips without custom marshaling except
where explore_json.go says otherwise.

Response types:

  - APIResponse, Metadata, APIError: the HTTP envelope
  - CompiledSQL: the compile endpoint and CLI payload
  - HealthStatus: readiness probe payload
*/
package models

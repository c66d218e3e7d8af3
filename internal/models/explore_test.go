// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestCategory_Prefix(t *testing.T) {
	tests := []struct {
		category Category
		expected string
		nested   bool
	}{
		{CategoryUser, "u_", true},
		{CategoryEvent, "e_", true},
		{CategoryUserOuter, "", false},
		{CategoryEventOuter, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if got := tt.category.Prefix(); got != tt.expected {
				t.Errorf("Prefix() = %q, want %q", got, tt.expected)
			}
			if got := tt.category.IsNested(); got != tt.nested {
				t.Errorf("IsNested() = %v, want %v", got, tt.nested)
			}
		})
	}
}

func TestGroupingCondition_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		grouping *GroupingCondition
		expected bool
	}{
		{
			name:     "nil grouping",
			grouping: nil,
			expected: false,
		},
		{
			name:     "no conditions",
			grouping: &GroupingCondition{Conditions: []ColumnAttribute{}},
			expected: false,
		},
		{
			name:     "empty property",
			grouping: &GroupingCondition{Conditions: []ColumnAttribute{{Property: ""}}},
			expected: false,
		},
		{
			name:     "one named property",
			grouping: &GroupingCondition{Conditions: []ColumnAttribute{{Property: "city"}}},
			expected: true,
		},
		{
			name: "second property empty",
			grouping: &GroupingCondition{Conditions: []ColumnAttribute{
				{Property: "city"},
				{Property: ""},
			}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.grouping.IsValid(); got != tt.expected {
				t.Errorf("IsValid() = %v, want %v", got, tt.expected)
			}
			if !tt.expected && tt.grouping.Columns() != nil {
				t.Error("Expected invalid grouping to expose no columns")
			}
		})
	}
}

func TestColumnAttribute_ColumnName(t *testing.T) {
	attr := ColumnAttribute{Category: CategoryEvent, Property: "level", DataType: DataTypeString}
	if got := attr.ColumnName(); got != "e_level" {
		t.Errorf("Expected %q, got %q", "e_level", got)
	}

	outer := ColumnAttribute{Category: CategoryEventOuter, Property: "platform"}
	if got := outer.ColumnName(); got != "platform" {
		t.Errorf("Expected %q, got %q", "platform", got)
	}
}

func TestPathAnalysisParameter_JSON(t *testing.T) {
	t.Run("event node", func(t *testing.T) {
		var p PathAnalysisParameter
		data := `{"sessionType":"CUSTOMIZE","nodeType":"event","lagSeconds":3600,"mergeConsecutiveEvents":true}`
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if _, ok := p.Node.(EventNode); !ok {
			t.Errorf("Expected EventNode, got %T", p.Node)
		}
		if p.LagSeconds != 3600 || !p.MergeConsecutiveEvents {
			t.Errorf("Unexpected decode: %+v", p)
		}
		if p.IsSessionScoped() {
			t.Error("Expected CUSTOMIZE walk not to be session scoped")
		}
	})

	t.Run("property node", func(t *testing.T) {
		var p PathAnalysisParameter
		data := `{"sessionType":"SESSION","nodeType":"screen_view_screen_name","nodes":["Home","Cart"],"platform":"Android"}`
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		node, ok := p.PropertyNode()
		if !ok {
			t.Fatalf("Expected PropertyNode, got %T", p.Node)
		}
		if node.Property != PathNodeScreenName || len(node.Nodes) != 2 || node.Platform != "Android" {
			t.Errorf("Unexpected node: %+v", node)
		}

		out, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		var again PathAnalysisParameter
		if err := json.Unmarshal(out, &again); err != nil {
			t.Fatalf("Unmarshal of %s failed: %v", out, err)
		}
		if n, _ := again.PropertyNode(); n.Nodes[1] != "Cart" {
			t.Errorf("Expected nodes to survive encoding, got %s", out)
		}
	})

	t.Run("unknown node type", func(t *testing.T) {
		var p PathAnalysisParameter
		if err := json.Unmarshal([]byte(`{"nodeType":"bogus"}`), &p); err == nil {
			t.Error("Expected error for unknown node type")
		}
	})
}

func TestConditionValues_UnmarshalJSON(t *testing.T) {
	var v ConditionValues
	if err := json.Unmarshal([]byte(`["a", 5, 12345678901234567890, true, null]`), &v); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	expected := []string{"a", "5", "12345678901234567890", "true"}
	if len(v) != len(expected) {
		t.Fatalf("Expected %d values, got %d (%v)", len(expected), len(v), v)
	}
	for i := range expected {
		if v[i] != expected[i] {
			t.Errorf("value[%d]: Expected %q, got %q", i, expected[i], v[i])
		}
	}

	if err := json.Unmarshal([]byte(`[{"x":1}]`), &v); err == nil {
		t.Error("Expected error for object value")
	}
}

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"2024-03-09"`, "2024-03-09"},
		{`"2024-03-09T15:04:05Z"`, "2024-03-09"},
		{`1709942400000`, "2024-03-09"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d Date
			if err := json.Unmarshal([]byte(tt.input), &d); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if d.String() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, d.String())
			}
		})
	}

	var d Date
	if err := json.Unmarshal([]byte(`"March 9"`), &d); err == nil {
		t.Error("Expected error for unparseable date")
	}

	out, _ := json.Marshal(NewDate(2024, time.January, 2))
	if string(out) != `"2024-01-02"` {
		t.Errorf("Expected %q, got %q", `"2024-01-02"`, out)
	}
}

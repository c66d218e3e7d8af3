// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/clickstream-explore/internal/models"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestValidatorSingleton(t *testing.T) {
	v1 := getValidator()
	v2 := getValidator()

	if v1 != v2 {
		t.Error("getValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("getValidator() should not return nil")
	}
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

func validCondition() models.Condition {
	return models.Condition{
		Category: models.CategoryEvent,
		Property: "level",
		Operator: models.OperatorEqual,
		Value:    models.ConditionValues{"5"},
		DataType: models.DataTypeString,
	}
}

func TestValidateStruct_Condition(t *testing.T) {
	if err := ValidateStruct(ptr(validCondition())); err != nil {
		t.Fatalf("ValidateStruct() returned unexpected error: %v", err)
	}

	tests := []struct {
		name      string
		mutate    func(c *models.Condition)
		wantField string
		wantTag   string
	}{
		{"missing property", func(c *models.Condition) { c.Property = "" }, "Property", "required"},
		{"property with quote", func(c *models.Condition) { c.Property = "level'--" }, "Property", "sqlident"},
		{"property with dot", func(c *models.Condition) { c.Property = "a.b" }, "Property", "sqlident"},
		{"unknown operator", func(c *models.Condition) { c.Operator = "like" }, "Operator", "oneof"},
		{"unknown category", func(c *models.Condition) { c.Category = "device" }, "Category", "oneof"},
		{"unknown data type", func(c *models.Condition) { c.DataType = "date" }, "DataType", "oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCondition()
			tt.mutate(&c)
			err := ValidateStruct(&c)
			if err == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}

			found := false
			for _, e := range err.Errors() {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Expected error on field %s with tag %s, got: %v", tt.wantField, tt.wantTag, err.Errors())
			}
		})
	}
}

func TestValidateStruct_Timezone(t *testing.T) {
	tests := []struct {
		timezone string
		valid    bool
	}{
		{"", true},
		{"UTC", true},
		{"Asia/Shanghai", true},
		{"America/Argentina/Buenos_Aires", true},
		{"Mars/Olympus", false},
		{"utc+8", false},
	}

	for _, tt := range tests {
		t.Run(tt.timezone, func(t *testing.T) {
			p := models.BaseSQLParameters{
				DBName:        "app",
				SchemaName:    "shop",
				ComputeMethod: models.ComputeEventCount,
				TimeScopeType: models.TimeScopeFixed,
				Timezone:      tt.timezone,
			}
			err := ValidateStruct(&p)
			if tt.valid && err != nil {
				t.Errorf("Expected %q to be valid, got %v", tt.timezone, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("Expected %q to be rejected", tt.timezone)
			}
		})
	}
}

func TestIsSQLIdent(t *testing.T) {
	for _, ok := range []string{"a", "_x", "user_pseudo_id", "Level2"} {
		if !IsSQLIdent(ok) {
			t.Errorf("Expected %q to be an identifier", ok)
		}
	}
	for _, bad := range []string{"", "2a", "a-b", "a b", `a"`, "a;b"} {
		if IsSQLIdent(bad) {
			t.Errorf("Expected %q not to be an identifier", bad)
		}
	}
}

// ===================================================================================================
// ToAPIError Tests
// ===================================================================================================

func TestToAPIError_SingleError(t *testing.T) {
	c := validCondition()
	c.Property = ""

	err := ValidateStruct(&c)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}

	if apiErr.Message != "Property is required" {
		t.Errorf("Expected %q, got %q", "Property is required", apiErr.Message)
	}

	if apiErr.Details["field"] != "Property" {
		t.Errorf("Expected field detail, got %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	c := models.Condition{}

	err := ValidateStruct(&c)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}

	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("Expected details to contain 'fields' key")
	}

	if !strings.Contains(apiErr.Message, "Category: Category is required") {
		t.Errorf("Expected per-field messages, got %q", apiErr.Message)
	}
}

// ===================================================================================================
// Error Message Translation Tests
// ===================================================================================================

func TestErrorMessages(t *testing.T) {
	c := validCondition()
	c.Operator = "like"
	c.Property = "bad name"

	err := ValidateStruct(&c)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	msg := err.Error()
	if !strings.Contains(msg, "Operator must be one of:") {
		t.Errorf("Expected oneof message, got %s", msg)
	}
	if !strings.Contains(msg, "Property must start with a letter or underscore") {
		t.Errorf("Expected sqlident message, got %s", msg)
	}
}

func ptr[T any](v T) *T {
	return &v
}

// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package explore

import (
	"errors"
	"fmt"

	"github.com/tomtom215/clickstream-explore/internal/models"
)

// Compile errors. None of them should occur for a request that passed validation.
var (
	// ErrUnsupportedOperator is returned when an operator is not defined for
	// the condition's data type family.
	ErrUnsupportedOperator = errors.New("unsupported condition operator")

	// ErrUnsupportedChartType is returned when a chart is not implemented for
	// the analysis family.
	ErrUnsupportedChartType = errors.New("unsupported chart type")

	// ErrInvalidConditionValue is returned for a missing operand or a
	// non-numeric operand in the number family.
	ErrInvalidConditionValue = errors.New("invalid condition value")

	// ErrInvalidRequest is returned when a family-specific field is missing.
	ErrInvalidRequest = errors.New("invalid explore request")

	// ErrInvalidTimezone is returned when the timezone cannot be loaded.
	ErrInvalidTimezone = errors.New("invalid timezone")
)

// ConditionError identifies the condition that failed to translate.
type ConditionError struct {
	Condition models.Condition
	Err       error
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("condition on %s.%s (%s %s): %v",
		e.Condition.Category, e.Condition.Property, e.Condition.DataType, e.Condition.Operator, e.Err)
}

func (e *ConditionError) Unwrap() error {
	return e.Err
}

// IsCompileError reports whether err is one of the compiler's own errors,
// as opposed to an unexpected failure.
func IsCompileError(err error) bool {
	return errors.Is(err, ErrUnsupportedOperator) ||
		errors.Is(err, ErrUnsupportedChartType) ||
		errors.Is(err, ErrInvalidConditionValue) ||
		errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidTimezone)
}

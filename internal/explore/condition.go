// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package explore

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tomtom215/clickstream-explore/internal/models"
	"github.com/tomtom215/clickstream-explore/internal/query"
)

// columnRef resolves the SQL expression a condition compares against.
type columnRef func(attr models.ColumnAttribute) string

// aliasRef references the flattened base_data alias, e.g. e_level.
func aliasRef(attr models.ColumnAttribute) string {
	return attr.ColumnName()
}

// TranslateCondition renders one condition as a boolean fragment over
// base_data column aliases.
func TranslateCondition(c models.Condition) (string, error) {
	return translateCondition(c, aliasRef)
}

// TranslateSQLCondition renders every condition joined by the declared
// operator, in list order. An empty condition renders as "".
func TranslateSQLCondition(sc *models.SQLCondition) (string, error) {
	return translateSQLCondition(sc, aliasRef)
}

func translateSQLCondition(sc *models.SQLCondition, ref columnRef) (string, error) {
	if sc.IsEmpty() {
		return "", nil
	}

	wb := query.NewWhereBuilderWith(string(sc.Operator()))
	for _, c := range sc.Conditions {
		fragment, err := translateCondition(c, ref)
		if err != nil {
			return "", err
		}
		wb.AddClause(fragment)
	}
	return wb.Build(), nil
}

func translateCondition(c models.Condition, ref columnRef) (string, error) {
	column := ref(models.ColumnAttribute{Category: c.Category, Property: c.Property, DataType: c.DataType})

	var (
		fragment string
		err      error
	)
	switch {
	case c.DataType == models.DataTypeString:
		fragment, err = stringCondition(column, c.Operator, c.Value)
	case c.DataType == models.DataTypeBoolean && c.Category.IsNested():
		fragment, err = booleanCondition(column, c.Operator)
	case c.DataType == models.DataTypeBoolean:
		var rewritten models.Condition
		if rewritten, err = outerBooleanAsString(c); err == nil {
			fragment, err = stringCondition(column, rewritten.Operator, rewritten.Value)
		}
	case c.DataType.IsNumeric():
		fragment, err = numberCondition(column, c.Operator, c.Value)
	default:
		err = fmt.Errorf("%w: unknown data type %q", ErrUnsupportedOperator, c.DataType)
	}

	if err != nil {
		return "", &ConditionError{Condition: c, Err: err}
	}
	return fragment, nil
}

// outerBooleanAsString rewrites a boolean test on an outer column. The event
// view stores outer booleans as the strings 'true' and 'false'.
func outerBooleanAsString(c models.Condition) (models.Condition, error) {
	rewritten := c
	rewritten.DataType = models.DataTypeString
	switch c.Operator {
	case models.OperatorTrue:
		rewritten.Operator = models.OperatorEqual
		rewritten.Value = models.ConditionValues{"true"}
	case models.OperatorFalse:
		rewritten.Operator = models.OperatorEqual
		rewritten.Value = models.ConditionValues{"false"}
	case models.OperatorNull, models.OperatorNotNull:
	default:
		return c, fmt.Errorf("%w: %q on boolean", ErrUnsupportedOperator, c.Operator)
	}
	return rewritten, nil
}

func stringCondition(column string, op models.Operator, values []string) (string, error) {
	switch op {
	case models.OperatorNull:
		return column + " is null", nil
	case models.OperatorNotNull:
		return column + " is not null", nil
	}

	if len(values) == 0 {
		return "", fmt.Errorf("%w: %q needs a value", ErrInvalidConditionValue, op)
	}

	switch op {
	case models.OperatorEqual, models.OperatorGreaterThan, models.OperatorGreaterThanOrEqual,
		models.OperatorLessThan, models.OperatorLessThanOrEqual:
		return fmt.Sprintf("%s %s %s", column, op, query.QuoteLiteral(values[0])), nil
	case models.OperatorNotEqual:
		return fmt.Sprintf("(%s is null or %s <> %s)", column, column, query.QuoteLiteral(values[0])), nil
	case models.OperatorIn:
		return fmt.Sprintf("%s in %s", column, query.LiteralList(values)), nil
	case models.OperatorNotIn:
		return fmt.Sprintf("(%s is null or %s not in %s)", column, column, query.LiteralList(values)), nil
	case models.OperatorContains:
		return fmt.Sprintf("%s like '%%%s%%'", column, likePattern(values[0])), nil
	case models.OperatorNotContains:
		return fmt.Sprintf("(%s is null or %s not like '%%%s%%')", column, column, likePattern(values[0])), nil
	default:
		return "", fmt.Errorf("%w: %q on string", ErrUnsupportedOperator, op)
	}
}

func likePattern(v string) string {
	return query.EscapeLike(query.EscapeLiteral(v))
}

func numberCondition(column string, op models.Operator, values []string) (string, error) {
	switch op {
	case models.OperatorNull:
		return column + " is null", nil
	case models.OperatorNotNull:
		return column + " is not null", nil
	}

	if len(values) == 0 {
		return "", fmt.Errorf("%w: %q needs a value", ErrInvalidConditionValue, op)
	}
	literals := make([]string, len(values))
	for i, v := range values {
		lit, err := numberLiteral(v)
		if err != nil {
			return "", err
		}
		literals[i] = lit
	}

	switch op {
	case models.OperatorEqual, models.OperatorGreaterThan, models.OperatorGreaterThanOrEqual,
		models.OperatorLessThan, models.OperatorLessThanOrEqual:
		return fmt.Sprintf("%s %s %s", column, op, literals[0]), nil
	case models.OperatorNotEqual:
		return fmt.Sprintf("(%s is null or %s <> %s)", column, column, literals[0]), nil
	case models.OperatorIn:
		return fmt.Sprintf("%s in (%s)", column, strings.Join(literals, ", ")), nil
	case models.OperatorNotIn:
		return fmt.Sprintf("(%s is null or %s not in (%s))", column, column, strings.Join(literals, ", ")), nil
	default:
		return "", fmt.Errorf("%w: %q on number", ErrUnsupportedOperator, op)
	}
}

var numberPattern = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)

// numberLiteral returns v unquoted after checking it is a plain decimal number.
func numberLiteral(v string) (string, error) {
	v = strings.TrimSpace(v)
	if !numberPattern.MatchString(v) {
		return "", fmt.Errorf("%w: %q is not a number", ErrInvalidConditionValue, v)
	}
	return v, nil
}

func booleanCondition(column string, op models.Operator) (string, error) {
	switch op {
	case models.OperatorTrue:
		return column + " = TRUE", nil
	case models.OperatorFalse:
		return fmt.Sprintf("(%s is null or %s = FALSE)", column, column), nil
	case models.OperatorNull:
		return column + " is null", nil
	case models.OperatorNotNull:
		return column + " is not null", nil
	default:
		return "", fmt.Errorf("%w: %q on boolean", ErrUnsupportedOperator, op)
	}
}

// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package schema

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/tomtom215/scoreboard/internal/validation"
)

// Issue describes one field-level contract violation.
type Issue struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Expected   string `json:"expected"`
	Received   string `json:"received"`
	Message    string `json:"message"`
}

// RowFailure lists every issue found in the row at Index.
type RowFailure struct {
	Index  int     `json:"index"`
	Issues []Issue `json:"issues"`
}

// ValidationFailure reports every row of a result set that broke its schema.
type ValidationFailure struct {
	Schema    string       `json:"schema"`
	TotalRows int          `json:"total_rows"`
	Rows      []RowFailure `json:"rows"`
}

// Error implements error.
func (f *ValidationFailure) Error() string {
	indexes := make([]string, len(f.Rows))
	for i, r := range f.Rows {
		indexes[i] = fmt.Sprint(r.Index)
	}
	return fmt.Sprintf("schema %s: %d of %d rows invalid (rows %s)",
		f.Schema, len(f.Rows), f.TotalRows, strings.Join(indexes, ", "))
}

// Outcome is the result of validating a result set: either Rows (possibly
// empty) or Failure, never both.
type Outcome struct {
	Rows    []Row
	Failure *ValidationFailure
}

// Empty reports a successful outcome with zero rows.
func (o Outcome) Empty() bool {
	return o.Failure == nil && len(o.Rows) == 0
}

// Validate coerces every raw row against s. It has no side effects.
//
// On success the returned rows preserve the order and count of raw. If any
// row fails, no rows are returned and the failure lists all failing rows.
func Validate(s RowSchema, raw []RawRow) Outcome {
	idx := s.index()
	rows := make([]Row, 0, len(raw))
	var failures []RowFailure

	for i, rr := range raw {
		row, issues := validateRow(s, idx, rr)
		if len(issues) > 0 {
			failures = append(failures, RowFailure{Index: i, Issues: issues})
			continue
		}
		if failures == nil {
			rows = append(rows, row)
		}
	}

	if len(failures) > 0 {
		return Outcome{Failure: &ValidationFailure{Schema: s.Name, TotalRows: len(raw), Rows: failures}}
	}
	return Outcome{Rows: rows}
}

// validateRow checks one row and returns its coerced values in schema order.
func validateRow(s RowSchema, idx map[string]int, rr RawRow) (Row, []Issue) {
	var issues []Issue

	if len(rr.Columns) != len(rr.Values) {
		return Row{}, []Issue{{
			Constraint: ConstraintShape,
			Expected:   fmt.Sprintf("%d values", len(rr.Columns)),
			Received:   fmt.Sprintf("%d values", len(rr.Values)),
			Message:    "column and value counts differ",
		}}
	}

	values := make([]any, len(s.Fields))
	present := make([]bool, len(s.Fields))

	for c, name := range rr.Columns {
		pos, known := idx[name]
		if !known {
			issues = append(issues, Issue{
				Field:      name,
				Constraint: ConstraintUnknown,
				Expected:   "no such field",
				Received:   describe(rr.Values[c]),
				Message:    fmt.Sprintf("column %q is not declared by schema %s", name, s.Name),
			})
			continue
		}
		if present[pos] {
			issues = append(issues, Issue{
				Field:      name,
				Constraint: ConstraintDuplicate,
				Expected:   "one value",
				Received:   "multiple values",
				Message:    fmt.Sprintf("column %q appears more than once", name),
			})
			continue
		}
		present[pos] = true

		f := s.Fields[pos]
		v, issue := validateValue(f, rr.Values[c])
		if issue != nil {
			issues = append(issues, *issue)
			continue
		}
		values[pos] = v
	}

	for pos, f := range s.Fields {
		if !present[pos] {
			issues = append(issues, Issue{
				Field:      f.Name,
				Constraint: ConstraintMissing,
				Expected:   expected(f),
				Received:   "absent",
				Message:    fmt.Sprintf("field %q is missing", f.Name),
			})
		}
	}

	if len(issues) > 0 {
		return Row{}, issues
	}
	return Row{fields: s.Fields, values: values}, nil
}

// validateValue coerces v for f, then applies f.Rules.
func validateValue(f Field, v any) (any, *Issue) {
	if isNull(v) {
		if f.Nullable {
			return nil, nil
		}
		return nil, &Issue{
			Field:      f.Name,
			Constraint: ConstraintNotNull,
			Expected:   expected(f),
			Received:   "null",
			Message:    fmt.Sprintf("field %q must not be null", f.Name),
		}
	}

	coerced, cerr := coerce(f.Type, v)
	if cerr != nil {
		return nil, &Issue{
			Field:      f.Name,
			Constraint: cerr.constraint,
			Expected:   expected(f),
			Received:   describe(v),
			Message:    fmt.Sprintf("field %q: %s", f.Name, cerr.message),
		}
	}

	if f.Rules != "" {
		if verr := validation.ValidateVar(coerced, f.Name, f.Rules); verr != nil {
			return nil, &Issue{
				Field:      f.Name,
				Constraint: rulePrefix + f.Rules,
				Expected:   f.Rules,
				Received:   fmt.Sprint(coerced),
				Message:    verr.Error(),
			}
		}
	}
	return coerced, nil
}

// isNull treats nil and invalid pgtype wrappers (whose driver value is nil)
// as SQL NULL.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	if valuer, ok := v.(driver.Valuer); ok {
		dv, err := valuer.Value()
		return err == nil && dv == nil
	}
	return false
}

func expected(f Field) string {
	if f.Nullable {
		return string(f.Type) + " or null"
	}
	return string(f.Type)
}

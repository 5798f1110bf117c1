// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

// Package schema describes the shape every result row must have before it
// reaches a client, and checks raw executor rows against that shape.
//
// Validation is all-or-nothing: Validate either returns every row coerced to
// its declared types, in input order, or a ValidationFailure listing every
// row that broke the contract together with each field issue.
//
//	outcome := schema.Validate(schema.TopPlayer, raw)
//	switch {
//	case outcome.Failure != nil: // drift between stored data and the contract
//	case outcome.Empty():        // valid, nothing matched
//	default:                     // outcome.Rows
//	}
package schema

import (
	"fmt"

	"github.com/tomtom215/scoreboard/internal/validation"
)

// FieldType is a primitive column type.
type FieldType string

// Supported field types.
const (
	TypeText      FieldType = "text"
	TypeInteger   FieldType = "integer"
	TypeBigint    FieldType = "bigint"
	TypeFloat     FieldType = "float"
	TypeBoolean   FieldType = "boolean"
	TypeDate      FieldType = "date"
	TypeTimestamp FieldType = "timestamp"
)

// Field declares one column of a row.
type Field struct {
	Name     string    `json:"name" validate:"required,max=63"`
	Type     FieldType `json:"type" validate:"oneof=text integer bigint float boolean date timestamp"`
	Nullable bool      `json:"nullable"`
	// Rules is an optional validator tag checked against the coerced value.
	Rules string `json:"rules,omitempty"`
}

// RowSchema is the named, ordered field set a row must match exactly.
type RowSchema struct {
	Name   string  `json:"name" validate:"required"`
	Fields []Field `json:"fields" validate:"required,min=1,dive"`
}

// Check reports declaration errors: missing names, unknown types, duplicate
// field names and unparseable rules.
func (s RowSchema) Check() error {
	if err := validation.ValidateStruct(&s); err != nil {
		return fmt.Errorf("schema %q: %w", s.Name, err)
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("schema %q: duplicate field %q", s.Name, f.Name)
		}
		seen[f.Name] = struct{}{}

		if f.Rules != "" && !validation.ValidTag(f.Rules) {
			return fmt.Errorf("schema %q: field %q has invalid rules %q", s.Name, f.Name, f.Rules)
		}
	}
	return nil
}

// index maps field names to their position in s.Fields.
func (s RowSchema) index() map[string]int {
	idx := make(map[string]int, len(s.Fields))
	for i, f := range s.Fields {
		idx[f.Name] = i
	}
	return idx
}

// RawRow is one untyped result row as produced by the executor. Columns and
// Values are parallel slices in result-set order.
type RawRow struct {
	Columns []string
	Values  []any
}

// NewRawRow builds a RawRow from alternating column names and values, which
// keeps test fixtures and fakes short:
//
//	schema.NewRawRow("name", "Alice", "total_score", int64(50))
func NewRawRow(pairs ...any) RawRow {
	row := RawRow{
		Columns: make([]string, 0, len(pairs)/2),
		Values:  make([]any, 0, len(pairs)/2),
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			name = fmt.Sprint(pairs[i])
		}
		row.Columns = append(row.Columns, name)
		row.Values = append(row.Values, pairs[i+1])
	}
	return row
}

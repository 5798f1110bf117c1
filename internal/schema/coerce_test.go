// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package schema

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestCoerce(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		typ        FieldType
		in         any
		want       any
		constraint string
	}{
		{name: "text", typ: TypeText, in: "Alice", want: "Alice"},
		{name: "text rejects bytes", typ: TypeText, in: []byte("Alice"), constraint: ConstraintType},
		{name: "text rejects int", typ: TypeText, in: 1, constraint: ConstraintType},

		{name: "int32 to integer", typ: TypeInteger, in: int32(7), want: int64(7)},
		{name: "uint8 to integer", typ: TypeInteger, in: uint8(7), want: int64(7)},
		{name: "uint64 overflow", typ: TypeInteger, in: uint64(math.MaxUint64), constraint: ConstraintRange},
		{name: "pgtype.Int4", typ: TypeInteger, in: pgtype.Int4{Int32: 9, Valid: true}, want: int64(9)},
		{name: "integer rejects numeric string", typ: TypeInteger, in: "50", constraint: ConstraintType},
		{name: "integer rejects numeric", typ: TypeInteger, in: pgtype.Numeric{Int: big.NewInt(5), Valid: true}, constraint: ConstraintType},

		{name: "int64 to bigint", typ: TypeBigint, in: int64(50), want: int64(50)},
		{name: "bigint rejects string", typ: TypeBigint, in: "0", constraint: ConstraintType},
		{name: "integral numeric", typ: TypeBigint, in: pgtype.Numeric{Int: big.NewInt(12), Exp: 1, Valid: true}, want: int64(120)},
		{name: "numeric with zero fraction", typ: TypeBigint, in: pgtype.Numeric{Int: big.NewInt(4500), Exp: -2, Valid: true}, want: int64(45)},
		{name: "fractional numeric", typ: TypeBigint, in: pgtype.Numeric{Int: big.NewInt(4501), Exp: -2, Valid: true}, constraint: ConstraintIntegral},
		{name: "numeric beyond int64", typ: TypeBigint, in: pgtype.Numeric{Int: big.NewInt(1), Exp: 30, Valid: true}, constraint: ConstraintRange},
		{name: "NaN numeric", typ: TypeBigint, in: pgtype.Numeric{NaN: true, Valid: true}, constraint: ConstraintFinite},

		{name: "float64", typ: TypeFloat, in: 1.25, want: 1.25},
		{name: "float32", typ: TypeFloat, in: float32(0.5), want: 0.5},
		{name: "numeric to float", typ: TypeFloat, in: pgtype.Numeric{Int: big.NewInt(125), Exp: -2, Valid: true}, want: 1.25},
		{name: "float NaN", typ: TypeFloat, in: math.NaN(), constraint: ConstraintFinite},
		{name: "float rejects int", typ: TypeFloat, in: 1, constraint: ConstraintType},

		{name: "bool", typ: TypeBoolean, in: true, want: true},
		{name: "bool rejects string", typ: TypeBoolean, in: "true", constraint: ConstraintType},

		{name: "time", typ: TypeDate, in: day, want: day},
		{name: "time normalized to UTC", typ: TypeTimestamp, in: day.In(time.FixedZone("X", 7200)), want: day},
		{name: "pgtype.Date", typ: TypeDate, in: pgtype.Date{Time: day, Valid: true}, want: day},
		{name: "infinite date", typ: TypeDate, in: pgtype.Date{InfinityModifier: pgtype.Infinity, Valid: true}, constraint: ConstraintFinite},
		{name: "date rejects string", typ: TypeDate, in: "2026-01-02", constraint: ConstraintType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := coerce(tt.typ, tt.in)
			if tt.constraint != "" {
				if err == nil {
					t.Fatalf("coerce(%s, %v) = %v, want %s error", tt.typ, tt.in, got, tt.constraint)
				}
				if err.constraint != tt.constraint {
					t.Errorf("constraint = %q, want %q (%s)", err.constraint, tt.constraint, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("coerce(%s, %v) error = %v", tt.typ, tt.in, err)
			}
			if gt, ok := got.(time.Time); ok {
				if !gt.Equal(tt.want.(time.Time)) || gt.Location() != time.UTC {
					t.Errorf("coerce = %v, want %v in UTC", gt, tt.want)
				}
				return
			}
			if got != tt.want {
				t.Errorf("coerce = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestIsNull(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"nil", nil, true},
		{"invalid Int8", pgtype.Int8{}, true},
		{"invalid Numeric", pgtype.Numeric{}, true},
		{"invalid Date", pgtype.Date{}, true},
		{"valid Int8", pgtype.Int8{Int64: 1, Valid: true}, false},
		{"zero int", 0, false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isNull(tt.in); got != tt.want {
				t.Errorf("isNull(%#v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

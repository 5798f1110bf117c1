// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package schema

import (
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Issue constraint names.
const (
	ConstraintType      = "type"
	ConstraintNotNull   = "not_null"
	ConstraintUnknown   = "unknown_field"
	ConstraintMissing   = "missing_field"
	ConstraintDuplicate = "duplicate_field"
	ConstraintShape     = "shape"
	ConstraintRange     = "range"
	ConstraintIntegral  = "integral"
	ConstraintFinite    = "finite"
	rulePrefix          = "rule:"
)

// coerceError is returned by coerce when a value cannot take the field's type.
type coerceError struct {
	constraint string
	message    string
}

func (e *coerceError) Error() string { return e.message }

func typeMismatch(t FieldType, v any) *coerceError {
	return &coerceError{
		constraint: ConstraintType,
		message:    fmt.Sprintf("expected %s, received %s", t, describe(v)),
	}
}

// describe names the dynamic type of v the way issues report it.
func describe(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}

// coerce converts a non-nil executor value to the canonical Go type for t:
// string, int64, float64, bool or time.Time (UTC). Textual values are never
// parsed into numbers or dates.
func coerce(t FieldType, v any) (any, *coerceError) {
	switch t {
	case TypeText:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, typeMismatch(t, v)

	case TypeInteger, TypeBigint:
		return coerceInt(t, v)

	case TypeFloat:
		return coerceFloat(t, v)

	case TypeBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, typeMismatch(t, v)

	case TypeDate, TypeTimestamp:
		return coerceTime(t, v)

	default:
		return nil, &coerceError{constraint: ConstraintType, message: fmt.Sprintf("unsupported field type %q", t)}
	}
}

func coerceInt(t FieldType, v any) (any, *coerceError) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return nil, outOfRange(t, v)
		}
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return nil, outOfRange(t, v)
		}
		return int64(n), nil
	case pgtype.Int8:
		if !n.Valid {
			return nil, nullValue()
		}
		return n.Int64, nil
	case pgtype.Int4:
		if !n.Valid {
			return nil, nullValue()
		}
		return int64(n.Int32), nil
	case pgtype.Numeric:
		// Aggregates over bigint columns come back as numeric.
		if t != TypeBigint {
			return nil, typeMismatch(t, v)
		}
		return numericToInt64(n)
	default:
		return nil, typeMismatch(t, v)
	}
}

func outOfRange(t FieldType, v any) *coerceError {
	return &coerceError{
		constraint: ConstraintRange,
		message:    fmt.Sprintf("value %v does not fit %s", v, t),
	}
}

func nullValue() *coerceError {
	return &coerceError{constraint: ConstraintNotNull, message: "value is null"}
}

var bigTen = big.NewInt(10)

// numericToInt64 accepts only finite integral values within int64.
func numericToInt64(n pgtype.Numeric) (int64, *coerceError) {
	if !n.Valid {
		return 0, nullValue()
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil {
		return 0, &coerceError{constraint: ConstraintFinite, message: "numeric value is not finite"}
	}

	i := new(big.Int).Set(n.Int)
	if n.Exp > 0 {
		i.Mul(i, new(big.Int).Exp(bigTen, big.NewInt(int64(n.Exp)), nil))
	} else if n.Exp < 0 {
		div := new(big.Int).Exp(bigTen, big.NewInt(int64(-n.Exp)), nil)
		var rem big.Int
		i.QuoRem(i, div, &rem)
		if rem.Sign() != 0 {
			return 0, &coerceError{constraint: ConstraintIntegral, message: "numeric value has a fractional part"}
		}
	}

	if !i.IsInt64() {
		return 0, &coerceError{constraint: ConstraintRange, message: fmt.Sprintf("value %s does not fit bigint", i.String())}
	}
	return i.Int64(), nil
}

func coerceFloat(t FieldType, v any) (any, *coerceError) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case pgtype.Numeric:
		if !n.Valid {
			return nil, nullValue()
		}
		f8, err := n.Float64Value()
		if err != nil {
			return nil, &coerceError{constraint: ConstraintType, message: err.Error()}
		}
		f = f8.Float64
	case pgtype.Float8:
		if !n.Valid {
			return nil, nullValue()
		}
		f = n.Float64
	default:
		return nil, typeMismatch(t, v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &coerceError{constraint: ConstraintFinite, message: fmt.Sprintf("float value %v is not finite", f)}
	}
	return f, nil
}

func coerceTime(t FieldType, v any) (any, *coerceError) {
	var (
		ts       time.Time
		valid    = true
		modifier = pgtype.Finite
	)

	switch n := v.(type) {
	case time.Time:
		ts = n
	case pgtype.Date:
		ts, valid, modifier = n.Time, n.Valid, n.InfinityModifier
	case pgtype.Timestamp:
		ts, valid, modifier = n.Time, n.Valid, n.InfinityModifier
	case pgtype.Timestamptz:
		ts, valid, modifier = n.Time, n.Valid, n.InfinityModifier
	default:
		return nil, typeMismatch(t, v)
	}

	if !valid {
		return nil, nullValue()
	}
	if modifier != pgtype.Finite {
		return nil, &coerceError{constraint: ConstraintFinite, message: fmt.Sprintf("%s value is %s", t, modifier)}
	}
	return ts.UTC(), nil
}

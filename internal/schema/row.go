// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package schema

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// TimeLayout is the wire format for date and timestamp fields: RFC 3339 in
// UTC with millisecond precision, e.g. 2026-01-02T00:00:00.000Z.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Row is a validated row. Values are held in schema field order and are
// never modified after Validate returns.
type Row struct {
	fields []Field
	values []any
}

// Len returns the number of fields.
func (r Row) Len() int {
	return len(r.values)
}

// Get returns the coerced value of the named field. Null values are (nil, true).
func (r Row) Get(name string) (any, bool) {
	for i, f := range r.fields {
		if f.Name == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// MarshalJSON writes the row as an object with keys in schema order. The
// output for a given row is always byte-identical.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(16 * len(r.values))
	buf.WriteByte('{')

	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		if err := encodeValue(&buf, f, r.values[i]); err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, f Field, v any) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}

	switch f.Type {
	case TypeBigint:
		// 64-bit aggregates are sent as decimal strings so clients without
		// 64-bit integers keep full precision.
		n, ok := v.(int64)
		if !ok {
			return fmt.Errorf("bigint holds %T", v)
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.FormatInt(n, 10))
		buf.WriteByte('"')
		return nil

	case TypeDate, TypeTimestamp:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("%s holds %T", f.Type, v)
		}
		buf.WriteByte('"')
		buf.WriteString(t.UTC().Format(TimeLayout))
		buf.WriteByte('"')
		return nil

	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

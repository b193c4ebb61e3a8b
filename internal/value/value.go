// Package value implements the fingerprinter (spec §4.1): a sealed, typed
// value model for one row's value-column tuple, a canonical encoding of
// that tuple, and the SHA-256 digest derived from it.
package value

import (
	"fmt"
	"time"
)

// Value is a sealed interface over the constrained set of scalar types a
// value column may hold. Only the types in this file implement it.
//
// Numerically equal values of different concrete types (Int(3) vs
// Float(3.0)) are distinct per spec §4.1 — the sealed interface plus a
// type tag in the canonical encoding (see canonical.go) is what
// guarantees that.
type Value interface {
	valueNode() // sealed marker
}

// Null represents an explicit absence of value. It is distinct from any
// concrete value, including the zero value of every other type.
type Null struct{}

func (Null) valueNode() {}

// Bool is a boolean value column.
type Bool bool

func (Bool) valueNode() {}

// Int is a 64-bit signed integer value column.
type Int int64

func (Int) valueNode() {}

// Float is a 64-bit floating point value column.
type Float float64

func (Float) valueNode() {}

// String is a UTF-8 string value column.
type String string

func (String) valueNode() {}

// Date is a calendar date at day precision (no time-of-day, no location).
// Stored as the truncated UTC midnight instant for comparison purposes.
type Date struct {
	t time.Time
}

func (Date) valueNode() {}

// NewDate constructs a Date, truncating any time-of-day component.
func NewDate(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Time returns the date as a UTC midnight time.Time.
func (d Date) Time() time.Time { return d.t }

// Timestamp is an instant at microsecond precision.
type Timestamp struct {
	t time.Time
}

func (Timestamp) valueNode() {}

// NewTimestamp constructs a Timestamp, truncating to microsecond precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t.UTC().Truncate(time.Microsecond)}
}

// Time returns the timestamp as a UTC time.Time.
func (ts Timestamp) Time() time.Time { return ts.t }

// Equal reports whether two Timestamps denote the same instant.
func (ts Timestamp) Equal(other Timestamp) bool { return ts.t.Equal(other.t) }

// Before reports whether ts denotes an instant strictly before other.
func (ts Timestamp) Before(other Timestamp) bool { return ts.t.Before(other.t) }

// After reports whether ts denotes an instant strictly after other.
func (ts Timestamp) After(other Timestamp) bool { return ts.t.After(other.t) }

// Equal reports whether two Dates denote the same calendar day.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Tuple is an ordered projection of a row onto its value columns, in the
// schema-declared column order. Order matters: fingerprint is sensitive to
// column order per spec §4.1.
type Tuple []Value

// typeTag returns the single-byte discriminator used by the canonical
// encoder to keep distinct types from colliding after encoding.
func typeTag(v Value) (byte, error) {
	switch v.(type) {
	case Null:
		return 'n', nil
	case Bool:
		return 'b', nil
	case Int:
		return 'i', nil
	case Float:
		return 'f', nil
	case String:
		return 's', nil
	case Date:
		return 'd', nil
	case Timestamp:
		return 't', nil
	default:
		return 0, fmt.Errorf("value: unsupported type %T", v)
	}
}

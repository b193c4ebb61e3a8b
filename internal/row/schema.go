package row

import (
	"fmt"

	"github.com/roach88/bitemporal/internal/value"
)

// ColumnType names the declared type of a value column, used by schema
// validation and by the CUE table-schema compiler (internal/config) to
// build the value.Value each column's cells get parsed into.
type ColumnType string

// Supported column types, one per value.Value implementation.
const (
	TypeNull      ColumnType = "null"
	TypeBool      ColumnType = "bool"
	TypeInt       ColumnType = "int"
	TypeFloat     ColumnType = "float"
	TypeString    ColumnType = "string"
	TypeDate      ColumnType = "date"
	TypeTimestamp ColumnType = "timestamp"
)

// Schema describes the fixed column layout shared by the current and
// updates batches (spec §6 "Input schema"): identity columns, value
// columns (with declared types, for fingerprint-input parsing), and the
// four temporal columns implied by every Row.
type Schema struct {
	// IDColumns is the ordered list of identity column names. Required,
	// non-empty (spec §6).
	IDColumns []string

	// ValueColumns is the ordered list of value column names. Required,
	// non-empty (spec §6).
	ValueColumns []string

	// ValueTypes gives the declared ColumnType for each entry of
	// ValueColumns, same length and order.
	ValueTypes []ColumnType

	// InfinityAliases optionally maps a caller-side "far future" sentinel
	// (e.g. a store using 9999-12-31 instead of EFF_INF) to the value on
	// the corresponding side. Supplements the boundary translation the
	// original Python processor performed (see SPEC_FULL.md). Nil means
	// no translation is needed.
	InfinityAliases *InfinityAliases
}

// InfinityAliases names the caller-side sentinel values that should be
// translated to/from EFFInf and ASOFInf at batch ingress/egress — e.g. a
// source system using 9999-12-31 where this package uses EFFInf.
type InfinityAliases struct {
	// EffectiveInfinity is the caller-side sentinel date equivalent to
	// EFFInf. A row carrying this value in EffectiveTo is translated to
	// EFFInf on ingest, and back on egress.
	EffectiveInfinity value.Date

	// AsOfInfinity is the caller-side sentinel timestamp equivalent to
	// ASOFInf.
	AsOfInfinity value.Timestamp
}

// Translate rewrites r's EffectiveTo/AsOfTo from the caller's infinity
// aliases to this package's EFFInf/ASOFInf sentinels, if a is non-nil.
// Inverse of TranslateBack; used at batch ingest (SPEC_FULL.md
// "Supplemented features").
func (a *InfinityAliases) Translate(r Row) Row {
	if a == nil {
		return r
	}
	if r.EffectiveTo.Equal(a.EffectiveInfinity) {
		r.EffectiveTo = EFFInf
	}
	if r.AsOfTo.Equal(a.AsOfInfinity) {
		r.AsOfTo = ASOFInf
	}
	return r
}

// TranslateBack rewrites r's EffectiveTo/AsOfTo from this package's
// EFFInf/ASOFInf sentinels back to the caller's infinity aliases, if a
// is non-nil. Used when emitting a change set back to the caller.
func (a *InfinityAliases) TranslateBack(r Row) Row {
	if a == nil {
		return r
	}
	if r.EffectiveTo.Equal(EFFInf) {
		r.EffectiveTo = a.EffectiveInfinity
	}
	if r.AsOfTo.Equal(ASOFInf) {
		r.AsOfTo = a.AsOfInfinity
	}
	return r
}

// ValueIndex returns the position of name within ValueColumns, or -1.
func (s Schema) ValueIndex(name string) int {
	for i, c := range s.ValueColumns {
		if c == name {
			return i
		}
	}
	return -1
}

// Validate checks the structural requirements of spec §6: non-empty
// identity and value column lists, and that ValueTypes is aligned with
// ValueColumns. This is the schema-shape check; the row-level interval
// ordering is checked per-row by ValidateRow. Precision is checked by
// neither: value.NewDate and value.NewTimestamp truncate finer input.
func (s Schema) Validate() error {
	if len(s.IDColumns) == 0 {
		return fmt.Errorf("schema: id_columns must be non-empty")
	}
	if len(s.ValueColumns) == 0 {
		return fmt.Errorf("schema: value_columns must be non-empty")
	}
	if len(s.ValueTypes) != len(s.ValueColumns) {
		return fmt.Errorf("schema: value_types length (%d) must match value_columns length (%d)",
			len(s.ValueTypes), len(s.ValueColumns))
	}
	seen := make(map[string]bool, len(s.IDColumns)+len(s.ValueColumns))
	for _, c := range s.IDColumns {
		if seen[c] {
			return fmt.Errorf("schema: duplicate column %q", c)
		}
		seen[c] = true
	}
	for _, c := range s.ValueColumns {
		if seen[c] {
			return fmt.Errorf("schema: duplicate column %q", c)
		}
		seen[c] = true
	}
	return nil
}

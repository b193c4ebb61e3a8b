package config

import (
	"fmt"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/bitemporal/internal/row"
	"github.com/roach88/bitemporal/internal/value"
)

// tableSchemaConstraint is the CUE shape a table schema definition must
// satisfy. Compiled once and unified against every loaded document,
// the way the teacher's CUE loader unifies concept/sync definitions
// against their field schemas (internal/cli/loader.go).
const tableSchemaConstraint = `
id_columns: [...string] & [_, ...]
value_columns: [...string] & [_, ...]
value_types: [...string] & [_, ...]
effective_infinity?: string
as_of_infinity?: string
`

// CompileTableSchema compiles a CUE document describing id_columns,
// value_columns, and value_types into a row.Schema. Errors are
// reported as ValidationError so callers can surface them uniformly
// with the rest of the config package (spec §6 "Configuration
// options").
func CompileTableSchema(src []byte, filename string) (row.Schema, []ValidationError) {
	ctx := cuecontext.New()

	constraint := ctx.CompileString(tableSchemaConstraint)
	if err := constraint.Err(); err != nil {
		return row.Schema{}, []ValidationError{{
			Code:    ErrCodeSchemaLoadFailed,
			Field:   "schema",
			Message: fmt.Sprintf("internal schema constraint failed to compile: %v", err),
		}}
	}

	doc := ctx.CompileBytes(src, cue.Filename(filename))
	if err := doc.Err(); err != nil {
		return row.Schema{}, []ValidationError{{
			Code:    ErrCodeSchemaLoadFailed,
			Field:   "schema",
			Message: fmt.Sprintf("loading %s: %v", filename, err),
		}}
	}

	unified := doc.Unify(constraint)
	if err := unified.Err(); err != nil {
		return row.Schema{}, []ValidationError{{
			Code:    ErrCodeSchemaLoadFailed,
			Field:   "schema",
			Message: fmt.Sprintf("%s does not satisfy the table schema shape: %v", filename, err),
		}}
	}

	var idColumns, valueColumns, valueTypeNames []string
	if err := unified.LookupPath(cue.ParsePath("id_columns")).Decode(&idColumns); err != nil {
		return row.Schema{}, []ValidationError{{Code: ErrCodeSchemaLoadFailed, Field: "id_columns", Message: err.Error()}}
	}
	if err := unified.LookupPath(cue.ParsePath("value_columns")).Decode(&valueColumns); err != nil {
		return row.Schema{}, []ValidationError{{Code: ErrCodeSchemaLoadFailed, Field: "value_columns", Message: err.Error()}}
	}
	if err := unified.LookupPath(cue.ParsePath("value_types")).Decode(&valueTypeNames); err != nil {
		return row.Schema{}, []ValidationError{{Code: ErrCodeSchemaLoadFailed, Field: "value_types", Message: err.Error()}}
	}

	valueTypes := make([]row.ColumnType, len(valueTypeNames))
	var errs []ValidationError
	for i, name := range valueTypeNames {
		ct, ok := parseColumnType(name)
		if !ok {
			errs = append(errs, ValidationError{
				Code:    ErrCodeUnknownColumnType,
				Field:   fmt.Sprintf("value_types[%d]", i),
				Message: fmt.Sprintf("unrecognized column type %q", name),
			})
			continue
		}
		valueTypes[i] = ct
	}
	if len(errs) > 0 {
		return row.Schema{}, errs
	}

	aliases, err := parseInfinityAliases(unified)
	if err != nil {
		return row.Schema{}, []ValidationError{{Code: ErrCodeSchemaLoadFailed, Field: "effective_infinity/as_of_infinity", Message: err.Error()}}
	}

	schema := row.Schema{
		IDColumns:       idColumns,
		ValueColumns:    valueColumns,
		ValueTypes:      valueTypes,
		InfinityAliases: aliases,
	}
	if errs := ValidateSchema(schema); len(errs) > 0 {
		return row.Schema{}, errs
	}
	return schema, nil
}

// parseInfinityAliases reads the optional effective_infinity/
// as_of_infinity fields (a caller-side "far future" sentinel, e.g. a
// source system's 9999-12-31, mapped to this package's EFFInf/ASOFInf
// at batch ingress/egress). Both fields are optional and independent;
// either, both, or neither may be set.
func parseInfinityAliases(doc cue.Value) (*row.InfinityAliases, error) {
	effPath := doc.LookupPath(cue.ParsePath("effective_infinity"))
	asOfPath := doc.LookupPath(cue.ParsePath("as_of_infinity"))
	if !effPath.Exists() && !asOfPath.Exists() {
		return nil, nil
	}

	aliases := &row.InfinityAliases{
		EffectiveInfinity: row.EFFInf,
		AsOfInfinity:      row.ASOFInf,
	}

	if effPath.Exists() {
		var s string
		if err := effPath.Decode(&s); err != nil {
			return nil, fmt.Errorf("effective_infinity: %w", err)
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("effective_infinity: parse date %q: %w", s, err)
		}
		aliases.EffectiveInfinity = value.NewDate(t)
	}

	if asOfPath.Exists() {
		var s string
		if err := asOfPath.Decode(&s); err != nil {
			return nil, fmt.Errorf("as_of_infinity: %w", err)
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("as_of_infinity: parse timestamp %q: %w", s, err)
		}
		aliases.AsOfInfinity = value.NewTimestamp(t)
	}

	return aliases, nil
}

func parseColumnType(name string) (row.ColumnType, bool) {
	switch row.ColumnType(name) {
	case row.TypeNull, row.TypeBool, row.TypeInt, row.TypeFloat, row.TypeString, row.TypeDate, row.TypeTimestamp:
		return row.ColumnType(name), true
	default:
		return "", false
	}
}

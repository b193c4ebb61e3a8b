package config

import (
	"fmt"

	"github.com/roach88/bitemporal/internal/row"
)

// ValidateSchema checks the structural requirements of spec §6 (non-
// empty id/value columns, aligned value_types, no duplicate names) and
// reports them as the package's E1xx ValidationError, rather than
// row.Schema.Validate's plain error — this is the boundary-facing form
// CLI and config callers consume.
func ValidateSchema(schema row.Schema) []ValidationError {
	var errs []ValidationError

	if len(schema.IDColumns) == 0 {
		errs = append(errs, ValidationError{Code: ErrCodeEmptyIDColumns, Field: "id_columns", Message: "id_columns must be non-empty"})
	}
	if len(schema.ValueColumns) == 0 {
		errs = append(errs, ValidationError{Code: ErrCodeEmptyValueColumns, Field: "value_columns", Message: "value_columns must be non-empty"})
	}
	if len(schema.ValueTypes) != len(schema.ValueColumns) {
		errs = append(errs, ValidationError{
			Code:    ErrCodeTypeCountMismatch,
			Field:   "value_types",
			Message: fmt.Sprintf("value_types has %d entries, value_columns has %d", len(schema.ValueTypes), len(schema.ValueColumns)),
		})
	}

	seen := make(map[string]bool, len(schema.IDColumns)+len(schema.ValueColumns))
	for _, c := range append(append([]string{}, schema.IDColumns...), schema.ValueColumns...) {
		if seen[c] {
			errs = append(errs, ValidationError{Code: ErrCodeDuplicateColumn, Field: "columns", Message: fmt.Sprintf("duplicate column %q", c)})
		}
		seen[c] = true
	}

	return errs
}

// ValidateBatchSchema checks a batch's declared schema (spec §6 errors
// "at the boundary" checked "before reconciliation starts"). It is the
// standalone schema-shape check supplementing the original processor's
// validate_schema method: callers that only have a schema, not yet a
// full batch, can validate early.
func ValidateBatchSchema(schema row.Schema) []ValidationError {
	return ValidateSchema(schema)
}

// ValidateBatch validates schema shape plus every row's temporal
// invariants (spec §3, §7), accumulating all errors rather than
// failing fast, in the teacher's Validate() style
// (internal/compiler/validate.go).
func ValidateBatch(b row.Batch) []ValidationError {
	errs := ValidateSchema(b.Schema)
	if len(errs) > 0 {
		return errs
	}

	for i, r := range b.Rows {
		if len(r.Identity) != len(b.Schema.IDColumns) || len(r.Values) != len(b.Schema.ValueColumns) {
			errs = append(errs, ValidationError{
				Code:    ErrCodeTypeCountMismatch,
				Field:   fmt.Sprintf("rows[%d]", i),
				Message: "row column counts do not match schema",
			})
			continue
		}
		if !r.EffectiveFrom.Before(r.EffectiveTo) {
			errs = append(errs, ValidationError{
				Code:    ErrCodeInvertedInterval,
				Field:   fmt.Sprintf("rows[%d].effective_to", i),
				Message: "effective_from must be before effective_to",
			})
		}
		if !r.AsOfFrom.Before(r.AsOfTo) {
			errs = append(errs, ValidationError{
				Code:    ErrCodeInvertedInterval,
				Field:   fmt.Sprintf("rows[%d].as_of_to", i),
				Message: "as_of_from must be before as_of_to",
			})
		}
	}
	return errs
}

package row

import "fmt"

// ValidateRow checks the per-row invariants of spec §3: the effective
// interval and as_of interval must each be non-empty and correctly
// ordered. Schema-shape checks (column names/types) live on Schema;
// E-coded reporting for a whole batch lives in internal/config.
func ValidateRow(r Row) error {
	if !r.EffectiveFrom.Before(r.EffectiveTo) {
		return fmt.Errorf("row: effective_from (%s) must be before effective_to (%s)",
			r.EffectiveFrom.Time().Format("2006-01-02"), r.EffectiveTo.Time().Format("2006-01-02"))
	}
	if !r.AsOfFrom.Before(r.AsOfTo) {
		return fmt.Errorf("row: as_of_from (%s) must be before as_of_to (%s)",
			r.AsOfFrom.Time().Format("2006-01-02T15:04:05.000000"), r.AsOfTo.Time().Format("2006-01-02T15:04:05.000000"))
	}
	return nil
}

// ValidateIdentity checks that r.Identity and r.Values are both
// populated and match the lengths declared by s. Column-level type
// checking happens during parsing, before a Row exists.
func ValidateIdentity(s Schema, r Row) error {
	if len(r.Identity) != len(s.IDColumns) {
		return fmt.Errorf("row: identity has %d values, schema declares %d id columns",
			len(r.Identity), len(s.IDColumns))
	}
	if len(r.Values) != len(s.ValueColumns) {
		return fmt.Errorf("row: values has %d entries, schema declares %d value columns",
			len(r.Values), len(s.ValueColumns))
	}
	return nil
}

package row

import (
	"fmt"

	"github.com/roach88/bitemporal/internal/value"
)

func fingerprintOf(r Row) (string, error) {
	return value.Fingerprint(r.Values)
}

// Batch pairs a Schema with the Rows it describes — the unit exchanged
// at every external boundary of spec §6 (current batch, updates batch,
// the to_expire/to_insert change set).
type Batch struct {
	Schema Schema
	Rows   []Row
}

// Validate checks the batch's schema shape and every row's invariants
// (spec §3, §6). Returns the first error encountered, row index
// included for diagnostics.
func (b Batch) Validate() error {
	if err := b.Schema.Validate(); err != nil {
		return err
	}
	for i, r := range b.Rows {
		if err := ValidateIdentity(b.Schema, r); err != nil {
			return fmt.Errorf("batch: row %d: %w", i, err)
		}
		if err := ValidateRow(r); err != nil {
			return fmt.Errorf("batch: row %d: %w", i, err)
		}
	}
	return nil
}

// WithFingerprints returns a copy of b with every row's Fingerprint
// computed from its Values (spec §4.3.1 "Prepare").
func (b Batch) WithFingerprints() (Batch, error) {
	out := Batch{Schema: b.Schema, Rows: make([]Row, len(b.Rows))}
	for i, r := range b.Rows {
		fp, err := fingerprintOf(r)
		if err != nil {
			return Batch{}, fmt.Errorf("batch: row %d: %w", i, err)
		}
		out.Rows[i] = r.WithFingerprint(fp)
	}
	return out, nil
}

package writeplan

import "github.com/roach88/bitemporal/internal/row"

// WriteOp represents one write a backend must apply to bring a table's
// stored rows in line with a reconciliation run's output.
//
// This is a sealed interface - only types in this package implement it.
type WriteOp interface {
	writeOp() // Marker method - seals interface to this package
}

// ExpireOp closes out an existing row's as_of interval: the backend
// must update the row matching Identity/EffectiveFrom/EffectiveTo/
// AsOfFrom (the live row's natural key) so its as_of_to becomes
// Row.AsOfTo.
type ExpireOp struct {
	Row row.Row
}

func (ExpireOp) writeOp() {}

// InsertOp appends a new row version. The backend must insert Row
// as-is; it never already exists (spec §4.3.4 - every inserted row is
// either a split remainder, an applied update, or a tombstone, none of
// which can collide with a live row's natural key).
type InsertOp struct {
	Row row.Row
}

func (InsertOp) writeOp() {}

// Plan converts an assembled change set into the ordered operations a
// backend applies: every expiration first, then every insertion, each
// group preserving the change set's original row order so deterministic
// backends (internal/sqlwriter) produce deterministic statement
// sequences.
func Plan(schema row.Schema, toExpire, toInsert []row.Row) []WriteOp {
	ops := make([]WriteOp, 0, len(toExpire)+len(toInsert))
	for _, r := range toExpire {
		ops = append(ops, ExpireOp{Row: r})
	}
	for _, r := range toInsert {
		ops = append(ops, InsertOp{Row: r})
	}
	return ops
}

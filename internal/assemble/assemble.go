// Package assemble implements the batch assembler (spec §4.6):
// concatenates per-group expirations into one output batch and
// per-group, post-conflation insertions into another, preserving the
// input schema. Row order within each output batch is unspecified.
package assemble

import (
	"github.com/roach88/bitemporal/internal/conflate"
	"github.com/roach88/bitemporal/internal/reconcile"
	"github.com/roach88/bitemporal/internal/row"
)

// ChangeSet is the final output of a reconciliation run: the rows to
// expire and the rows to insert (spec §6 "Output schemas").
type ChangeSet struct {
	Schema   row.Schema
	ToExpire []row.Row
	ToInsert []row.Row
}

// Assemble concatenates one ChangeSet per group into the final output,
// conflating each group's inserts first (spec §4.4, run as the last
// step before assembly so the reconciler itself stays local per
// group).
func Assemble(schema row.Schema, perGroup []reconcile.ChangeSet) ChangeSet {
	var toExpire, toInsert []row.Row
	for _, cs := range perGroup {
		toExpire = append(toExpire, cs.ToExpire...)
		toInsert = append(toInsert, conflate.Conflate(cs.ToInsert)...)
	}
	return ChangeSet{Schema: schema, ToExpire: toExpire, ToInsert: toInsert}
}

// Package conflate implements the post-reconciliation merge pass (spec
// §4.4): adjacent inserts within one identity group that share a value
// fingerprint, touch at the effective-time boundary, and share
// as_of_from are folded into a single wider segment.
package conflate

import (
	"sort"

	"github.com/roach88/bitemporal/internal/row"
)

// Conflate merges adjacent inserts sharing fingerprint, effective-time
// boundary, and as_of_from. Input order is not significant; output is
// sorted by effective_from. Idempotent: conflating an already-conflated
// slice returns it unchanged (spec §8 property 4).
func Conflate(inserts []row.Row) []row.Row {
	if len(inserts) == 0 {
		return nil
	}

	sorted := make([]row.Row, len(inserts))
	copy(sorted, inserts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveFrom.Before(sorted[j].EffectiveFrom)
	})

	out := make([]row.Row, 0, len(sorted))
	acc := sorted[0]
	for _, next := range sorted[1:] {
		if acc.Fingerprint == next.Fingerprint &&
			acc.EffectiveTo.Equal(next.EffectiveFrom) &&
			acc.AsOfFrom.Equal(next.AsOfFrom) {
			acc.EffectiveTo = next.EffectiveTo
			continue
		}
		out = append(out, acc)
		acc = next
	}
	out = append(out, acc)
	return out
}

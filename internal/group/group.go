// Package group partitions a pair of row batches into per-identity
// groups, the unit of independent reconciliation work (spec §4.2, §5).
// The key-extraction idiom here is adapted from the teacher's flow-token
// scoping (engine/scope.go): there, records are partitioned by a scope
// key extracted from bindings; here, rows are partitioned by their
// identity tuple.
package group

import (
	"fmt"
	"sort"

	"github.com/roach88/bitemporal/internal/row"
	"github.com/roach88/bitemporal/internal/value"
)

// Group is the current and update rows sharing one identity tuple.
// Reconciliation (internal/reconcile) processes one Group at a time;
// groups are independent of each other by construction (spec §4.2
// "groups never share identity, so they can be reconciled in any
// order, including concurrently").
type Group struct {
	Key     string
	Identity value.Tuple
	Current []row.Row
	Updates []row.Row
}

// Partition groups current and updates by identity tuple. Group order
// is deterministic: ascending by Key, so callers that process groups
// serially get reproducible output (spec §5 "ordering is preserved
// regardless of whether dispatch is serial or parallel").
func Partition(current, updates []row.Row) ([]Group, error) {
	index := make(map[string]*Group)
	order := make([]string, 0)

	add := func(r row.Row, toUpdates bool) error {
		key, err := value.Fingerprint(r.Identity)
		if err != nil {
			return fmt.Errorf("group: fingerprinting identity: %w", err)
		}
		g, ok := index[key]
		if !ok {
			g = &Group{Key: key, Identity: r.Identity}
			index[key] = g
			order = append(order, key)
		}
		if toUpdates {
			g.Updates = append(g.Updates, r)
		} else {
			g.Current = append(g.Current, r)
		}
		return nil
	}

	for _, r := range current {
		if err := add(r, false); err != nil {
			return nil, err
		}
	}
	for _, r := range updates {
		if err := add(r, true); err != nil {
			return nil, err
		}
	}

	sort.Strings(order)
	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, *index[key])
	}
	return groups, nil
}

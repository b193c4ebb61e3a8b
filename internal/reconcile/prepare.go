package reconcile

import (
	"sort"

	"github.com/roach88/bitemporal/internal/group"
	"github.com/roach88/bitemporal/internal/row"
	"github.com/roach88/bitemporal/internal/value"
)

// prepared is the per-group state after shared preparation (spec
// §4.3.1): the live projection of current, sorted by effective_from and
// fingerprinted, and the update rows in original batch order,
// fingerprinted.
type prepared struct {
	groupKey string
	live     []row.Row
	updates  []row.Row
}

// prepare runs spec §4.3.1 against one identity group: filters current
// to the live projection, sorts it by effective_from, fingerprints
// every current and update row, and checks the no-overlap invariant.
func prepare(g group.Group) (prepared, error) {
	live := make([]row.Row, 0, len(g.Current))
	for _, r := range g.Current {
		if !r.IsLive() {
			continue
		}
		fp, err := value.Fingerprint(r.Values)
		if err != nil {
			return prepared{}, err
		}
		live = append(live, r.WithFingerprint(fp))
	}
	sort.SliceStable(live, func(i, j int) bool {
		return live[i].EffectiveFrom.Before(live[j].EffectiveFrom)
	})

	if err := checkNoOverlap(g.Key, live); err != nil {
		return prepared{}, err
	}

	updates := make([]row.Row, len(g.Updates))
	for i, r := range g.Updates {
		fp, err := value.Fingerprint(r.Values)
		if err != nil {
			return prepared{}, err
		}
		updates[i] = r.WithFingerprint(fp)
	}

	return prepared{groupKey: g.Key, live: live, updates: updates}, nil
}

// checkNoOverlap verifies the invariant that live segments within a
// group never overlap in effective time (spec §3, §7). live must
// already be sorted by EffectiveFrom.
func checkNoOverlap(groupKey string, live []row.Row) error {
	for i := 1; i < len(live); i++ {
		prev, cur := live[i-1], live[i]
		if prev.EffectiveTo.After(cur.EffectiveFrom) {
			return newOverlapError(groupKey,
				prev.EffectiveFrom.Time().Format("2006-01-02"),
				cur.EffectiveFrom.Time().Format("2006-01-02"))
		}
	}
	return nil
}

package reconcile

import (
	"sort"

	"github.com/roach88/bitemporal/internal/row"
	"github.com/roach88/bitemporal/internal/value"
)

// reconcileDelta implements spec §4.3.2: updates describe changes to
// the live timeline, overwriting any overlapping portion of previously
// live current segments.
func reconcileDelta(p prepared, systemTime value.Timestamp) (ChangeSet, error) {
	resolved := resolveUpdateConflicts(p.updates)

	var toExpire, toInsert []row.Row

	for _, c := range p.live {
		var covered []interval
		for _, u := range resolved {
			if c.OverlapsEffective(u.EffectiveFrom, u.EffectiveTo) {
				covered = append(covered, interval{from: u.EffectiveFrom, to: u.EffectiveTo})
			}
		}
		if len(covered) == 0 {
			continue // untouched (spec §4.3.2 step 5)
		}

		toExpire = append(toExpire, c.Expired(systemTime))

		for _, rem := range subtract(c.EffectiveFrom, c.EffectiveTo, covered) {
			toInsert = append(toInsert, row.Row{
				Identity:      c.Identity,
				Values:        c.Values,
				Fingerprint:   c.Fingerprint,
				EffectiveFrom: rem.from,
				EffectiveTo:   rem.to,
				AsOfFrom:      systemTime,
				AsOfTo:        row.ASOFInf,
			})
		}
	}

	for _, u := range resolved {
		toInsert = append(toInsert, row.Row{
			Identity:      u.Identity,
			Values:        u.Values,
			Fingerprint:   u.Fingerprint,
			EffectiveFrom: u.EffectiveFrom,
			EffectiveTo:   u.EffectiveTo,
			AsOfFrom:      systemTime,
			AsOfTo:        row.ASOFInf,
		})
	}

	return ChangeSet{ToExpire: toExpire, ToInsert: toInsert}, nil
}

// resolveUpdateConflicts applies the conflict-resolution rule of spec
// §4.3.2: "if two updates overlap in effective time within the same
// batch, the later one in input order supersedes the earlier over the
// intersection." updates is assumed to already be in original batch
// order (group.Partition preserves it). Processing in that order and
// clipping earlier accumulated segments against each new one yields
// exactly that precedence.
func resolveUpdateConflicts(updates []row.Row) []row.Row {
	var acc []row.Row

	for _, u := range updates {
		next := acc[:0:0]
		for _, s := range acc {
			if !s.OverlapsEffective(u.EffectiveFrom, u.EffectiveTo) {
				next = append(next, s)
				continue
			}
			if s.EffectiveFrom.Before(u.EffectiveFrom) {
				left := s
				left.EffectiveTo = u.EffectiveFrom
				next = append(next, left)
			}
			if s.EffectiveTo.After(u.EffectiveTo) {
				right := s
				right.EffectiveFrom = u.EffectiveTo
				next = append(next, right)
			}
		}
		acc = append(next, u)
	}

	sort.SliceStable(acc, func(i, j int) bool {
		return acc[i].EffectiveFrom.Before(acc[j].EffectiveFrom)
	})
	return acc
}

package reconcile

import (
	"github.com/roach88/bitemporal/internal/row"
	"github.com/roach88/bitemporal/internal/value"
)

// reconcileFullState implements spec §4.3.3: updates describe the
// complete desired live projection for this identity; the reconciler
// emits the minimal diff, tombstoning segments whose identity
// disappears entirely.
func reconcileFullState(p prepared, systemTime value.Timestamp) (ChangeSet, error) {
	systemDate := value.NewDate(systemTime.Time())
	consumed := make([]bool, len(p.updates))

	var toExpire, toInsert []row.Row

	for _, c := range p.live {
		matched := -1
		for i, u := range p.updates {
			if consumed[i] {
				continue
			}
			if c.EffectiveFrom.Equal(u.EffectiveFrom) &&
				c.EffectiveTo.Equal(u.EffectiveTo) &&
				c.Fingerprint == u.Fingerprint {
				matched = i
				break
			}
		}
		if matched >= 0 {
			consumed[matched] = true
			continue // spec §4.3.3 step 2: exact match, do nothing
		}

		toExpire = append(toExpire, c.Expired(systemTime))

		// Tombstone only when this identity appears nowhere in the
		// updates for this group (spec §4.3.3 step 3, "Note on the
		// tombstone rule"). Partitioning groups by identity means that
		// condition is equivalent to the group's update list being
		// entirely empty.
		if len(p.updates) == 0 && c.EffectiveFrom.Before(systemDate) {
			toInsert = append(toInsert, row.Row{
				Identity:      c.Identity,
				Values:        c.Values,
				Fingerprint:   c.Fingerprint,
				EffectiveFrom: c.EffectiveFrom,
				EffectiveTo:   systemDate,
				AsOfFrom:      systemTime,
				AsOfTo:        row.ASOFInf,
			})
		}
	}

	for i, u := range p.updates {
		if consumed[i] {
			continue
		}
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

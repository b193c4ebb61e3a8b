package reconcile

import (
	"github.com/roach88/bitemporal/internal/group"
	"github.com/roach88/bitemporal/internal/row"
	"github.com/roach88/bitemporal/internal/value"
)

// Mode selects the reconciler branch (spec §6 "mode").
type Mode string

const (
	ModeDelta     Mode = "delta"
	ModeFullState Mode = "full_state"
)

// ChangeSet is the expire/insert descriptor pair produced for one
// identity group (spec §3 "Lifecycle").
type ChangeSet struct {
	ToExpire []row.Row
	ToInsert []row.Row
}

// Reconcile runs the full per-group state progression of spec §4.3:
// prepare (§4.3.1), then the mode-specific procedure (§4.3.2 or
// §4.3.3). It does not conflate; callers pipe ToInsert through
// internal/conflate.
func Reconcile(g group.Group, mode Mode, systemTime value.Timestamp) (ChangeSet, error) {
	p, err := prepare(g)
	if err != nil {
		return ChangeSet{}, err
	}

	switch mode {
	case ModeDelta:
		return reconcileDelta(p, systemTime)
	case ModeFullState:
		return reconcileFullState(p, systemTime)
	default:
		return ChangeSet{}, &InvariantError{
			Code:     ErrUnknownMode,
			Message:  "unknown reconciliation mode: " + string(mode),
			GroupKey: g.Key,
		}
	}
}

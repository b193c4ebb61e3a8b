package dispatch

import "github.com/google/uuid"

// RunIDGenerator produces the per-run correlation identifier threaded
// through logs and traces. Adapted from the teacher's flow-token
// generator (engine/flow.go); here it identifies a whole reconciliation
// run rather than a single sync-engine flow.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs. UUIDv7 embeds
// a timestamp in its most significant bits, so run IDs sort by creation
// time — useful for correlating log lines and golden traces.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 as a hyphenated string. Panics if UUID
// generation fails, which should never happen in practice.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

package testutil

import "sync"

// FixedRunIDGenerator returns predetermined run IDs in sequence,
// enabling deterministic golden-trace comparison. Adapted from the
// teacher's engine.FixedGenerator (internal/engine/flow.go), which did
// the same for flow tokens.
type FixedRunIDGenerator struct {
	mu   sync.Mutex
	ids  []string
	next int
}

// NewFixedRunIDGenerator creates a generator that returns ids in order.
func NewFixedRunIDGenerator(ids ...string) *FixedRunIDGenerator {
	return &FixedRunIDGenerator{ids: ids}
}

// Generate returns the next predetermined run ID. Panics if all ids
// have been consumed, to fail fast on test misconfiguration.
func (g *FixedRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.next >= len(g.ids) {
		panic("FixedRunIDGenerator: all run ids exhausted")
	}
	id := g.ids[g.next]
	g.next++
	return id
}

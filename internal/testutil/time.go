// Package testutil provides deterministic helpers for tests and golden
// fixtures: a clock-like time source and a fixed run-ID generator,
// adapted from the teacher's DeterministicClock and flow-token
// generators (internal/testutil/clock.go, flow.go).
package testutil

import (
	"sync"
	"time"
)

// DeterministicTimeSource hands out strictly increasing, reproducible
// timestamps for use as system_time in repeated test runs. Unlike
// time.Now(), the same sequence of Next() calls always produces the
// same sequence of timestamps, so golden fixtures stay stable.
type DeterministicTimeSource struct {
	mu   sync.Mutex
	base time.Time
	step time.Duration
	seq  int64
}

// NewDeterministicTimeSource creates a source whose first Next() call
// returns base.Add(step), the second base.Add(2*step), and so on.
func NewDeterministicTimeSource(base time.Time, step time.Duration) *DeterministicTimeSource {
	return &DeterministicTimeSource{base: base, step: step}
}

// Next advances and returns the next timestamp in the sequence.
func (s *DeterministicTimeSource) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.base.Add(time.Duration(s.seq) * s.step)
}

// Current returns the most recently issued timestamp without
// advancing. Returns base if Next has never been called.
func (s *DeterministicTimeSource) Current() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base.Add(time.Duration(s.seq) * s.step)
}

// Reset rewinds the source to its initial state, so Next() produces
// the same sequence again — used to run the same scenario twice for a
// round-trip check.
func (s *DeterministicTimeSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = 0
}

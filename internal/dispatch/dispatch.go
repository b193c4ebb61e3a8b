// Package dispatch implements the parallel dispatcher (spec §4.5):
// decides whether to process identity groups serially or in parallel,
// and assembles per-group results in a stable, group-key order
// regardless of which path ran. Groups share no state (spec §5), so
// the choice never affects correctness, only wall-clock time.
package dispatch

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/bitemporal/internal/group"
	"github.com/roach88/bitemporal/internal/reconcile"
)

// Options configures the serial/parallel heuristic (spec §6).
type Options struct {
	// ParallelIDThreshold: at or above this many groups, dispatch runs
	// in parallel. Default 50.
	ParallelIDThreshold int

	// ParallelRowThreshold: at or above this many total rows across all
	// groups, dispatch runs in parallel. Default 10_000.
	ParallelRowThreshold int

	// Limit bounds the number of groups processed concurrently. Zero
	// means runtime.GOMAXPROCS(0).
	Limit int

	// RunIDGenerator produces the correlation identifier attached to
	// every log line emitted by this run. Nil means UUIDv7Generator{}.
	RunIDGenerator RunIDGenerator
}

// DefaultOptions returns the spec's default thresholds (spec §6).
func DefaultOptions() Options {
	return Options{
		ParallelIDThreshold:  50,
		ParallelRowThreshold: 10_000,
		RunIDGenerator:       UUIDv7Generator{},
	}
}

// Work reconciles one group and returns its change set.
type Work func(g group.Group) (reconcile.ChangeSet, error)

// Run dispatches fn over groups, serially or in parallel per the
// heuristic in opts, and returns one ChangeSet per group in the same
// order as groups (spec §4.5 "assembles per-group results"). On the
// first error — invariant violation or resource exhaustion — Run stops
// launching new work and returns that error; partial results are
// discarded by the caller (spec §5 "partial outputs are invalid").
func Run(groups []group.Group, opts Options, fn Work) ([]reconcile.ChangeSet, error) {
	gen := opts.RunIDGenerator
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	runID := gen.Generate()

	parallel := shouldParallelize(groups, opts)
	slog.Debug("dispatch run starting", "run_id", runID, "groups", len(groups), "parallel", parallel)

	if !parallel {
		return runSerial(runID, groups, fn)
	}
	return runParallel(runID, groups, opts, fn)
}

func shouldParallelize(groups []group.Group, opts Options) bool {
	if len(groups) >= opts.ParallelIDThreshold {
		return true
	}
	total := 0
	for _, g := range groups {
		total += len(g.Current) + len(g.Updates)
		if total >= opts.ParallelRowThreshold {
			return true
		}
	}
	return false
}

func runSerial(runID string, groups []group.Group, fn Work) ([]reconcile.ChangeSet, error) {
	results := make([]reconcile.ChangeSet, len(groups))
	for i, g := range groups {
		cs, err := safeInvoke(runID, g, fn)
		if err != nil {
			return nil, err
		}
		results[i] = cs
	}
	return results, nil
}

func runParallel(runID string, groups []group.Group, opts Options, fn Work) ([]reconcile.ChangeSet, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]reconcile.ChangeSet, len(groups))
	eg, ctx := errgroup.WithContext(context.Background())
	eg.SetLimit(limit)

	for i, g := range groups {
		i, g := i, g
		eg.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			cs, err := safeInvoke(runID, g, fn)
			if err != nil {
				return err
			}
			results[i] = cs
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// safeInvoke recovers a panic from fn and reports it as a ResourceError
// carrying the offending group's identity (spec §7), and logs one
// Debug line per processed group (run ID, row counts, elapsed) for log
// correlation across a run.
func safeInvoke(runID string, g group.Group, fn Work) (cs reconcile.ChangeSet, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = &ResourceError{GroupKey: g.Key, Cause: r}
		}
		if err != nil {
			slog.Debug("dispatch group processed",
				"run_id", runID,
				"group", g.Key,
				"current_rows", len(g.Current),
				"update_rows", len(g.Updates),
				"elapsed", time.Since(start),
				"error", err,
			)
			return
		}
		slog.Debug("dispatch group processed",
			"run_id", runID,
			"group", g.Key,
			"current_rows", len(g.Current),
			"update_rows", len(g.Updates),
			"elapsed", time.Since(start),
		)
	}()
	return fn(g)
}

package config

import (
	"fmt"
	"time"

	"github.com/roach88/bitemporal/internal/reconcile"
	"github.com/roach88/bitemporal/internal/value"
)

// Options is the per-run configuration of spec §6 "Configuration
// options": reconciliation mode, the system timestamp assigned to this
// run, and the parallel-dispatch thresholds.
type Options struct {
	Mode                 reconcile.Mode `yaml:"mode"`
	SystemTime           time.Time      `yaml:"system_time"`
	ParallelIDThreshold  int            `yaml:"parallel_id_threshold"`
	ParallelRowThreshold int            `yaml:"parallel_row_threshold"`
}

// DefaultOptions returns spec §6's defaults: delta mode, thresholds of
// 50 groups / 10,000 rows. SystemTime is left zero; callers must set it
// explicitly — there is no sensible default for "now" in a pure,
// deterministic transform.
func DefaultOptions() Options {
	return Options{
		Mode:                 reconcile.ModeDelta,
		ParallelIDThreshold:  50,
		ParallelRowThreshold: 10_000,
	}
}

// Validate checks Options against spec §6: mode must be delta or
// full_state, system_time must be set, thresholds must be positive.
func (o Options) Validate() []ValidationError {
	var errs []ValidationError

	if o.Mode != reconcile.ModeDelta && o.Mode != reconcile.ModeFullState {
		errs = append(errs, ValidationError{
			Code:    ErrCodeUnknownMode,
			Field:   "mode",
			Message: fmt.Sprintf("mode must be %q or %q, got %q", reconcile.ModeDelta, reconcile.ModeFullState, o.Mode),
		})
	}
	if o.SystemTime.IsZero() {
		errs = append(errs, ValidationError{
			Code:    ErrCodeInvertedInterval,
			Field:   "system_time",
			Message: "system_time must be set",
		})
	}
	if o.ParallelIDThreshold <= 0 {
		errs = append(errs, ValidationError{Code: ErrCodeEmptyIDColumns, Field: "parallel_id_threshold", Message: "must be positive"})
	}
	if o.ParallelRowThreshold <= 0 {
		errs = append(errs, ValidationError{Code: ErrCodeEmptyValueColumns, Field: "parallel_row_threshold", Message: "must be positive"})
	}

	return errs
}

// SystemTimestamp converts SystemTime into the value.Timestamp the
// reconcile and conflate packages operate on (microsecond precision,
// spec §3).
func (o Options) SystemTimestamp() value.Timestamp {
	return value.NewTimestamp(o.SystemTime)
}

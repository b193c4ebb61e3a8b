package reconcile

import (
	"errors"
	"fmt"
)

// InvariantError reports a violated reconciliation invariant (spec §7
// "Invariant violation during reconciliation"): fatal, carries the
// offending identity group, and aborts the whole run — never a partial
// change set.
type InvariantError struct {
	// Code identifies the violated invariant.
	Code InvariantCode

	// Message is a human-readable description.
	Message string

	// GroupKey identifies the offending identity group (group.Group.Key).
	GroupKey string

	// Details contains additional context (e.g. the overlapping interval
	// bounds).
	Details map[string]string
}

// InvariantCode categorizes invariant violations.
type InvariantCode string

const (
	// ErrOverlappingLiveSegments indicates two live current rows in the
	// same group have intersecting effective intervals before
	// reconciliation starts — corrupt input, not something reconciliation
	// itself could have produced (spec §3 "the live projection partitions
	// the effective timeline into non-overlapping segments").
	ErrOverlappingLiveSegments InvariantCode = "I-OVERLAP"

	// ErrUnknownMode indicates a mode value other than delta or
	// full_state reached the reconciler.
	ErrUnknownMode InvariantCode = "I-MODE"
)

func (e *InvariantError) Error() string {
	if e.GroupKey != "" {
		return fmt.Sprintf("%s: %s (group=%s)", e.Code, e.Message, e.GroupKey)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvariantViolation reports whether err is an InvariantError with the
// given code. Uses errors.As to unwrap.
func IsInvariantViolation(err error, code InvariantCode) bool {
	var ie *InvariantError
	if errors.As(err, &ie) {
		return ie.Code == code
	}
	return false
}

func newOverlapError(groupKey string, from, to string) *InvariantError {
	return &InvariantError{
		Code:     ErrOverlappingLiveSegments,
		Message:  "live current segments overlap within identity group",
		GroupKey: groupKey,
		Details: map[string]string{
			"overlap_from": from,
			"overlap_to":   to,
		},
	}
}

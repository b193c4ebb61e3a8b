package dispatch

import "fmt"

// ResourceError reports resource exhaustion encountered while
// processing a group under parallel dispatch (spec §7 "Resource
// exhaustion"). Fatal; surfaced with the failing group's identity so
// the caller can correlate it against input.
type ResourceError struct {
	GroupKey string
	Cause    any
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("dispatch: resource exhaustion processing group %s: %v", e.GroupKey, e.Cause)
}

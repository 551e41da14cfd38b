package types

import "fmt"

// IllegalTransitionError reports a status change that is not adjacent in
// the pipeline. It names both the attempted and the current state so the
// caller can pick a valid transition instead of retrying blindly.
type IllegalTransitionError struct {
	Entity string // "feature" or "task"
	ID     string
	From   string
	To     string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal %s transition for %s: %s → %s", e.Entity, e.ID, e.From, e.To)
}

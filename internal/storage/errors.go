package storage

import "fmt"

// NotFoundError reports a reference to a feature that does not exist.
type NotFoundError struct {
	FeatureID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("feature not found: %s", e.FeatureID)
}

// StoreIOError reports a persistence failure (disk, lock contention).
// The write-then-rename protocol guarantees the prior record is intact
// when this error is returned; no retry happens inside the store.
type StoreIOError struct {
	Op        string // "load", "save", "list", "delete", "lock"
	FeatureID string
	Err       error
}

func (e *StoreIOError) Error() string {
	if e.FeatureID == "" {
		return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s failed for %s: %v", e.Op, e.FeatureID, e.Err)
}

func (e *StoreIOError) Unwrap() error {
	return e.Err
}

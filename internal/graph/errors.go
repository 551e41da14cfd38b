package graph

import (
	"fmt"
	"strings"
)

// CycleError reports a circular task dependency. Path holds the
// ordered cycle members, each exactly once (e.g. 001 → 003).
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular task dependency detected: %s", strings.Join(e.Path, " → "))
}

// DanglingDependencyError reports a depends_on reference to a task id
// that does not exist within the feature.
type DanglingDependencyError struct {
	TaskID      string
	DependsOnID string
}

func (e *DanglingDependencyError) Error() string {
	return fmt.Sprintf("task %s depends on unknown task %s", e.TaskID, e.DependsOnID)
}

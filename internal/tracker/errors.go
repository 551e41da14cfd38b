package tracker

import "fmt"

// TaskNotFoundError reports a reference to a task id that does not
// exist within the feature.
type TaskNotFoundError struct {
	FeatureID string
	TaskID    string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %s not found in feature %s", e.TaskID, e.FeatureID)
}

package types

import (
	"fmt"
	"time"
)

// Feature represents a top-level unit of requested functionality,
// decomposed into an ordered list of tasks.
type Feature struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	OriginalRequest string        `json:"original_request"`
	Status          FeatureStatus `json:"status"`
	CurrentPhase    Phase         `json:"current_phase"`
	Progress        int           `json:"progress"`
	Tasks           []Task        `json:"tasks"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Validate checks if the feature has valid field values.
// It runs on every load and before every save, so a record that drifted
// outside the closed enum sets is rejected rather than coerced.
func (f *Feature) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("id is required")
	}
	if f.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !f.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", f.Status)
	}
	if !f.CurrentPhase.IsValid() {
		return fmt.Errorf("invalid current_phase: %s", f.CurrentPhase)
	}
	if f.Progress < 0 || f.Progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100 (got %d)", f.Progress)
	}
	seen := make(map[string]bool, len(f.Tasks))
	for i := range f.Tasks {
		t := &f.Tasks[i]
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate task id: %s", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

// Task returns the task with the given id, or nil if none exists.
func (f *Feature) Task(id string) *Task {
	for i := range f.Tasks {
		if f.Tasks[i].ID == id {
			return &f.Tasks[i]
		}
	}
	return nil
}

// CompletedTasks returns the number of tasks in completed status.
func (f *Feature) CompletedTasks() int {
	n := 0
	for i := range f.Tasks {
		if f.Tasks[i].Status == TaskCompleted {
			n++
		}
	}
	return n
}

// Transition moves the feature to target, enforcing the pipeline order.
// Automatic transitions (in_progress, completed) are applied by the
// progress recompute step and also go through this check.
func (f *Feature) Transition(target FeatureStatus) error {
	if !f.Status.CanTransitionTo(target) {
		return &IllegalTransitionError{
			Entity: "feature",
			ID:     f.ID,
			From:   string(f.Status),
			To:     string(target),
		}
	}
	f.Status = target
	return nil
}

// Task represents an atomic, independently trackable unit of work
// within a feature.
type Task struct {
	ID                string     `json:"id"`
	Slug              string     `json:"slug"`
	Title             string     `json:"title"`
	Status            TaskStatus `json:"status"`
	Priority          int        `json:"priority"`
	Requisito         string     `json:"requisito,omitempty"`
	DependsOn         []string   `json:"depends_on,omitempty"`
	ResourceFootprint []string   `json:"resource_footprint,omitempty"`
}

// Validate checks if the task has valid field values.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("id is required")
	}
	if t.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", t.Status)
	}
	if t.Priority < 1 {
		return fmt.Errorf("priority must be positive (got %d)", t.Priority)
	}
	for _, dep := range t.DependsOn {
		if dep == t.ID {
			return fmt.Errorf("task cannot depend on itself")
		}
	}
	return nil
}

// Transition moves the task to target, enforcing the pipeline order.
func (t *Task) Transition(target TaskStatus) error {
	if !t.Status.CanTransitionTo(target) {
		return &IllegalTransitionError{
			Entity: "task",
			ID:     t.ID,
			From:   string(t.Status),
			To:     string(target),
		}
	}
	t.Status = target
	return nil
}

// TaskID formats a 1-based sequence number as a zero-padded task id
// ("001", "002", ...). Numbers beyond 999 keep their natural width.
func TaskID(n int) string {
	return fmt.Sprintf("%03d", n)
}

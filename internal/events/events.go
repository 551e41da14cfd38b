// Package events defines the changelog records emitted after each state
// transition and the sinks that receive them. Emission is a side
// channel: a sink failure never fails the mutation that produced it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type represents the kind of lifecycle event that occurred.
type Type string

const (
	// TypeFeatureCreated indicates a new feature record was created
	TypeFeatureCreated Type = "feature_created"
	// TypePRDCreated indicates the PRD phase was reached
	TypePRDCreated Type = "prd_created"
	// TypeTasksAdded indicates a batch of tasks was appended
	TypeTasksAdded Type = "tasks_added"
	// TypeTaskStatusChanged indicates a task moved forward in its pipeline
	TypeTaskStatusChanged Type = "task_status_changed"
	// TypeFeatureStatusChanged indicates a feature moved forward in its pipeline
	TypeFeatureStatusChanged Type = "feature_status_changed"
	// TypeFootprintSet indicates a task's resource footprint was recorded
	TypeFootprintSet Type = "footprint_set"
)

// Event is a one-line summary of a state transition.
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	FeatureID string    `json:"feature_id"`
	TaskID    string    `json:"task_id,omitempty"`
	OldStatus string    `json:"old_status,omitempty"`
	NewStatus string    `json:"new_status,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// New creates an event with a fresh id and the current time.
func New(eventType Type, featureID string, message string) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		FeatureID: featureID,
		Timestamp: time.Now().UTC(),
		Message:   message,
	}
}

// NewStatusChange creates a status-transition event for a feature or,
// when taskID is non-empty, one of its tasks.
func NewStatusChange(featureID, taskID, oldStatus, newStatus string) Event {
	eventType := TypeFeatureStatusChanged
	subject := featureID
	if taskID != "" {
		eventType = TypeTaskStatusChanged
		subject = featureID + "/" + taskID
	}
	e := New(eventType, featureID, fmt.Sprintf("%s: %s → %s", subject, oldStatus, newStatus))
	e.TaskID = taskID
	e.OldStatus = oldStatus
	e.NewStatus = newStatus
	return e
}

// Sink receives lifecycle events.
type Sink interface {
	Emit(ctx context.Context, event Event) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Emit(ctx context.Context, event Event) error { return nil }

// JSONLSink appends one JSON line per event to a changelog file.
type JSONLSink struct {
	mu   sync.Mutex
	path string
}

// NewJSONLSink creates a sink writing to path. The file is created on
// first emit.
func NewJSONLSink(path string) *JSONLSink {
	return &JSONLSink{path: path}
}

// Emit appends the event to the changelog file.
func (s *JSONLSink) Emit(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open changelog: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("append to changelog: %w", err)
	}
	return nil
}

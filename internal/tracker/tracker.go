// Package tracker implements the feature/task lifecycle operations:
// load, validate, mutate, recompute, save. All validation happens before
// any write, so no operation partially applies a mutation.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rumbolabs/rumbo/internal/events"
	"github.com/rumbolabs/rumbo/internal/graph"
	"github.com/rumbolabs/rumbo/internal/storage"
	"github.com/rumbolabs/rumbo/internal/types"
)

// Tracker orchestrates lifecycle operations over the record store.
type Tracker struct {
	store storage.Storage
	sink  events.Sink
	actor string
	now   func() time.Time
}

// Config holds tracker dependencies.
type Config struct {
	Store storage.Storage
	Sink  events.Sink // nil means events are discarded
	Actor string
}

// New creates a tracker. Store is required.
func New(cfg *Config) (*Tracker, error) {
	if cfg == nil || cfg.Store == nil {
		return nil, fmt.Errorf("tracker requires a store")
	}
	sink := cfg.Sink
	if sink == nil {
		sink = events.NopSink{}
	}
	return &Tracker{
		store: cfg.Store,
		sink:  sink,
		actor: cfg.Actor,
		now:   time.Now,
	}, nil
}

// TaskSpec describes one task in a batch append. Priority 0 defaults to
// the task's position in the batch.
type TaskSpec struct {
	Slug      string   `yaml:"slug" json:"slug"`
	Title     string   `yaml:"title" json:"title"`
	Priority  int      `yaml:"priority,omitempty" json:"priority,omitempty"`
	Requisito string   `yaml:"requisito,omitempty" json:"requisito,omitempty"`
	DependsOn []string `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
}

// CreateFeature creates a new feature record in created status. The id
// is a UTC timestamp plus a slug of the title, immutable afterwards.
func (tr *Tracker) CreateFeature(ctx context.Context, title, description, originalRequest string) (*types.Feature, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	now := tr.now().UTC()
	f := &types.Feature{
		ID:              now.Format("20060102-150405") + "-" + Slugify(title),
		Title:           title,
		Description:     description,
		OriginalRequest: originalRequest,
		Status:          types.FeatureCreated,
		CurrentPhase:    types.PhaseInitial,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	_, err := tr.store.Load(ctx, f.ID)
	var notFound *storage.NotFoundError
	switch {
	case err == nil:
		return nil, fmt.Errorf("feature %s already exists", f.ID)
	case !errors.As(err, &notFound):
		// an unreadable record under this id must not be overwritten
		return nil, err
	}
	if err := tr.store.Save(ctx, f); err != nil {
		return nil, err
	}
	tr.emit(ctx, events.New(events.TypeFeatureCreated, f.ID, fmt.Sprintf("%s: feature created (%s)", f.ID, f.Title)))
	return f, nil
}

// MarkPRDCreated records that the PRD artifact exists for the feature.
// The tracker only tracks whether the phase was reached, never content.
func (tr *Tracker) MarkPRDCreated(ctx context.Context, featureID string) (*types.Feature, error) {
	f, err := tr.store.Load(ctx, featureID)
	if err != nil {
		return nil, err
	}
	old := f.Status
	if err := f.Transition(types.FeaturePRDCreated); err != nil {
		return nil, err
	}
	f.CurrentPhase = types.PhasePRD
	if err := tr.store.Save(ctx, f); err != nil {
		return nil, err
	}
	tr.emit(ctx, tr.statusEvent(f.ID, "", string(old), string(f.Status), events.TypePRDCreated))
	return f, nil
}

// AddTasks appends a batch of tasks with sequential zero-padded ids.
// Dependency references are checked for dangling ids and cycles before
// anything is persisted. The first batch drives the prd_created →
// tasks_created transition; later batches append without a status change.
func (tr *Tracker) AddTasks(ctx context.Context, featureID string, specs []TaskSpec) (*types.Feature, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one task is required")
	}
	f, err := tr.store.Load(ctx, featureID)
	if err != nil {
		return nil, err
	}
	// completed is terminal; a new batch would leave the feature
	// completed with open tasks.
	if f.Status == types.FeatureCompleted {
		return nil, fmt.Errorf("feature %s is completed; cannot add tasks", featureID)
	}

	base := len(f.Tasks)
	tasks := append([]types.Task(nil), f.Tasks...)
	for i, spec := range specs {
		priority := spec.Priority
		if priority == 0 {
			priority = base + i + 1
		}
		task := types.Task{
			ID:        types.TaskID(base + i + 1),
			Slug:      spec.Slug,
			Title:     spec.Title,
			Status:    types.TaskDefined,
			Priority:  priority,
			Requisito: spec.Requisito,
			DependsOn: append([]string(nil), spec.DependsOn...),
		}
		if task.Slug == "" {
			task.Slug = Slugify(task.Title)
		}
		if err := task.Validate(); err != nil {
			return nil, fmt.Errorf("task %s: %w", task.ID, err)
		}
		tasks = append(tasks, task)
	}
	if err := graph.New(tasks).Validate(); err != nil {
		return nil, err
	}

	old := f.Status
	if !f.Status.AtLeast(types.FeatureTasksCreated) {
		if err := f.Transition(types.FeatureTasksCreated); err != nil {
			return nil, err
		}
		f.CurrentPhase = types.PhaseTasks
	}
	f.Tasks = tasks
	Recompute(f)
	if err := tr.store.Save(ctx, f); err != nil {
		return nil, err
	}
	tr.emit(ctx, events.New(events.TypeTasksAdded, f.ID,
		fmt.Sprintf("%s: %d task(s) added, %d total", f.ID, len(specs), len(f.Tasks))))
	if old != f.Status {
		tr.emit(ctx, tr.statusEvent(f.ID, "", string(old), string(f.Status), events.TypeFeatureStatusChanged))
	}
	return f, nil
}

// AdvanceTask moves one task to target, applies the automatic feature
// transitions, recomputes progress, persists, and emits changelog events.
func (tr *Tracker) AdvanceTask(ctx context.Context, featureID, taskID string, target types.TaskStatus) (*types.Feature, error) {
	if !target.IsValid() {
		return nil, fmt.Errorf("invalid target status: %s", target)
	}
	f, err := tr.store.Load(ctx, featureID)
	if err != nil {
		return nil, err
	}
	task := f.Task(taskID)
	if task == nil {
		return nil, &TaskNotFoundError{FeatureID: featureID, TaskID: taskID}
	}

	oldTask := task.Status
	if err := task.Transition(target); err != nil {
		return nil, err
	}

	// The first task to leave defined pulls the feature into in_progress.
	oldFeature := f.Status
	if oldTask == types.TaskDefined && f.Status == types.FeatureTasksCreated {
		if err := f.Transition(types.FeatureInProgress); err != nil {
			return nil, err
		}
	}
	Recompute(f)

	if err := tr.store.Save(ctx, f); err != nil {
		return nil, err
	}
	tr.emit(ctx, tr.statusEvent(f.ID, taskID, string(oldTask), string(target), events.TypeTaskStatusChanged))
	if oldFeature != f.Status {
		tr.emit(ctx, tr.statusEvent(f.ID, "", string(oldFeature), string(f.Status), events.TypeFeatureStatusChanged))
	}
	return f, nil
}

// SetFootprint records the file paths a task intends to create or
// modify, as supplied by the footprint provider once a plan exists. The
// paths are opaque strings; the tracker stores them sorted and deduped.
func (tr *Tracker) SetFootprint(ctx context.Context, featureID, taskID string, paths []string) (*types.Feature, error) {
	f, err := tr.store.Load(ctx, featureID)
	if err != nil {
		return nil, err
	}
	task := f.Task(taskID)
	if task == nil {
		return nil, &TaskNotFoundError{FeatureID: featureID, TaskID: taskID}
	}

	seen := make(map[string]bool, len(paths))
	footprint := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		footprint = append(footprint, p)
	}
	sort.Strings(footprint)
	task.ResourceFootprint = footprint

	if err := tr.store.Save(ctx, f); err != nil {
		return nil, err
	}
	tr.emit(ctx, events.New(events.TypeFootprintSet, f.ID,
		fmt.Sprintf("%s/%s: footprint set (%d path(s))", f.ID, taskID, len(footprint))))
	return f, nil
}

// GetFeature loads one feature record.
func (tr *Tracker) GetFeature(ctx context.Context, featureID string) (*types.Feature, error) {
	return tr.store.Load(ctx, featureID)
}

// ListFeatures enumerates feature summaries.
func (tr *Tracker) ListFeatures(ctx context.Context) ([]*storage.FeatureSummary, error) {
	return tr.store.List(ctx)
}

func (tr *Tracker) statusEvent(featureID, taskID, oldStatus, newStatus string, eventType events.Type) events.Event {
	e := events.NewStatusChange(featureID, taskID, oldStatus, newStatus)
	e.Type = eventType
	return e
}

// emit sends the event to the sink. Sink failures are deliberately
// swallowed: the changelog is a side channel, not part of the mutation.
func (tr *Tracker) emit(ctx context.Context, e events.Event) {
	e.Actor = tr.actor
	_ = tr.sink.Emit(ctx, e)
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every non-alphanumeric run into a
// single hyphen, truncated to 48 characters.
func Slugify(s string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(s), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "feature"
	}
	if len(slug) > 48 {
		slug = strings.Trim(slug[:48], "-")
	}
	return slug
}

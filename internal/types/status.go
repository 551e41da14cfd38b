package types

// FeatureStatus represents the lifecycle state of a feature.
type FeatureStatus string

const (
	FeatureCreated      FeatureStatus = "created"
	FeaturePRDCreated   FeatureStatus = "prd_created"
	FeatureTasksCreated FeatureStatus = "tasks_created"
	FeatureInProgress   FeatureStatus = "in_progress"
	FeatureCompleted    FeatureStatus = "completed"
)

// IsValid checks if the feature status value is valid.
func (s FeatureStatus) IsValid() bool {
	switch s {
	case FeatureCreated, FeaturePRDCreated, FeatureTasksCreated, FeatureInProgress, FeatureCompleted:
		return true
	}
	return false
}

// ValidTransitions defines the valid state transitions for the feature
// lifecycle. The pipeline is strictly linear:
//
//	created → prd_created → tasks_created → in_progress → completed
//
// in_progress is entered automatically the first time any task leaves
// defined; completed is entered automatically, and only, when every task
// is completed.
func (s FeatureStatus) ValidTransitions() []FeatureStatus {
	switch s {
	case FeatureCreated:
		return []FeatureStatus{FeaturePRDCreated}
	case FeaturePRDCreated:
		return []FeatureStatus{FeatureTasksCreated}
	case FeatureTasksCreated:
		return []FeatureStatus{FeatureInProgress}
	case FeatureInProgress:
		return []FeatureStatus{FeatureCompleted}
	case FeatureCompleted:
		return nil // Terminal state
	default:
		return nil
	}
}

// CanTransitionTo checks if a transition from this status to the target
// status is valid.
func (s FeatureStatus) CanTransitionTo(target FeatureStatus) bool {
	for _, valid := range s.ValidTransitions() {
		if valid == target {
			return true
		}
	}
	return false
}

// AtLeast reports whether this status has reached stage in the pipeline.
func (s FeatureStatus) AtLeast(stage FeatureStatus) bool {
	return featureRank[s] >= featureRank[stage]
}

var featureRank = map[FeatureStatus]int{
	FeatureCreated:      0,
	FeaturePRDCreated:   1,
	FeatureTasksCreated: 2,
	FeatureInProgress:   3,
	FeatureCompleted:    4,
}

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskDefined    TaskStatus = "defined"
	TaskPlanned    TaskStatus = "planned"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// IsValid checks if the task status value is valid.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskDefined, TaskPlanned, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// ValidTransitions defines the valid state transitions for the task
// lifecycle:
//
//	defined → planned → in_progress → completed
//
// No stage may be skipped and no backward move is possible through this
// API; reverting a completed task is an external maintenance operation.
func (s TaskStatus) ValidTransitions() []TaskStatus {
	switch s {
	case TaskDefined:
		return []TaskStatus{TaskPlanned}
	case TaskPlanned:
		return []TaskStatus{TaskInProgress}
	case TaskInProgress:
		return []TaskStatus{TaskCompleted}
	case TaskCompleted:
		return nil // Terminal state
	default:
		return nil
	}
}

// CanTransitionTo checks if a transition from this status to the target
// status is valid.
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	for _, valid := range s.ValidTransitions() {
		if valid == target {
			return true
		}
	}
	return false
}

// Next returns the single forward status, or "" for the terminal state.
func (s TaskStatus) Next() TaskStatus {
	switch s {
	case TaskDefined:
		return TaskPlanned
	case TaskPlanned:
		return TaskInProgress
	case TaskInProgress:
		return TaskCompleted
	default:
		return ""
	}
}

// Phase represents the document-generation stage a feature has reached.
// It mirrors the pipeline driving the document generator and is advisory:
// status, not phase, gates transitions.
type Phase string

const (
	PhaseInitial Phase = "initial"
	PhasePRD     Phase = "prd"
	PhaseTasks   Phase = "tasks"
	PhaseDone    Phase = "done"
)

// IsValid checks if the phase value is valid.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseInitial, PhasePRD, PhaseTasks, PhaseDone:
		return true
	}
	return false
}

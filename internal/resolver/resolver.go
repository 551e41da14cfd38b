// Package resolver derives the recommended next action for a feature.
// Resolution is a pure function over the feature's status and its
// dependency graph; it never mutates state.
package resolver

import (
	"fmt"

	"github.com/rumbolabs/rumbo/internal/graph"
	"github.com/rumbolabs/rumbo/internal/types"
)

// Action is the kind of recommended next step.
type Action string

const (
	// ActionGeneratePRD hands off to the document generator for the PRD.
	ActionGeneratePRD Action = "generate_prd"
	// ActionGenerateTasks hands off to the document generator for the task list.
	ActionGenerateTasks Action = "generate_tasks"
	// ActionPlan recommends planning the selected task.
	ActionPlan Action = "plan"
	// ActionCode recommends coding the selected task.
	ActionCode Action = "code"
	// ActionComplete indicates every task is completed.
	ActionComplete Action = "feature_complete"
)

// Recommendation is the resolver's output. TaskID is set only for plan
// and code actions.
type Recommendation struct {
	Action Action `json:"action"`
	TaskID string `json:"task_id,omitempty"`
	Reason string `json:"reason"`
}

// NextAction selects the next actionable step for the feature.
//
// Before tasks exist the recommendation is a pass-through to the
// document generator: PRD first, then the task list. Once tasks exist,
// the first non-completed task in topological order (priority ascending,
// id ascending among ready tasks) is selected; its current status maps
// to the command: defined → plan, planned|in_progress → code.
func NextAction(f *types.Feature) (*Recommendation, error) {
	switch f.Status {
	case types.FeatureCreated:
		return &Recommendation{
			Action: ActionGeneratePRD,
			Reason: "no PRD yet; generate the PRD document",
		}, nil
	case types.FeaturePRDCreated:
		return &Recommendation{
			Action: ActionGenerateTasks,
			Reason: "PRD exists but no tasks; generate the task breakdown",
		}, nil
	}

	g := graph.New(f.Tasks)
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, fmt.Errorf("cannot order tasks for %s: %w", f.ID, err)
	}
	for _, id := range order {
		task := f.Task(id)
		if task.Status == types.TaskCompleted {
			continue
		}
		rec := &Recommendation{TaskID: id}
		switch task.Status {
		case types.TaskDefined:
			rec.Action = ActionPlan
			rec.Reason = fmt.Sprintf("task %s is defined; plan it next", id)
		case types.TaskPlanned, types.TaskInProgress:
			rec.Action = ActionCode
			rec.Reason = fmt.Sprintf("task %s is %s; continue coding", id, task.Status)
		}
		return rec, nil
	}

	return &Recommendation{
		Action: ActionComplete,
		Reason: "all tasks are completed",
	}, nil
}

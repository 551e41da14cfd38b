package tracker

import "github.com/rumbolabs/rumbo/internal/types"

// Recompute derives the feature's progress from its tasks and applies
// the automatic status transitions that follow from it. It runs after
// every task status mutation and is idempotent: repeated calls on
// unchanged input produce an identical record.
//
//	progress = floor(100 * completed / total), 0 when no tasks exist
//
// A feature reaches completed only here, never by caller request: when
// every task is completed. A partially completed feature whose status
// already reached tasks_created is promoted to in_progress.
func Recompute(f *types.Feature) {
	total := len(f.Tasks)
	if total == 0 {
		f.Progress = 0
		return
	}
	done := f.CompletedTasks()
	f.Progress = 100 * done / total

	switch {
	case done == total:
		if f.Status != types.FeatureCompleted {
			f.Status = types.FeatureCompleted
			f.CurrentPhase = types.PhaseDone
		}
	case done > 0:
		if f.Status == types.FeatureTasksCreated {
			f.Status = types.FeatureInProgress
		}
	}
}

// Package conflict detects overlapping resource footprints between
// tasks that are not ordered by a dependency edge. The scan is a pure,
// read-only analysis over a best-effort snapshot of all features; it is
// advisory and never blocks a transition.
package conflict

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rumbolabs/rumbo/internal/graph"
	"github.com/rumbolabs/rumbo/internal/storage"
	"github.com/rumbolabs/rumbo/internal/types"
)

// Claimant identifies one task declaring a resource.
type Claimant struct {
	FeatureID string `json:"feature_id"`
	TaskID    string `json:"task_id"`
}

// Conflict reports a resource claimed by two or more tasks that no
// dependency edge serializes.
type Conflict struct {
	Resource  string     `json:"resource"`
	Claimants []Claimant `json:"claimants"`
}

// Detector runs the global conflict scan.
type Detector struct {
	store storage.Storage
}

// NewDetector creates a detector over the given store.
func NewDetector(store storage.Storage) *Detector {
	return &Detector{store: store}
}

const scanConcurrency = 8

// Scan loads every feature with non-completed status and reports each
// resource path claimed by more than one non-completed task, unless a
// depends_on path (in either direction, transitively) already orders the
// claimants. Features that fail to load are skipped: a concurrent writer
// may be mid-save, and the scan works against an eventually-consistent
// snapshot.
func (d *Detector) Scan(ctx context.Context) ([]Conflict, error) {
	summaries, err := d.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu       sync.Mutex
		features []*types.Feature
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)
	for _, summary := range summaries {
		if summary.Status == types.FeatureCompleted {
			continue
		}
		id := summary.ID
		g.Go(func() error {
			f, err := d.store.Load(gctx, id)
			if err != nil {
				return nil // skip unreadable snapshot entries
			}
			mu.Lock()
			features = append(features, f)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(features, func(i, j int) bool { return features[i].ID < features[j].ID })

	return detect(features), nil
}

// detect runs the in-memory analysis over the snapshot.
func detect(features []*types.Feature) []Conflict {
	graphs := make(map[string]*graph.Graph, len(features))
	claims := make(map[string][]Claimant)
	for _, f := range features {
		graphs[f.ID] = graph.New(f.Tasks)
		for i := range f.Tasks {
			t := &f.Tasks[i]
			if t.Status == types.TaskCompleted {
				continue
			}
			for _, resource := range t.ResourceFootprint {
				claims[resource] = append(claims[resource], Claimant{FeatureID: f.ID, TaskID: t.ID})
			}
		}
	}

	var conflicts []Conflict
	for resource, claimants := range claims {
		if len(claimants) < 2 {
			continue
		}
		contested := contestedClaimants(claimants, graphs)
		if len(contested) < 2 {
			continue
		}
		sort.Slice(contested, func(i, j int) bool {
			if contested[i].FeatureID != contested[j].FeatureID {
				return contested[i].FeatureID < contested[j].FeatureID
			}
			return contested[i].TaskID < contested[j].TaskID
		})
		conflicts = append(conflicts, Conflict{Resource: resource, Claimants: contested})
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Resource < conflicts[j].Resource })
	return conflicts
}

// contestedClaimants returns the claimants that have at least one
// counterpart no dependency path orders them against. Claimants in
// different features are always unordered; claimants in the same feature
// are ordered when one reaches the other through depends_on edges.
func contestedClaimants(claimants []Claimant, graphs map[string]*graph.Graph) []Claimant {
	var contested []Claimant
	for i, a := range claimants {
		for j, b := range claimants {
			if i == j {
				continue
			}
			if a.FeatureID == b.FeatureID && graphs[a.FeatureID].Connected(a.TaskID, b.TaskID) {
				continue
			}
			contested = append(contested, a)
			break
		}
	}
	return contested
}

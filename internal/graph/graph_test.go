package graph

import (
	"errors"
	"testing"

	"github.com/rumbolabs/rumbo/internal/types"
)

func task(id string, priority int, deps ...string) types.Task {
	return types.Task{ID: id, Title: "task " + id, Status: types.TaskDefined, Priority: priority, DependsOn: deps}
}

func TestValidateLinearChain(t *testing.T) {
	g := New([]types.Task{
		task("001", 1),
		task("002", 2, "001"),
		task("003", 3, "002"),
	})
	if err := g.Validate(); err != nil {
		t.Fatalf("valid DAG rejected: %v", err)
	}
}

func TestValidateTwoNodeCycle(t *testing.T) {
	g := New([]types.Task{
		task("001", 1, "003"),
		task("002", 2),
		task("003", 3, "001"),
	})
	err := g.Validate()
	if err == nil {
		t.Fatal("expected cycle error")
	}
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CycleError, got %T", err)
	}
	if len(ce.Path) != 2 {
		t.Fatalf("cycle path %v should list each cycle member once", ce.Path)
	}
	inPath := make(map[string]bool)
	for _, id := range ce.Path {
		inPath[id] = true
	}
	if !inPath["001"] || !inPath["003"] {
		t.Errorf("cycle path %v should contain 001 and 003", ce.Path)
	}
	if inPath["002"] {
		t.Errorf("cycle path %v should not contain 002", ce.Path)
	}
}

func TestValidateSelfLoop(t *testing.T) {
	g := New([]types.Task{task("001", 1, "001")})
	var ce *CycleError
	if err := g.Validate(); !errors.As(err, &ce) {
		t.Fatalf("expected CycleError for self-loop, got %v", err)
	}
}

func TestValidateLongCycle(t *testing.T) {
	g := New([]types.Task{
		task("001", 1, "004"),
		task("002", 2, "001"),
		task("003", 3, "002"),
		task("004", 4, "003"),
	})
	var ce *CycleError
	if err := g.Validate(); !errors.As(err, &ce) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if len(ce.Path) != 4 {
		t.Errorf("cycle path %v should list the 4 cycle members once each", ce.Path)
	}
}

func TestValidateDanglingReference(t *testing.T) {
	g := New([]types.Task{
		task("001", 1),
		task("002", 2, "007"),
	})
	err := g.Validate()
	var de *DanglingDependencyError
	if !errors.As(err, &de) {
		t.Fatalf("expected DanglingDependencyError, got %v", err)
	}
	if de.TaskID != "002" || de.DependsOnID != "007" {
		t.Errorf("got %s → %s, want 002 → 007", de.TaskID, de.DependsOnID)
	}
}

func TestTopologicalOrderRespectsEdges(t *testing.T) {
	tasks := []types.Task{
		task("001", 3),
		task("002", 2, "001"),
		task("003", 1, "001", "002"),
		task("004", 4),
	}
	g := New(tasks)
	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatalf("TopologicalOrder: %v", err)
	}
	if len(order) != len(tasks) {
		t.Fatalf("order has %d ids, want %d", len(order), len(tasks))
	}
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, task := range tasks {
		for _, dep := range task.DependsOn {
			if pos[dep] >= pos[task.ID] {
				t.Errorf("dependency %s appears after dependent %s in %v", dep, task.ID, order)
			}
		}
	}
}

func TestTopologicalOrderTieBreaks(t *testing.T) {
	// All independent: order is priority ascending, then id ascending.
	g := New([]types.Task{
		task("003", 2),
		task("001", 2),
		task("002", 1),
	})
	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatalf("TopologicalOrder: %v", err)
	}
	want := []string{"002", "001", "003"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestTopologicalOrderCycle(t *testing.T) {
	g := New([]types.Task{
		task("001", 1, "002"),
		task("002", 2, "001"),
	})
	var ce *CycleError
	if _, err := g.TopologicalOrder(); !errors.As(err, &ce) {
		t.Fatalf("expected CycleError, got %v", err)
	}
}

func TestIsUnblocked(t *testing.T) {
	tasks := []types.Task{
		{ID: "001", Title: "a", Status: types.TaskCompleted, Priority: 1},
		{ID: "002", Title: "b", Status: types.TaskDefined, Priority: 2, DependsOn: []string{"001"}},
		{ID: "003", Title: "c", Status: types.TaskDefined, Priority: 3, DependsOn: []string{"002"}},
		{ID: "004", Title: "d", Status: types.TaskDefined, Priority: 4},
	}
	g := New(tasks)

	tests := []struct {
		id   string
		want bool
	}{
		{"001", true}, // no deps
		{"002", true}, // dep completed
		{"003", false}, // dep not completed
		{"004", true}, // no deps
		{"999", false}, // unknown task
	}
	for _, tt := range tests {
		if got := g.IsUnblocked(tt.id); got != tt.want {
			t.Errorf("IsUnblocked(%s) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestReachesTransitive(t *testing.T) {
	g := New([]types.Task{
		task("001", 1),
		task("002", 2, "001"),
		task("003", 3, "002"),
		task("004", 4),
	})
	if !g.Reaches("003", "001") {
		t.Error("003 should reach 001 transitively")
	}
	if g.Reaches("001", "003") {
		t.Error("001 should not reach 003 (edges point upstream)")
	}
	if g.Reaches("004", "001") {
		t.Error("004 reaches nothing")
	}
	if !g.Connected("001", "003") || !g.Connected("003", "001") {
		t.Error("Connected should hold in both argument orders")
	}
	if g.Connected("004", "002") {
		t.Error("004 and 002 are not connected")
	}
}

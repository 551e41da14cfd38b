// Package graph builds the directed dependency graph over one feature's
// tasks and answers the structural questions the tracker needs: is the
// graph a DAG, what is the recommended execution order, and which tasks
// are currently unblocked.
package graph

import (
	"sort"

	"github.com/rumbolabs/rumbo/internal/types"
)

// Graph is a dependency graph over a single feature's task list.
// Edges point from a task to the tasks it depends on.
type Graph struct {
	tasks map[string]*types.Task
	order []string // insertion order, significant for tie-breaks
}

// New builds a graph from the feature's task list. The slice is not
// copied; the graph holds pointers into it.
func New(tasks []types.Task) *Graph {
	g := &Graph{
		tasks: make(map[string]*types.Task, len(tasks)),
		order: make([]string, 0, len(tasks)),
	}
	for i := range tasks {
		t := &tasks[i]
		g.tasks[t.ID] = t
		g.order = append(g.order, t.ID)
	}
	return g
}

// Validate checks the structural invariants of the dependency graph:
// every depends_on reference must resolve to a task in the same feature,
// and the graph must be acyclic. Dangling references are reported first
// so cycle detection never walks edges into nowhere.
func (g *Graph) Validate() error {
	for _, id := range g.order {
		for _, dep := range g.tasks[id].DependsOn {
			if _, ok := g.tasks[dep]; !ok {
				return &DanglingDependencyError{TaskID: id, DependsOnID: dep}
			}
		}
	}
	if cycle := g.findCycle(); len(cycle) > 0 {
		return &CycleError{Path: cycle}
	}
	return nil
}

// findCycle uses DFS with a recursion stack to detect cycles.
// Returns the cycle path if found, nil otherwise.
func (g *Graph) findCycle() []string {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	var path []string

	var dfs func(string) bool
	dfs = func(node string) bool {
		visited[node] = true
		recStack[node] = true
		path = append(path, node)

		for _, neighbor := range g.tasks[node].DependsOn {
			if _, ok := g.tasks[neighbor]; !ok {
				continue
			}
			if !visited[neighbor] {
				if dfs(neighbor) {
					return true
				}
			} else if recStack[neighbor] {
				// Found a cycle - extract the cycle path
				cycleStart := 0
				for i, p := range path {
					if p == neighbor {
						cycleStart = i
						break
					}
				}
				path = path[cycleStart:]
				return true
			}
		}

		recStack[node] = false
		path = path[:len(path)-1] // Backtrack
		return false
	}

	for _, id := range g.order {
		if !visited[id] {
			path = path[:0]
			if dfs(id) {
				return path
			}
		}
	}
	return nil
}

// TopologicalOrder returns the task ids in dependency order using Kahn's
// algorithm: for every edge "a depends on b", b appears before a. Among
// tasks whose dependencies are all emitted, ties break by priority
// ascending, then id ascending. This ordering feeds the next-action
// resolver.
func (g *Graph) TopologicalOrder() ([]string, error) {
	inDegree := make(map[string]int, len(g.order))
	dependents := make(map[string][]string, len(g.order))
	for _, id := range g.order {
		t := g.tasks[id]
		for _, dep := range t.DependsOn {
			if _, ok := g.tasks[dep]; !ok {
				return nil, &DanglingDependencyError{TaskID: id, DependsOnID: dep}
			}
			inDegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var ready []string
	for _, id := range g.order {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	result := make([]string, 0, len(g.order))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			a, b := g.tasks[ready[i]], g.tasks[ready[j]]
			if a.Priority != b.Priority {
				return a.Priority < b.Priority
			}
			return a.ID < b.ID
		})
		next := ready[0]
		ready = ready[1:]
		result = append(result, next)

		for _, dep := range dependents[next] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(result) != len(g.order) {
		return nil, &CycleError{Path: g.findCycle()}
	}
	return result, nil
}

// IsUnblocked reports whether every task listed in the task's depends_on
// is completed. Tasks with no dependencies are always unblocked. Unknown
// ids do not block; Validate catches them before any plan is persisted.
func (g *Graph) IsUnblocked(taskID string) bool {
	t, ok := g.tasks[taskID]
	if !ok {
		return false
	}
	for _, dep := range t.DependsOn {
		if blocker, ok := g.tasks[dep]; ok && blocker.Status != types.TaskCompleted {
			return false
		}
	}
	return true
}

// Reaches reports whether "to" is reachable from "from" by following
// depends_on edges transitively.
func (g *Graph) Reaches(from, to string) bool {
	if from == to {
		return false
	}
	visited := make(map[string]bool)
	stack := []string{from}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[node] {
			continue
		}
		visited[node] = true
		t, ok := g.tasks[node]
		if !ok {
			continue
		}
		for _, dep := range t.DependsOn {
			if dep == to {
				return true
			}
			stack = append(stack, dep)
		}
	}
	return false
}

// Connected reports whether two tasks are ordered by a dependency path
// in either direction. A declared dependency is an accepted
// serialization, so connected tasks never conflict over shared resources.
func (g *Graph) Connected(a, b string) bool {
	return g.Reaches(a, b) || g.Reaches(b, a)
}

// Package taskgraph validates the directed dependency graph over the
// tasks of one project. Edges mean "task depends on task"; the graph must
// stay acyclic because the scheduler orders tasks along it.
package taskgraph

import "errors"

var (
	ErrSelfDependency = errors.New("task cannot depend on itself")
	ErrDuplicateEdge  = errors.New("dependency already exists")
	ErrWouldCycle     = errors.New("dependency would create a cycle")
)

// Edge is a directed dependency: TaskID depends on DependsOnID.
type Edge struct {
	TaskID      uint
	DependsOnID uint
}

// ValidateNewEdge checks whether the edge (taskID, dependsOnID) can join
// the given edge set. Self-loops and duplicates are rejected outright;
// otherwise the edge closes a cycle iff taskID is already reachable from
// dependsOnID along existing edges, checked with an iterative depth-first
// search. O(V+E); edge sets are project-scoped and small.
func ValidateNewEdge(edges []Edge, taskID, dependsOnID uint) error {
	if taskID == dependsOnID {
		return ErrSelfDependency
	}

	adjacency := make(map[uint][]uint, len(edges))
	for _, e := range edges {
		if e.TaskID == taskID && e.DependsOnID == dependsOnID {
			return ErrDuplicateEdge
		}
		adjacency[e.TaskID] = append(adjacency[e.TaskID], e.DependsOnID)
	}

	visited := make(map[uint]struct{}, len(edges))
	stack := []uint{dependsOnID}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == taskID {
			return ErrWouldCycle
		}
		if _, seen := visited[node]; seen {
			continue
		}
		visited[node] = struct{}{}
		stack = append(stack, adjacency[node]...)
	}
	return nil
}

package taskgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfDependencyRejected(t *testing.T) {
	err := ValidateNewEdge(nil, 1, 1)
	assert.ErrorIs(t, err, ErrSelfDependency)
}

func TestDuplicateEdgeRejected(t *testing.T) {
	edges := []Edge{{TaskID: 1, DependsOnID: 2}}
	err := ValidateNewEdge(edges, 1, 2)
	assert.ErrorIs(t, err, ErrDuplicateEdge)

	// The reverse pair is a cycle, not a duplicate.
	err = ValidateNewEdge(edges, 2, 1)
	assert.ErrorIs(t, err, ErrWouldCycle)
}

func TestChainCycleRejected(t *testing.T) {
	// B depends on A, C depends on B. A depending on C closes the
	// cycle via the existing path C -> B -> A.
	const a, b, c = 1, 2, 3
	edges := []Edge{
		{TaskID: b, DependsOnID: a},
		{TaskID: c, DependsOnID: b},
	}
	err := ValidateNewEdge(edges, a, c)
	assert.ErrorIs(t, err, ErrWouldCycle)

	// The same direction as the chain stays legal.
	assert.NoError(t, ValidateNewEdge(edges, c, a))
}

func TestBranchingGraph(t *testing.T) {
	//      1
	//     / \
	//    2   3
	//   /     \
	//  4       5
	edges := []Edge{
		{TaskID: 2, DependsOnID: 1},
		{TaskID: 3, DependsOnID: 1},
		{TaskID: 4, DependsOnID: 2},
		{TaskID: 5, DependsOnID: 3},
	}

	// Cross-branch edges do not cycle.
	assert.NoError(t, ValidateNewEdge(edges, 4, 5))
	assert.NoError(t, ValidateNewEdge(edges, 5, 2))

	// Any edge back up a branch does.
	assert.ErrorIs(t, ValidateNewEdge(edges, 1, 4), ErrWouldCycle)
	assert.ErrorIs(t, ValidateNewEdge(edges, 2, 4), ErrWouldCycle)
	assert.ErrorIs(t, ValidateNewEdge(edges, 1, 5), ErrWouldCycle)
}

func TestAcyclicityAfterAcceptedInserts(t *testing.T) {
	// Insert a batch of random-ish candidate edges; keep the ones the
	// validator accepts and verify the accepted set never cycles.
	candidates := []Edge{
		{2, 1}, {3, 2}, {4, 3}, {1, 4}, // last one closes a cycle
		{5, 1}, {5, 3}, {2, 5}, // 2->5->3->2 cycle
		{6, 4}, {6, 6}, // self loop
		{3, 2}, // duplicate
	}

	var accepted []Edge
	for _, c := range candidates {
		if err := ValidateNewEdge(accepted, c.TaskID, c.DependsOnID); err == nil {
			accepted = append(accepted, c)
		}
	}

	require.NotEmpty(t, accepted)
	assert.False(t, hasCycle(accepted), "accepted edge set contains a cycle: %v", accepted)
}

// hasCycle is an independent check used only by the test: depth-first
// search with a recursion stack over the whole edge set.
func hasCycle(edges []Edge) bool {
	adjacency := map[uint][]uint{}
	nodes := map[uint]struct{}{}
	for _, e := range edges {
		adjacency[e.TaskID] = append(adjacency[e.TaskID], e.DependsOnID)
		nodes[e.TaskID] = struct{}{}
		nodes[e.DependsOnID] = struct{}{}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[uint]int{}
	var visit func(n uint) bool
	visit = func(n uint) bool {
		color[n] = gray
		for _, next := range adjacency[n] {
			switch color[next] {
			case gray:
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		color[n] = black
		return false
	}

	for n := range nodes {
		if color[n] == white && visit(n) {
			return true
		}
	}
	return false
}

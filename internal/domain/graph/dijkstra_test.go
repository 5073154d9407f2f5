package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railempire-go/internal/domain/graph"
	"github.com/andrescamacho/railempire-go/internal/domain/world"
)

// ringState builds a 4-point ring: 0-1-2-3-0, each line of length 10
func ringState(t *testing.T) *world.State {
	state := world.NewState("p1")
	static := &world.MapStatic{
		Idx: 1,
		Points: []world.Point{
			{Idx: 0}, {Idx: 1}, {Idx: 2}, {Idx: 3},
		},
		Lines: []world.Line{
			{Idx: 1, Length: 10, Points: [2]int{0, 1}},
			{Idx: 2, Length: 10, Points: [2]int{1, 2}},
			{Idx: 3, Length: 10, Points: [2]int{2, 3}},
			{Idx: 4, Length: 10, Points: [2]int{3, 0}},
		},
	}
	require.NoError(t, state.ApplyStatic(static))
	return state
}

func TestShortestPaths_Ring(t *testing.T) {
	// Arrange
	state := ringState(t)
	engine := graph.NewEngine(state)
	adj := engine.Adjacency(graph.Full, graph.Exclusions{})

	// Act
	paths := graph.ShortestPaths(adj, state.Lines, 0)

	// Assert
	expected := map[int]int{0: 0, 1: 10, 2: 20, 3: 10}
	assert.Equal(t, expected, paths.Distance)
}

func TestShortestPaths_Symmetry(t *testing.T) {
	// Arrange
	state := ringState(t)
	engine := graph.NewEngine(state)
	adj := engine.Adjacency(graph.Full, graph.Exclusions{})

	// Act / Assert: distance a->b equals b->a for every pair
	for a := 0; a < 4; a++ {
		from := graph.ShortestPaths(adj, state.Lines, a)
		for b := 0; b < 4; b++ {
			back := graph.ShortestPaths(adj, state.Lines, b)
			dAB, okAB := from.DistanceTo(b)
			dBA, okBA := back.DistanceTo(a)
			require.True(t, okAB)
			require.True(t, okBA)
			assert.Equal(t, dAB, dBA, "distance %d<->%d", a, b)
		}
	}
}

func TestShortestPaths_RouteReconstruction(t *testing.T) {
	// Arrange
	state := ringState(t)
	engine := graph.NewEngine(state)
	adj := engine.Adjacency(graph.Full, graph.Exclusions{})

	// Act
	paths := graph.ShortestPaths(adj, state.Lines, 0)

	// Assert: equal-cost paths to 2 exist via 1 and via 3; the tie
	// breaks toward the smaller point id
	assert.Equal(t, []int{0, 1, 2}, paths.To(2))
	assert.Equal(t, []int{0}, paths.To(0))
}

func TestShortestPaths_UnreachableTarget(t *testing.T) {
	// Arrange
	state := world.NewState("p1")
	static := &world.MapStatic{
		Points: []world.Point{{Idx: 0}, {Idx: 1}, {Idx: 2}, {Idx: 3}},
		Lines: []world.Line{
			{Idx: 1, Length: 5, Points: [2]int{0, 1}},
			{Idx: 2, Length: 5, Points: [2]int{2, 3}},
		},
	}
	require.NoError(t, state.ApplyStatic(static))
	engine := graph.NewEngine(state)
	adj := engine.Adjacency(graph.Full, graph.Exclusions{})

	// Act
	paths := graph.ShortestPaths(adj, state.Lines, 0)

	// Assert
	assert.Nil(t, paths.To(2))
	_, ok := paths.DistanceTo(3)
	assert.False(t, ok)
}

func TestAdjacency_ExcludedLine(t *testing.T) {
	// Arrange
	state := ringState(t)
	engine := graph.NewEngine(state)

	// Act: cut line 1 (0-1); 1 is now only reachable the long way
	adj := engine.Adjacency(graph.Full, graph.Exclusions{Lines: map[int]bool{1: true}})
	paths := graph.ShortestPaths(adj, state.Lines, 0)

	// Assert
	d, ok := paths.DistanceTo(1)
	require.True(t, ok)
	assert.Equal(t, 30, d)
	assert.Equal(t, []int{0, 3, 2, 1}, paths.To(1))
}

package datastructure

import (
	"testing"

	"github.com/lintang-b-s/navtraffic/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sccTestGraph(t *testing.T) *RoadNetwork {
	t.Helper()
	g := NewRoadNetwork()
	for id := int64(1); id <= 6; id++ {
		g.AddNode(id, float64(id), float64(id))
	}
	// cycle 1 -> 2 -> 3 -> 1, one way link 3 -> 4, cycle 4 <-> 5, isolated 6
	edges := [][2]int64{{1, 2}, {2, 3}, {3, 1}, {3, 4}, {4, 5}, {5, 4}, {1, 2}}
	for _, e := range edges {
		_, err := g.AddEdge(e[0], e[1], 1, 10, pkg.RESIDENTIAL)
		require.NoError(t, err)
	}
	return g
}

func TestStronglyConnectedComponents(t *testing.T) {
	g := sccTestGraph(t)
	components, n := g.StronglyConnectedComponents()

	assert.Equal(t, 3, n)
	idx := func(id int64) Index {
		u, ok := g.GetNodeIndex(id)
		require.True(t, ok)
		return u
	}
	assert.Equal(t, components[idx(1)], components[idx(2)])
	assert.Equal(t, components[idx(2)], components[idx(3)])
	assert.Equal(t, components[idx(4)], components[idx(5)])
	assert.NotEqual(t, components[idx(3)], components[idx(4)])
	assert.NotEqual(t, components[idx(6)], components[idx(1)])
	assert.NotEqual(t, components[idx(6)], components[idx(4)])
}

func TestLargestStronglyConnectedComponent(t *testing.T) {
	g := sccTestGraph(t)
	g.SetEndpoints(NewRouteEndpoints(1, 1, 3, 3))

	sub, err := g.LargestStronglyConnectedComponent()
	require.NoError(t, err)

	assert.Equal(t, 3, sub.NumberOfNodes())
	assert.Equal(t, 4, sub.NumberOfEdges())
	for _, id := range []int64{1, 2, 3} {
		assert.True(t, sub.HasNode(id))
	}
	assert.False(t, sub.HasNode(4))
	assert.NotNil(t, sub.GetEdgeByKey(1, 2, 1))
	assert.Equal(t, g.GetEndpoints(), sub.GetEndpoints())

	// source graph untouched
	assert.Equal(t, 6, g.NumberOfNodes())
}

func TestLargestStronglyConnectedComponentSingle(t *testing.T) {
	g := NewRoadNetwork()
	g.AddNode(1, 0, 0)
	g.AddNode(2, 0, 1)
	g.AddEdge(1, 2, 1, 1, pkg.RESIDENTIAL)
	g.AddEdge(2, 1, 1, 1, pkg.RESIDENTIAL)

	sub, err := g.LargestStronglyConnectedComponent()
	require.NoError(t, err)
	assert.Same(t, g, sub)

	empty, err := NewRoadNetwork().LargestStronglyConnectedComponent()
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

package traffic

import (
	"errors"
	"testing"

	"github.com/lintang-b-s/navtraffic/pkg"
	da "github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"github.com/lintang-b-s/navtraffic/pkg/spatialindex"
	"github.com/lintang-b-s/navtraffic/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// squareGraph. 1 -> 2 -> 3, 1 -> 4, no edge between 2 and 4
func squareGraph() *da.RoadNetwork {
	g := da.NewRoadNetwork()
	g.AddNode(1, 0, 0)
	g.AddNode(2, 0, 0.01)
	g.AddNode(3, 0, 0.02)
	g.AddNode(4, 0.01, 0)
	g.AddEdge(1, 2, 1.0, 1000, pkg.RESIDENTIAL)
	g.AddEdge(2, 3, 1.0, 1000, pkg.RESIDENTIAL)
	g.AddEdge(1, 4, 1.0, 1000, pkg.RESIDENTIAL)
	return g
}

func newTestApplicator(t *testing.T) *Applicator {
	t.Helper()
	resolver, err := spatialindex.NewNearestNodeResolver(zap.NewNop(), 4)
	require.NoError(t, err)
	return NewApplicator(resolver, zap.NewNop())
}

func weights(g *da.RoadNetwork) []float64 {
	w := make([]float64, 0, g.NumberOfEdges())
	g.ForEdges(func(e *da.Edge) {
		w = append(w, e.GetWeight())
	})
	return w
}

func TestApplyTrafficAdditive(t *testing.T) {
	g := squareGraph()
	a := newTestApplicator(t)

	reports := []da.DelayReport{
		da.NewDelayReport(0, 0, 0),
		// slightly off node 2, still resolves to it
		da.NewDelayReport(0.0001, 0.0099, 10),
	}

	updated, err := a.ApplyTraffic(g, reports)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 11.0, g.GetEdge(0).GetWeight())

	updated, err = a.ApplyTraffic(g, reports)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 21.0, g.GetEdge(0).GetWeight())
}

func TestApplyTrafficTrajectory(t *testing.T) {
	g := squareGraph()
	a := newTestApplicator(t)

	// 1 -> 2 -> 3, the second delay belongs to edge 2 -> 3
	updated, err := a.ApplyTraffic(g, []da.DelayReport{
		da.NewDelayReport(0, 0, 100),
		da.NewDelayReport(0, 0.01, 2),
		da.NewDelayReport(0, 0.02, 3),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.Equal(t, []float64{3.0, 4.0, 1.0}, weights(g))
}

func TestApplyTrafficSkips(t *testing.T) {
	tests := []struct {
		name    string
		reports []da.DelayReport
	}{
		{"nil", nil},
		{"empty", []da.DelayReport{}},
		{"single report", []da.DelayReport{da.NewDelayReport(0, 0, 5)}},
		{"same node", []da.DelayReport{da.NewDelayReport(0, 0, 5), da.NewDelayReport(0.0001, 0.0001, 5)}},
		{"no direct edge", []da.DelayReport{da.NewDelayReport(0, 0.01, 5), da.NewDelayReport(0.01, 0, 5)}},
		{"against edge direction", []da.DelayReport{da.NewDelayReport(0, 0.01, 5), da.NewDelayReport(0, 0, 5)}},
		{"negative delay", []da.DelayReport{da.NewDelayReport(0, 0, 0), da.NewDelayReport(0, 0.01, -5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := squareGraph()
			before := weights(g)

			updated, err := newTestApplicator(t).ApplyTraffic(g, tt.reports)
			require.NoError(t, err)
			assert.Equal(t, 0, updated)
			assert.Equal(t, before, weights(g))
			assert.Equal(t, 4, g.NumberOfNodes())
			assert.Equal(t, 3, g.NumberOfEdges())
		})
	}
}

func TestApplyTrafficNeverDecreasesWeights(t *testing.T) {
	g := squareGraph()
	a := newTestApplicator(t)

	coords := [][2]float64{{0, 0}, {0, 0.01}, {0, 0.02}, {0.01, 0}}
	delays := []float64{0, 3, -2, 7.5, 0, -1, 4}
	reports := make([]da.DelayReport, 0)
	for i, d := range delays {
		c := coords[(i*3)%len(coords)]
		reports = append(reports, da.NewDelayReport(c[0], c[1], d))
	}

	before := weights(g)
	_, err := a.ApplyTraffic(g, reports)
	require.NoError(t, err)

	after := weights(g)
	for i := range before {
		assert.GreaterOrEqual(t, after[i], before[i])
	}
}

func TestApplyTrafficEmptyGraph(t *testing.T) {
	_, err := newTestApplicator(t).ApplyTraffic(da.NewRoadNetwork(), []da.DelayReport{
		da.NewDelayReport(0, 0, 1), da.NewDelayReport(1, 1, 1),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrNodeResolution))
}

func TestApplyTrafficParallelEdges(t *testing.T) {
	g := da.NewRoadNetwork()
	g.AddNode(1, 0, 0)
	g.AddNode(2, 0, 0.01)
	g.AddEdge(1, 2, 3.0, 1000, pkg.RESIDENTIAL)
	g.AddEdge(1, 2, 1.0, 900, pkg.SERVICE)

	a := newTestApplicator(t)
	reports := []da.DelayReport{
		da.NewDelayReport(0, 0, 0),
		da.NewDelayReport(0, 0.01, 5),
	}

	updated, err := a.ApplyTraffic(g, reports)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	// the cheaper edge is the one traffic slows down
	assert.Equal(t, []float64{3.0, 6.0}, weights(g))

	// now key 0 is cheapest and takes the next delay
	_, err = a.ApplyTraffic(g, reports)
	require.NoError(t, err)
	assert.Equal(t, []float64{8.0, 6.0}, weights(g))
}

package osmparser

import (
	"testing"

	"github.com/lintang-b-s/navtraffic/pkg"
	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"github.com/lintang-b-s/navtraffic/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func way(id osm.WayID, nodes []osm.NodeID, tags ...string) *osm.Way {
	w := &osm.Way{ID: id}
	for _, n := range nodes {
		w.Nodes = append(w.Nodes, osm.WayNode{ID: n})
	}
	for i := 0; i+1 < len(tags); i += 2 {
		w.Tags = append(w.Tags, osm.Tag{Key: tags[i], Value: tags[i+1]})
	}
	return w
}

func testDocument(ways ...*osm.Way) *osm.OSM {
	return &osm.OSM{
		Nodes: osm.Nodes{
			{ID: 1, Lat: 0, Lon: 0},
			{ID: 2, Lat: 0, Lon: 0.001},
			{ID: 3, Lat: 0, Lon: 0.002},
			{ID: 4, Lat: 1, Lon: 1},
		},
		Ways: ways,
	}
}

func buildGraph(t *testing.T, p *OsmParser, doc *osm.OSM) *datastructure.RoadNetwork {
	t.Helper()
	p.ParseOSM(doc)
	return p.BuildGraph(zap.NewNop())
}

func hasEdge(g *datastructure.RoadNetwork, from, to int64) bool {
	u, okU := g.GetNodeIndex(from)
	v, okV := g.GetNodeIndex(to)
	return okU && okV && g.FindEdge(u, v) != nil
}

func TestBuildGraphDirections(t *testing.T) {
	tests := []struct {
		name      string
		way       *osm.Way
		wantEdges [][2]int64
		noEdges   [][2]int64
	}{
		{
			name:      "two way",
			way:       way(10, []osm.NodeID{1, 2, 3}, "highway", "residential"),
			wantEdges: [][2]int64{{1, 2}, {2, 1}, {2, 3}, {3, 2}},
		},
		{
			name:      "oneway",
			way:       way(10, []osm.NodeID{1, 2, 3}, "highway", "primary", "oneway", "yes"),
			wantEdges: [][2]int64{{1, 2}, {2, 3}},
			noEdges:   [][2]int64{{2, 1}, {3, 2}},
		},
		{
			name:      "reversed oneway",
			way:       way(10, []osm.NodeID{1, 2, 3}, "highway", "primary", "oneway", "-1"),
			wantEdges: [][2]int64{{2, 1}, {3, 2}},
			noEdges:   [][2]int64{{1, 2}, {2, 3}},
		},
		{
			name:      "roundabout is oneway",
			way:       way(10, []osm.NodeID{1, 2}, "highway", "tertiary", "junction", "roundabout"),
			wantEdges: [][2]int64{{1, 2}},
			noEdges:   [][2]int64{{2, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, NewOSMParser(false), testDocument(tt.way))
			for _, e := range tt.wantEdges {
				assert.True(t, hasEdge(g, e[0], e[1]), "missing edge %d -> %d", e[0], e[1])
			}
			for _, e := range tt.noEdges {
				assert.False(t, hasEdge(g, e[0], e[1]), "unexpected edge %d -> %d", e[0], e[1])
			}
			assert.Equal(t, len(tt.wantEdges), g.NumberOfEdges())
		})
	}
}

func TestBuildGraphRejectsWays(t *testing.T) {
	tests := []struct {
		name string
		way  *osm.Way
	}{
		{"footway", way(10, []osm.NodeID{1, 2}, "highway", "footway")},
		{"private", way(10, []osm.NodeID{1, 2}, "highway", "residential", "access", "private")},
		{"no motor vehicles", way(10, []osm.NodeID{1, 2}, "highway", "residential", "motor_vehicle", "no")},
		{"no highway tag", way(10, []osm.NodeID{1, 2}, "building", "yes")},
		{"single node", way(10, []osm.NodeID{1}, "highway", "residential")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, NewOSMParser(false), testDocument(tt.way))
			assert.True(t, g.IsEmpty())
		})
	}
}

func TestBuildGraphWeights(t *testing.T) {
	g := buildGraph(t, NewOSMParser(true), testDocument(
		way(10, []osm.NodeID{1, 2}, "highway", "residential", "oneway", "yes"),
		way(11, []osm.NodeID{2, 3}, "highway", "residential", "oneway", "yes", "maxspeed", "60"),
	))

	length := geo.CalculateHaversineDistance(0, 0, 0, 0.001) * 1000
	e12 := g.GetEdgeByKey(1, 2, 0)
	require.NotNil(t, e12)
	assert.InDelta(t, length, e12.GetLength(), 1e-9)
	// residential default 30 km/h
	assert.InDelta(t, length/(30*pkg.KMH_TO_METER_PER_MINUTE), e12.GetWeight(), 1e-9)
	assert.Equal(t, pkg.RESIDENTIAL, e12.GetHighwayType())

	e23 := g.GetEdgeByKey(2, 3, 0)
	require.NotNil(t, e23)
	assert.InDelta(t, length/(60*pkg.NERF_MAXSPEED_OSM*pkg.KMH_TO_METER_PER_MINUTE), e23.GetWeight(), 1e-9)
}

func TestBuildGraphParallelSegments(t *testing.T) {
	g := buildGraph(t, NewOSMParser(false), testDocument(
		way(20, []osm.NodeID{1, 2}, "highway", "service", "oneway", "yes"),
		way(10, []osm.NodeID{1, 2}, "highway", "primary", "oneway", "yes"),
	))

	// ways are added by ascending id, so the primary segment gets key 0
	require.Equal(t, 2, g.NumberOfEdges())
	assert.Equal(t, pkg.PRIMARY, g.GetEdgeByKey(1, 2, 0).GetHighwayType())
	assert.Equal(t, pkg.SERVICE, g.GetEdgeByKey(1, 2, 1).GetHighwayType())
}

func TestBuildGraphBoundingBox(t *testing.T) {
	p := NewOSMParser(false)
	p.SetBoundingBox(datastructure.NewBoundingBox(-0.01, -0.01, 0.01, 0.0015))

	g := buildGraph(t, p, testDocument(way(10, []osm.NodeID{1, 2, 3}, "highway", "residential")))

	assert.True(t, g.HasNode(1))
	assert.True(t, g.HasNode(2))
	assert.False(t, g.HasNode(3))
	assert.Equal(t, 2, g.NumberOfEdges())
}

func TestParseMaxSpeed(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"50", 50},
		{"50 km/h", 50},
		{"30 mph", 30 * 1.60934},
		{"10 knots", 10 * 1.852},
		{"none", 0},
		{"", 0},
		{"-5", 0},
		{"NaN", 0},
		{"Inf", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, parseMaxSpeed(tt.in), 1e-9)
		})
	}
}

func TestBuildGraphKeepLargestComponent(t *testing.T) {
	doc := testDocument(
		way(10, []osm.NodeID{1, 2}, "highway", "residential"),
		way(11, []osm.NodeID{2, 3}, "highway", "primary", "oneway", "yes"),
	)

	p := NewOSMParser(false)
	p.KeepLargestComponent(true)
	g := buildGraph(t, p, doc)

	assert.Equal(t, 2, g.NumberOfNodes())
	assert.True(t, hasEdge(g, 1, 2))
	assert.True(t, hasEdge(g, 2, 1))
	assert.False(t, g.HasNode(3))
}

func TestBuildGraphIgnoresNonFiniteMaxSpeed(t *testing.T) {
	doc := testDocument(way(10, []osm.NodeID{1, 2}, "highway", "residential", "maxspeed", "NaN"))

	g := buildGraph(t, NewOSMParser(true), doc)
	require.Equal(t, 2, g.NumberOfEdges())

	length := geo.CalculateHaversineDistance(0, 0, 0, 0.001) * 1000
	g.ForEdges(func(e *datastructure.Edge) {
		assert.InDelta(t, length/(30*pkg.KMH_TO_METER_PER_MINUTE), e.GetWeight(), 1e-9)
	})
}

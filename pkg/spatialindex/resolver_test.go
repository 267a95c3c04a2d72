package spatialindex

import (
	"errors"
	"testing"

	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"github.com/lintang-b-s/navtraffic/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNearest(t *testing.T) {
	g := datastructure.NewRoadNetwork()
	g.AddNode(100, -7.7606, 110.3769)
	g.AddNode(200, -7.7611, 110.3781)
	g.AddNode(300, -7.7700, 110.3900)
	g.AddNode(400, 60.008, 10.0)
	g.AddNode(500, 60.0, 10.012)

	resolver, err := NewNearestNodeResolver(zap.NewNop(), 4)
	require.NoError(t, err)

	tests := []struct {
		name   string
		lat    float64
		lon    float64
		wantId int64
	}{
		{"exact node", -7.7611, 110.3781, 200},
		{"close to first", -7.7607, 110.3770, 100},
		{"far away snaps anyway", -8.5, 111.0, 300},
		// at 60 deg a degree of longitude is half as long as a degree of latitude
		{"longitude scaled by latitude", 60.0, 10.0, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := resolver.Nearest(g, tt.lat, tt.lon)
			require.NoError(t, err)
			assert.Equal(t, tt.wantId, g.GetNode(u).GetID())
		})
	}
}

func TestNearestTieBreaksOnLowestIndex(t *testing.T) {
	g := datastructure.NewRoadNetwork()
	g.AddNode(7, 0, 2)
	g.AddNode(3, 0, 0)

	resolver, err := NewNearestNodeResolver(zap.NewNop(), 4)
	require.NoError(t, err)

	u, err := resolver.Nearest(g, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, datastructure.Index(0), u)
}

func TestNearestEmptyGraph(t *testing.T) {
	resolver, err := NewNearestNodeResolver(zap.NewNop(), 4)
	require.NoError(t, err)

	_, err = resolver.Nearest(datastructure.NewRoadNetwork(), 0, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrNodeResolution))

	_, err = resolver.Nearest(nil, 0, 0)
	assert.True(t, errors.Is(err, util.ErrNodeResolution))
}

func TestNearestRebuildsIndexWhenGraphGrows(t *testing.T) {
	g := datastructure.NewRoadNetwork()
	g.AddNode(1, 0, 0)

	resolver, err := NewNearestNodeResolver(zap.NewNop(), 4)
	require.NoError(t, err)

	u, err := resolver.Nearest(g, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), g.GetNode(u).GetID())

	g.AddNode(2, 1, 1)
	u, err = resolver.Nearest(g, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), g.GetNode(u).GetID())
}

func TestNearestSharesIndexAcrossCopies(t *testing.T) {
	g := datastructure.NewRoadNetwork()
	g.AddNode(1, 0, 0)
	g.AddNode(2, 0, 1)

	resolver, err := NewNearestNodeResolver(zap.NewNop(), 4)
	require.NoError(t, err)

	data, err := g.MarshalBinary()
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		decoded, err := datastructure.UnmarshalRoadNetwork(data)
		require.NoError(t, err)
		u, err := resolver.Nearest(decoded, 0, 0.9)
		require.NoError(t, err)
		assert.Equal(t, int64(2), decoded.GetNode(u).GetID())

		u, err = resolver.Nearest(g.Clone(), 0, 0.1)
		require.NoError(t, err)
		assert.Equal(t, datastructure.Index(0), u)
	}

	assert.Equal(t, 1, resolver.cache.Len())
	rt, ok := resolver.cache.Peek(g.GetTopologyID())
	require.True(t, ok)
	assert.Equal(t, 2, rt.Len())
}

func TestNearestSeparatesDivergedCopies(t *testing.T) {
	g := datastructure.NewRoadNetwork()
	g.AddNode(1, 0, 0)

	resolver, err := NewNearestNodeResolver(zap.NewNop(), 4)
	require.NoError(t, err)
	_, err = resolver.Nearest(g, 0, 0)
	require.NoError(t, err)

	a, b := g.Clone(), g.Clone()
	a.AddNode(2, 0, 1)
	b.AddNode(3, 0, -1)

	u, err := resolver.Nearest(a, 0, 0.9)
	require.NoError(t, err)
	assert.Equal(t, int64(2), a.GetNode(u).GetID())

	u, err = resolver.Nearest(b, 0, -0.9)
	require.NoError(t, err)
	assert.Equal(t, int64(3), b.GetNode(u).GetID())

	assert.Equal(t, 3, resolver.cache.Len())
}

func TestSnapDistanceMeter(t *testing.T) {
	g := datastructure.NewRoadNetwork()
	u := g.AddNode(1, 0, 0)

	// one degree along the equator
	assert.InDelta(t, 111195, SnapDistanceMeter(g, u, 0, 1), 10)
}

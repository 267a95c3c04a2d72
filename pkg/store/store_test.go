package store

import (
	"context"
	"errors"
	"testing"

	"github.com/lintang-b-s/navtraffic/pkg"
	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"github.com/lintang-b-s/navtraffic/pkg/geo"
	"github.com/lintang-b-s/navtraffic/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *BadgerGraphStore {
	t.Helper()
	db, err := OpenBadger("", true, zap.NewNop())
	require.NoError(t, err)
	s := NewBadgerGraphStore(db, 0, zap.NewNop())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGraphRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	exists, err := s.Exists(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, exists)

	missing, err := s.GetGraph(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, missing)

	g := datastructure.NewRoadNetwork()
	g.AddNode(1, 1.5, 2.5)
	g.AddNode(2, 1.6, 2.6)
	g.AddEdge(1, 2, 3.75, 120, pkg.SECONDARY)
	g.SetEndpoints(datastructure.NewRouteEndpoints(1.5, 2.5, 1.6, 2.6))
	require.NoError(t, s.SetGraph(ctx, "alice", g))

	exists, err = s.Exists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := s.GetGraph(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.NumberOfNodes())
	assert.Equal(t, 3.75, got.GetEdge(0).GetWeight())
	assert.Equal(t, geo.NewCoordinate(1.6, 2.6), got.GetEndpoints().Destination)

	// overwrite, last write wins
	g.AddDelay(0, 10)
	require.NoError(t, s.SetGraph(ctx, "alice", g))
	got, err = s.GetGraph(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 13.75, got.GetEdge(0).GetWeight())

	// users are isolated
	other, err := s.GetGraph(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestPathRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	missing, err := s.GetPath(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, missing)

	route := datastructure.NewRouteResult([]geo.Coordinate{geo.NewCoordinate(1, 2), geo.NewCoordinate(3, 4)},
		[]int64{10, 20}, 4.5)
	require.NoError(t, s.SetPath(ctx, "alice", route))

	got, err := s.GetPath(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, route, got)

	// path key does not create a graph session
	exists, err := s.Exists(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStoreCancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetGraph(ctx, "alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrStoreUnavailable))
}

func TestStoreClosed(t *testing.T) {
	db, err := OpenBadger("", true, zap.NewNop())
	require.NoError(t, err)
	s := NewBadgerGraphStore(db, 0, zap.NewNop())
	require.NoError(t, s.Close())

	err = s.SetGraph(context.Background(), "alice", datastructure.NewRoadNetwork())
	require.Error(t, err)
	assert.Equal(t, util.KindStoreUnavailable, util.KindOf(err))
}

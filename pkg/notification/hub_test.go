package notification

import (
	"encoding/json"
	"net"
	"testing"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"github.com/lintang-b-s/navtraffic/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHubSendWithoutConnection(t *testing.T) {
	hub := NewHub(zap.NewNop())

	sent, err := hub.Send("alice", datastructure.NewUnreachableRouteResult())
	require.NoError(t, err)
	assert.False(t, sent)
	assert.False(t, hub.IsActive("alice"))
}

func TestHubSendDeliversRoute(t *testing.T) {
	hub := NewHub(zap.NewNop())
	server, client := net.Pipe()
	defer client.Close()

	hub.Register("alice", server)
	require.True(t, hub.IsActive("alice"))

	route := datastructure.NewRouteResult(
		[]geo.Coordinate{geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 1)}, []int64{1, 2}, 2.0)

	type result struct {
		sent bool
		err  error
	}
	done := make(chan result, 1)
	go func() {
		sent, err := hub.Send("alice", route)
		done <- result{sent, err}
	}()

	data, op, err := wsutil.ReadServerData(client)
	require.NoError(t, err)
	assert.Equal(t, ws.OpText, op)

	var frame struct {
		Data RouteMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, [][2]float64{{0, 0}, {0, 1}}, frame.Data.Path)
	assert.Equal(t, 2.0, frame.Data.Cost)
	assert.True(t, frame.Data.Reachable)
	assert.NotEmpty(t, frame.Data.Polyline)

	res := <-done
	require.NoError(t, res.err)
	assert.True(t, res.sent)
}

func TestHubRemove(t *testing.T) {
	hub := NewHub(zap.NewNop())
	server1, client1 := net.Pipe()
	server2, client2 := net.Pipe()
	defer client1.Close()
	defer client2.Close()

	first := hub.Register("bob", server1)
	second := hub.Register("bob", server2)

	// stale connection does not unregister the newer one
	hub.Remove(first)
	assert.True(t, hub.IsActive("bob"))

	hub.Remove(second)
	assert.False(t, hub.IsActive("bob"))
}

func TestHubSendFailureDropsConnection(t *testing.T) {
	hub := NewHub(zap.NewNop())
	server, client := net.Pipe()
	client.Close()

	hub.Register("carol", server)
	sent, err := hub.Send("carol", datastructure.NewUnreachableRouteResult())
	assert.Error(t, err)
	assert.False(t, sent)
	assert.False(t, hub.IsActive("carol"))
}

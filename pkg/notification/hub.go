package notification

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"github.com/lintang-b-s/navtraffic/pkg/geo"
	"github.com/lintang-b-s/navtraffic/pkg/metrics"
	"go.uber.org/zap"
)

type envelope map[string]interface{}

// RouteMessage. websocket payload of a re-planned route
type RouteMessage struct {
	Path      [][2]float64 `json:"path"`
	Polyline  string       `json:"polyline"`
	Cost      float64      `json:"cost"`
	Reachable bool         `json:"reachable"`
}

func NewRouteMessage(route *datastructure.RouteResult) RouteMessage {
	path := make([][2]float64, 0, len(route.GetPath()))
	for _, c := range route.GetPath() {
		path = append(path, [2]float64{c.Lat, c.Lon})
	}
	return RouteMessage{
		Path:      path,
		Polyline:  geo.PolylineFromCoords(route.GetPath()),
		Cost:      route.GetCost(),
		Reachable: route.IsReachable(),
	}
}

// Conn. one websocket client of a user
type Conn struct {
	io     sync.Mutex
	conn   io.ReadWriteCloser
	userId string
	hub    *Hub
}

func (c *Conn) UserID() string {
	return c.userId
}

// Receive. consume one client frame. clients only send control frames (ping/close), data frames are discarded.
func (c *Conn) Receive() error {
	c.io.Lock()
	defer c.io.Unlock()

	h, r, err := wsutil.NextReader(c.conn, ws.StateServerSide)
	if err != nil {
		return err
	}
	if h.OpCode.IsControl() {
		return wsutil.ControlFrameHandler(c.conn, ws.StateServerSide)(h, r)
	}
	_, err = io.Copy(io.Discard, r)
	return err
}

func (c *Conn) write(x interface{}) error {
	w := wsutil.NewWriter(c.conn, ws.StateServerSide, ws.OpText)
	encoder := json.NewEncoder(w)

	c.io.Lock()
	defer c.io.Unlock()

	if err := encoder.Encode(x); err != nil {
		return err
	}

	return w.Flush()
}

// Hub. registry of live websocket connections keyed by user id. a user has at most one connection,
// registering again replaces (and closes) the previous one.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Conn
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		conns: make(map[string]*Conn),
		log:   log,
	}
}

func (h *Hub) Register(userId string, conn io.ReadWriteCloser) *Conn {
	c := &Conn{
		conn:   conn,
		userId: userId,
		hub:    h,
	}

	h.mu.Lock()
	old, replaced := h.conns[userId]
	h.conns[userId] = c
	h.mu.Unlock()

	if replaced {
		old.conn.Close()
		h.log.Info("websocket connection replaced", zap.String("user_id", userId))
	} else {
		metrics.WebsocketConnections.Inc()
	}
	return c
}

// Remove. unregister c & close it. a newer connection of the same user is left untouched.
func (h *Hub) Remove(c *Conn) {
	h.mu.Lock()
	cur, ok := h.conns[c.userId]
	if ok && cur == c {
		delete(h.conns, c.userId)
	}
	h.mu.Unlock()

	c.conn.Close()
	if ok && cur == c {
		metrics.WebsocketConnections.Dec()
	}
}

func (h *Hub) RemoveAll() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[string]*Conn)
	h.mu.Unlock()

	for _, c := range conns {
		c.conn.Close()
		metrics.WebsocketConnections.Dec()
	}
}

func (h *Hub) IsActive(userId string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[userId]
	return ok
}

// Send. push route to the user's connection. (false, nil) if the user has no open connection.
// a failed write drops the connection.
func (h *Hub) Send(userId string, route *datastructure.RouteResult) (bool, error) {
	h.mu.RLock()
	c, ok := h.conns[userId]
	h.mu.RUnlock()
	if !ok {
		metrics.Notifications.WithLabelValues("no_channel").Inc()
		return false, nil
	}

	if err := c.write(envelope{"data": NewRouteMessage(route)}); err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		h.log.Warn("websocket write failed, dropping connection", zap.String("user_id", userId), zap.Error(err))
		h.Remove(c)
		return false, err
	}

	metrics.Notifications.WithLabelValues("sent").Inc()
	return true, nil
}

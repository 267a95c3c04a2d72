package datastructure

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/lintang-b-s/navtraffic/pkg"
	"github.com/lintang-b-s/navtraffic/pkg/geo"
)

type Index uint32

const INVALID_NODE_INDEX Index = ^Index(0)

type Node struct {
	id  int64 // osm node id
	lat float64
	lon float64
}

func NewNode(id int64, lat, lon float64) Node {
	return Node{id: id, lat: lat, lon: lon}
}

func (n *Node) GetID() int64 {
	return n.id
}

func (n *Node) GetLat() float64 {
	return n.lat
}

func (n *Node) GetLon() float64 {
	return n.lon
}

// Edge. directed road segment from -> to. key distinguishes parallel edges between the same node pair.
type Edge struct {
	edgeId Index
	from   Index
	to     Index
	key    uint32
	weight float64 // travel time in minutes, including reported delays
	length float64 // meter
	hwType pkg.OsmHighwayType
}

func (e *Edge) GetEdgeId() Index {
	return e.edgeId
}

func (e *Edge) GetFrom() Index {
	return e.from
}

func (e *Edge) GetTo() Index {
	return e.to
}

func (e *Edge) GetKey() uint32 {
	return e.key
}

func (e *Edge) GetWeight() float64 {
	return e.weight
}

func (e *Edge) GetLength() float64 {
	return e.length
}

func (e *Edge) GetHighwayType() pkg.OsmHighwayType {
	return e.hwType
}

// RouteEndpoints. origin & destination of the user route, kept as graph metadata so a refresh can re-plan
// without the caller resupplying them.
type RouteEndpoints struct {
	Origin      geo.Coordinate
	Destination geo.Coordinate
}

func NewRouteEndpoints(origLat, origLon, dstLat, dstLon float64) *RouteEndpoints {
	return &RouteEndpoints{
		Origin:      geo.NewCoordinate(origLat, origLon),
		Destination: geo.NewCoordinate(dstLat, dstLon),
	}
}

// RoadNetwork. directed multigraph of drivable road segments.
// nodes are stored densely and addressed by Index, edges of a node are kept in insertion order.
type RoadNetwork struct {
	nodes     []Node
	nodeIndex map[int64]Index
	edges     []Edge
	outEdges  [][]Index
	// number of parallel edges created so far for (from, to)
	parallel map[[2]Index]uint32

	// identifies the node set. shared by clones & decoded snapshots, traffic never changes it.
	// a copy that gains a node gets a fresh id.
	topologyId     uuid.UUID
	sharedTopology bool
	endpoints      *RouteEndpoints
}

func NewRoadNetwork() *RoadNetwork {
	return &RoadNetwork{
		nodes:      make([]Node, 0),
		nodeIndex:  make(map[int64]Index),
		edges:      make([]Edge, 0),
		outEdges:   make([][]Index, 0),
		parallel:   make(map[[2]Index]uint32),
		topologyId: uuid.New(),
	}
}

func NewRoadNetworkWithSize(numNodes, numEdges int) *RoadNetwork {
	return &RoadNetwork{
		nodes:      make([]Node, 0, numNodes),
		nodeIndex:  make(map[int64]Index, numNodes),
		edges:      make([]Edge, 0, numEdges),
		outEdges:   make([][]Index, 0, numNodes),
		parallel:   make(map[[2]Index]uint32, numEdges),
		topologyId: uuid.New(),
	}
}

// AddNode. add node with osm id to the graph. adding an existing id returns the existing index and keeps its coordinate.
func (g *RoadNetwork) AddNode(id int64, lat, lon float64) Index {
	if idx, ok := g.nodeIndex[id]; ok {
		return idx
	}
	idx := Index(len(g.nodes))
	g.nodes = append(g.nodes, NewNode(id, lat, lon))
	g.outEdges = append(g.outEdges, make([]Index, 0, 2))
	g.nodeIndex[id] = idx
	if g.sharedTopology {
		g.topologyId = uuid.New()
		g.sharedTopology = false
	}
	return idx
}

// AddEdge. add directed edge between two existing nodes (by osm id) and return its parallel key.
func (g *RoadNetwork) AddEdge(fromId, toId int64, weight, length float64, hwType pkg.OsmHighwayType) (uint32, error) {
	from, ok := g.nodeIndex[fromId]
	if !ok {
		return 0, fmt.Errorf("edge tail node %d not found", fromId)
	}
	to, ok := g.nodeIndex[toId]
	if !ok {
		return 0, fmt.Errorf("edge head node %d not found", toId)
	}

	pair := [2]Index{from, to}
	key := g.parallel[pair]
	if err := g.addEdge(from, to, key, weight, length, hwType); err != nil {
		return 0, err
	}
	return key, nil
}

// AddEdgeWithKey. add directed edge with an explicit parallel key, used when decoding snapshots.
func (g *RoadNetwork) AddEdgeWithKey(fromId, toId int64, key uint32, weight, length float64,
	hwType pkg.OsmHighwayType) error {
	from, ok := g.nodeIndex[fromId]
	if !ok {
		return fmt.Errorf("edge tail node %d not found", fromId)
	}
	to, ok := g.nodeIndex[toId]
	if !ok {
		return fmt.Errorf("edge head node %d not found", toId)
	}
	for _, eId := range g.outEdges[from] {
		if g.edges[eId].to == to && g.edges[eId].key == key {
			return fmt.Errorf("duplicate edge %d -> %d with key %d", fromId, toId, key)
		}
	}
	return g.addEdge(from, to, key, weight, length, hwType)
}

func (g *RoadNetwork) addEdge(from, to Index, key uint32, weight, length float64, hwType pkg.OsmHighwayType) error {
	if !(weight >= 0) || math.IsInf(weight, 1) {
		return fmt.Errorf("invalid edge weight %f", weight)
	}
	edgeId := Index(len(g.edges))
	g.edges = append(g.edges, Edge{
		edgeId: edgeId,
		from:   from,
		to:     to,
		key:    key,
		weight: weight,
		length: length,
		hwType: hwType,
	})
	g.outEdges[from] = append(g.outEdges[from], edgeId)

	pair := [2]Index{from, to}
	if key+1 > g.parallel[pair] {
		g.parallel[pair] = key + 1
	}
	return nil
}

func (g *RoadNetwork) NumberOfNodes() int {
	return len(g.nodes)
}

func (g *RoadNetwork) NumberOfEdges() int {
	return len(g.edges)
}

func (g *RoadNetwork) IsEmpty() bool {
	return len(g.nodes) == 0
}

func (g *RoadNetwork) GetNode(u Index) *Node {
	return &g.nodes[u]
}

func (g *RoadNetwork) GetNodeCoordinates(u Index) (float64, float64) {
	return g.nodes[u].lat, g.nodes[u].lon
}

// GetNodeIndex. dense index of the node with osm id
func (g *RoadNetwork) GetNodeIndex(id int64) (Index, bool) {
	idx, ok := g.nodeIndex[id]
	return idx, ok
}

func (g *RoadNetwork) HasNode(id int64) bool {
	_, ok := g.nodeIndex[id]
	return ok
}

func (g *RoadNetwork) GetEdge(e Index) *Edge {
	return &g.edges[e]
}

// ForOutEdgesOf. iterate outgoing edges of u in insertion order
func (g *RoadNetwork) ForOutEdgesOf(u Index, handle func(e *Edge)) {
	for _, eId := range g.outEdges[u] {
		handle(&g.edges[eId])
	}
}

func (g *RoadNetwork) ForNodes(handle func(u Index, n *Node)) {
	for i := range g.nodes {
		handle(Index(i), &g.nodes[i])
	}
}

func (g *RoadNetwork) ForEdges(handle func(e *Edge)) {
	for i := range g.edges {
		handle(&g.edges[i])
	}
}

// FindEdge. cheapest direct edge u -> v, the one a shortest path would take. equal weights resolve to the
// lowest parallel key. nil if none.
func (g *RoadNetwork) FindEdge(u, v Index) *Edge {
	if int(u) >= len(g.nodes) || int(v) >= len(g.nodes) {
		return nil
	}
	var found *Edge
	for _, eId := range g.outEdges[u] {
		e := &g.edges[eId]
		if e.to != v {
			continue
		}
		if found == nil || e.weight < found.weight || (e.weight == found.weight && e.key < found.key) {
			found = e
		}
	}
	return found
}

// GetEdgeByKey. edge u -> v with parallel key, nil if none.
func (g *RoadNetwork) GetEdgeByKey(fromId, toId int64, key uint32) *Edge {
	u, ok := g.nodeIndex[fromId]
	if !ok {
		return nil
	}
	v, ok := g.nodeIndex[toId]
	if !ok {
		return nil
	}
	for _, eId := range g.outEdges[u] {
		e := &g.edges[eId]
		if e.to == v && e.key == key {
			return e
		}
	}
	return nil
}

// AddDelay. increase edge weight by delay. weights never decrease, negative delays are rejected.
func (g *RoadNetwork) AddDelay(e Index, delay float64) bool {
	if delay < 0 || int(e) >= len(g.edges) {
		return false
	}
	g.edges[e].weight += delay
	return true
}

func (g *RoadNetwork) GetTopologyID() uuid.UUID {
	return g.topologyId
}

func (g *RoadNetwork) GetEndpoints() *RouteEndpoints {
	return g.endpoints
}

func (g *RoadNetwork) SetEndpoints(endpoints *RouteEndpoints) {
	g.endpoints = endpoints
}

// NodePathToCoordinates. translate node path into (lat, lon) pairs
func (g *RoadNetwork) NodePathToCoordinates(path []Index) []geo.Coordinate {
	coords := make([]geo.Coordinate, 0, len(path))
	for _, u := range path {
		coords = append(coords, geo.NewCoordinate(g.nodes[u].lat, g.nodes[u].lon))
	}
	return coords
}

// NodePathToIDs. translate node path into osm node ids
func (g *RoadNetwork) NodePathToIDs(path []Index) []int64 {
	ids := make([]int64, 0, len(path))
	for _, u := range path {
		ids = append(ids, g.nodes[u].id)
	}
	return ids
}

// Clone. deep copy, weights of the copy can be mutated independently. the copy keeps the topology id
// until a node is added to it.
func (g *RoadNetwork) Clone() *RoadNetwork {
	c := &RoadNetwork{
		nodes:      make([]Node, len(g.nodes)),
		nodeIndex:  make(map[int64]Index, len(g.nodeIndex)),
		edges:      make([]Edge, len(g.edges)),
		outEdges:   make([][]Index, len(g.outEdges)),
		parallel:   make(map[[2]Index]uint32, len(g.parallel)),
		topologyId: g.topologyId,

		sharedTopology: true,
	}
	copy(c.nodes, g.nodes)
	copy(c.edges, g.edges)
	for id, idx := range g.nodeIndex {
		c.nodeIndex[id] = idx
	}
	for i, out := range g.outEdges {
		c.outEdges[i] = append(make([]Index, 0, len(out)), out...)
	}
	for pair, n := range g.parallel {
		c.parallel[pair] = n
	}
	if g.endpoints != nil {
		endpoints := *g.endpoints
		c.endpoints = &endpoints
	}
	return c
}

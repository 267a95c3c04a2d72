package osmparser

import (
	"context"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lintang-b-s/navtraffic/pkg"
	"github.com/lintang-b-s/navtraffic/pkg/costfunction"
	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"github.com/lintang-b-s/navtraffic/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

type nodeCoord struct {
	lat float64
	lon float64
}

type osmWay struct {
	id     int64
	nodes  []int64
	hwTag  string
	speed  float64 // km/h
	oneWay bool
	// only meaningful if oneWay. false = way is drawn against the driving direction (oneway=-1)
	forward bool
}

// OsmParser. collects drivable ways & their nodes and turns them into a RoadNetwork.
// every pair of consecutive way nodes becomes one edge (or two for two-way streets).
type OsmParser struct {
	acceptedNodeMap map[int64]nodeCoord
	ways            []osmWay
	useMaxSpeed     bool
	bbox            *datastructure.BoundingBox
	timeFunction    *costfunction.TimeFunction
	largestSCCOnly  bool
}

func NewOSMParser(useMaxSpeed bool) *OsmParser {
	return &OsmParser{
		acceptedNodeMap: make(map[int64]nodeCoord),
		ways:            make([]osmWay, 0),
		useMaxSpeed:     useMaxSpeed,
		timeFunction:    costfunction.NewTimeCostFunction(),
	}
}

// SetBoundingBox. nodes outside bbox are dropped, way segments touching them are skipped
func (p *OsmParser) SetBoundingBox(bbox *datastructure.BoundingBox) {
	p.bbox = bbox
}

// KeepLargestComponent. drop every node outside the biggest strongly connected component when building the graph.
// ways clipped by a region boundary otherwise leave dead-end fragments a route can snap onto but never leave.
func (p *OsmParser) KeepLargestComponent(keep bool) {
	p.largestSCCOnly = keep
}

func (p *OsmParser) AddNode(node *osm.Node) {
	if p.bbox != nil && !p.bbox.Contains(node.Lat, node.Lon) {
		return
	}
	p.acceptedNodeMap[int64(node.ID)] = nodeCoord{lat: node.Lat, lon: node.Lon}
}

func (p *OsmParser) AddWay(way *osm.Way) {
	if len(way.Nodes) < 2 || !acceptOsmWay(way) {
		return
	}

	hwTag := way.Tags.Find("highway")
	speed := 0.0
	if p.useMaxSpeed {
		speed = parseMaxSpeed(way.Tags.Find("maxspeed")) * pkg.NERF_MAXSPEED_OSM
	}
	if speed == 0 {
		speed = pkg.HighwayDefaultSpeed(pkg.GetHighwayType(hwTag))
	}

	oneWay, forward := wayDirection(way)

	nodes := make([]int64, 0, len(way.Nodes))
	for _, n := range way.Nodes {
		nodes = append(nodes, int64(n.ID))
	}

	p.ways = append(p.ways, osmWay{
		id:      int64(way.ID),
		nodes:   nodes,
		hwTag:   hwTag,
		speed:   speed,
		oneWay:  oneWay,
		forward: forward,
	})
}

// ParseOSM. collect nodes & ways of an osm document (e.g. an overpass xml response)
func (p *OsmParser) ParseOSM(o *osm.OSM) {
	for _, node := range o.Nodes {
		p.AddNode(node)
	}
	for _, way := range o.Ways {
		p.AddWay(way)
	}
}

// ParsePBF. stream an .osm.pbf extract. relations are skipped.
func (p *OsmParser) ParsePBF(ctx context.Context, r io.Reader, logger *zap.Logger) error {
	scanner := osmpbf.New(ctx, r, 1)
	// must not be parallel
	defer scanner.Close()
	scanner.SkipRelations = true

	countWays := 0
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			p.AddNode(o)
		case *osm.Way:
			if (countWays+1)%100000 == 0 {
				logger.Sugar().Infof("processing openstreetmap ways: %d...", countWays+1)
			}
			countWays++
			p.AddWay(o)
		}
	}
	return scanner.Err()
}

// BuildGraph. build the road network out of the collected ways. ways are processed by ascending osm way id
// so the same input always yields the same node & edge order.
func (p *OsmParser) BuildGraph(logger *zap.Logger) *datastructure.RoadNetwork {
	sort.Slice(p.ways, func(i, j int) bool {
		return p.ways[i].id < p.ways[j].id
	})

	graph := datastructure.NewRoadNetworkWithSize(len(p.acceptedNodeMap), 2*len(p.ways))

	skipped, rejected := 0, 0
	for _, way := range p.ways {
		hwType := pkg.GetHighwayType(way.hwTag)
		for i := 0; i+1 < len(way.nodes); i++ {
			fromId, toId := way.nodes[i], way.nodes[i+1]
			from, okFrom := p.acceptedNodeMap[fromId]
			to, okTo := p.acceptedNodeMap[toId]
			if !okFrom || !okTo || fromId == toId {
				skipped++
				continue
			}

			graph.AddNode(fromId, from.lat, from.lon)
			graph.AddNode(toId, to.lat, to.lon)

			length := geo.CalculateHaversineDistance(from.lat, from.lon, to.lat, to.lon) * 1000
			weight := p.timeFunction.TravelTime(length, way.speed)

			if !way.oneWay || way.forward {
				if _, err := graph.AddEdge(fromId, toId, weight, length, hwType); err != nil {
					rejected++
					logger.Debug("rejected way segment", zap.Int64("way", way.id), zap.Error(err))
				}
			}
			if !way.oneWay || !way.forward {
				if _, err := graph.AddEdge(toId, fromId, weight, length, hwType); err != nil {
					rejected++
					logger.Debug("rejected way segment", zap.Int64("way", way.id), zap.Error(err))
				}
			}
		}
	}

	if p.largestSCCOnly {
		numNodes := graph.NumberOfNodes()
		sub, err := graph.LargestStronglyConnectedComponent()
		if err != nil {
			logger.Warn("keeping the whole road network, largest component extraction failed", zap.Error(err))
		} else {
			graph = sub
			logger.Debug("kept largest strongly connected component",
				zap.Int("removed_nodes", numNodes-graph.NumberOfNodes()))
		}
	}

	logger.Debug("road network built",
		zap.Int("nodes", graph.NumberOfNodes()), zap.Int("edges", graph.NumberOfEdges()),
		zap.Int("skipped_segments", skipped), zap.Int("rejected_edges", rejected))
	return graph
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if isRestricted(way.Tags.Find("access")) || isRestricted(way.Tags.Find("motor_vehicle")) {
		return false
	}
	if highway != "" {
		if _, ok := acceptedHighway[highway]; ok {
			return true
		}
	} else if junction != "" {
		return true
	}
	return false
}

func isRestricted(value string) bool {
	return value == "no" || value == "private"
}

// wayDirection. (oneWay, forward)
func wayDirection(way *osm.Way) (bool, bool) {
	switch way.Tags.Find("oneway") {
	case "yes", "true", "1":
		return true, true
	case "-1", "reverse":
		return true, false
	case "no", "false", "0":
		return false, true
	}
	if junction := way.Tags.Find("junction"); junction == "roundabout" || junction == "circular" {
		return true, true
	}
	if way.Tags.Find("highway") == "motorway" {
		return true, true
	}
	return false, true
}

// parseMaxSpeed. maxspeed tag in km/h, 0 if unparseable
func parseMaxSpeed(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	factor := 1.0
	switch {
	case strings.HasSuffix(value, "mph"):
		factor = 1.60934
		value = strings.TrimSuffix(value, "mph")
	case strings.HasSuffix(value, "km/h"):
		value = strings.TrimSuffix(value, "km/h")
	case strings.HasSuffix(value, "knots"):
		factor = 1.852
		value = strings.TrimSuffix(value, "knots")
	}

	speed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(speed) || math.IsInf(speed, 0) || speed <= 0 {
		return 0
	}
	return speed * factor
}

var (
	acceptedHighway = map[string]struct{}{
		"motorway":         struct{}{},
		"motorway_link":    struct{}{},
		"trunk":            struct{}{},
		"trunk_link":       struct{}{},
		"primary":          struct{}{},
		"primary_link":     struct{}{},
		"secondary":        struct{}{},
		"secondary_link":   struct{}{},
		"residential":      struct{}{},
		"residential_link": struct{}{},
		"service":          struct{}{},
		"tertiary":         struct{}{},
		"tertiary_link":    struct{}{},
		"road":             struct{}{},
		"unclassified":     struct{}{},
		"living_street":    struct{}{},
		"motorroad":        struct{}{},
	}
)

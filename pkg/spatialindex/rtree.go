package spatialindex

import (
	"math"

	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"github.com/lintang-b-s/navtraffic/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// Rtree. r-tree over the nodes of one road network. every node is a point leaf ([lon, lat]).
type Rtree struct {
	tr       *rtree.RTreeG[datastructure.Index]
	numNodes int
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[datastructure.Index]
	return &Rtree{
		tr: &tr,
	}
}

// Build. insert every node of graph as a point
func (rt *Rtree) Build(graph *datastructure.RoadNetwork, log *zap.Logger) {
	log.Debug("Building R-tree spatial index...", zap.Int("nodes", graph.NumberOfNodes()))
	graph.ForNodes(func(u datastructure.Index, n *datastructure.Node) {
		point := [2]float64{n.GetLon(), n.GetLat()}
		rt.tr.Insert(point, point, u)
	})
	rt.numNodes = graph.NumberOfNodes()
	log.Debug("R-tree spatial index built.")
}

func (rt *Rtree) Len() int {
	return rt.numNodes
}

// Nearest. closest node to (qLat, qLon), distance measured on the equirectangular projection around qLat.
// equally distant nodes resolve to the lowest node index. false if the tree is empty.
func (rt *Rtree) Nearest(qLat, qLon float64) (datastructure.Index, bool) {
	scale := geo.EquirectangularScale(qLat)

	var (
		best     datastructure.Index
		bestDist float64
		found    bool
	)

	rt.tr.Nearby(
		func(min, max [2]float64, data datastructure.Index, item bool) float64 {
			return boxDist(qLon, qLat, min, max, scale)
		},
		func(min, max [2]float64, data datastructure.Index, dist float64) bool {
			if !found {
				best, bestDist, found = data, dist, true
				return true
			}
			if dist > bestDist {
				return false
			}
			if data < best {
				best = data
			}
			return true
		},
	)

	return best, found
}

// boxDist. squared distance from (x, y) to the rectangle [min, max], x axis scaled by scale
func boxDist(x, y float64, min, max [2]float64, scale float64) float64 {
	dx := axisDist(x, min[0], max[0]) * scale
	dy := axisDist(y, min[1], max[1])
	return dx*dx + dy*dy
}

func axisDist(v, lo, hi float64) float64 {
	if v < lo {
		return lo - v
	}
	if v > hi {
		return v - hi
	}
	return 0
}

// SnapDistanceMeter. distance in meter between (lat, lon) and node u
func SnapDistanceMeter(graph *datastructure.RoadNetwork, u datastructure.Index, lat, lon float64) float64 {
	nLat, nLon := graph.GetNodeCoordinates(u)
	d := geo.DistanceMeter(geo.NewCoordinate(lat, lon), geo.NewCoordinate(nLat, nLon))
	if math.IsNaN(d) {
		return 0
	}
	return d
}

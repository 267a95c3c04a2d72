package routing

import (
	"github.com/lintang-b-s/navtraffic/pkg"
	"github.com/lintang-b-s/navtraffic/pkg/costfunction"
	da "github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"github.com/lintang-b-s/navtraffic/pkg/metrics"
	"go.uber.org/zap"
)

// RoutePlanner. least-cost path between two nodes of an already traffic-mutated graph.
// planning is a pure in-memory computation, safe for concurrent use on distinct graphs.
type RoutePlanner struct {
	logger *zap.Logger
}

func NewRoutePlanner(logger *zap.Logger) *RoutePlanner {
	return &RoutePlanner{
		logger: logger,
	}
}

/*
Plan. (cost, node path) from source to target using costFunction as edge weight.
no path -> (INF_WEIGHT, []). an endpoint that is not a node of graph is logged and also gives (INF_WEIGHT, []),
unreachability is an expected outcome, not an error.
*/
func (rp *RoutePlanner) Plan(graph *da.RoadNetwork, source, target da.Index,
	costFunction costfunction.CostFunction) (float64, []da.Index) {
	n := graph.NumberOfNodes()
	if int(source) >= n || int(target) >= n {
		rp.logger.Warn("route endpoint not found in graph",
			zap.Uint32("source", uint32(source)), zap.Uint32("target", uint32(target)), zap.Int("nodes", n))
		metrics.RoutePlans.WithLabelValues("node_not_found").Inc()
		return pkg.INF_WEIGHT, []da.Index{}
	}

	if costFunction == nil {
		costFunction = costfunction.NewWeightCostFunction()
	}

	dijkstra := NewDijkstra(graph, costFunction)
	cost, path, found := dijkstra.ShortestPath(source, target)
	if !found {
		rp.logger.Info("no path found",
			zap.Int64("source", graph.GetNode(source).GetID()), zap.Int64("target", graph.GetNode(target).GetID()))
		metrics.RoutePlans.WithLabelValues("no_path").Inc()
		return pkg.INF_WEIGHT, []da.Index{}
	}

	metrics.RoutePlans.WithLabelValues("found").Inc()
	metrics.SettledNodes.Observe(float64(dijkstra.GetNumSettledNodes()))
	return cost, path
}

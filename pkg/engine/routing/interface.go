package routing

import (
	"github.com/lintang-b-s/navtraffic/pkg/costfunction"
	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
)

type Router interface {
	ShortestPath(s, t datastructure.Index) (float64, []datastructure.Index, bool)
}

var _ Router = (*Dijkstra)(nil)

type Planner interface {
	Plan(graph *datastructure.RoadNetwork, source, target datastructure.Index,
		costFunction costfunction.CostFunction) (float64, []datastructure.Index)
}

var _ Planner = (*RoutePlanner)(nil)

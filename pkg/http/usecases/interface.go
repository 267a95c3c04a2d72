package usecases

import (
	"context"

	"github.com/lintang-b-s/navtraffic/pkg/costfunction"
	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
)

type RegionGraphProvider interface {
	FetchRegion(ctx context.Context, bbox *datastructure.BoundingBox) (*datastructure.RoadNetwork, error)
}

type GraphStore interface {
	GetGraph(ctx context.Context, userId string) (*datastructure.RoadNetwork, error)
	SetGraph(ctx context.Context, userId string, graph *datastructure.RoadNetwork) error
	Exists(ctx context.Context, userId string) (bool, error)
	GetPath(ctx context.Context, userId string) (*datastructure.RouteResult, error)
	SetPath(ctx context.Context, userId string, route *datastructure.RouteResult) error
}

type NodeResolver interface {
	Nearest(graph *datastructure.RoadNetwork, lat, lon float64) (datastructure.Index, error)
}

type TrafficApplicator interface {
	ApplyTraffic(graph *datastructure.RoadNetwork, reports []datastructure.DelayReport) (int, error)
}

type RoutePlanner interface {
	Plan(graph *datastructure.RoadNetwork, source, target datastructure.Index,
		costFunction costfunction.CostFunction) (float64, []datastructure.Index)
}

type Notifier interface {
	IsActive(userId string) bool
	Send(userId string, route *datastructure.RouteResult) (bool, error)
}

package controllers

import (
	"context"

	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"github.com/lintang-b-s/navtraffic/pkg/geo"
)

type RoutingService interface {
	CreateRoute(ctx context.Context, userId string, origin, destination geo.Coordinate,
		reports []datastructure.DelayReport) (*datastructure.RouteResult, error)
	RefreshTraffic(ctx context.Context, userId string, reports []datastructure.DelayReport,
		endpoints *datastructure.RouteEndpoints) (*datastructure.RouteResult, error)
	GetPath(ctx context.Context, userId string) (*datastructure.RouteResult, error)
}

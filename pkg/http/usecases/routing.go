package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/lintang-b-s/navtraffic/pkg"
	"github.com/lintang-b-s/navtraffic/pkg/concurrent"
	"github.com/lintang-b-s/navtraffic/pkg/costfunction"
	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"github.com/lintang-b-s/navtraffic/pkg/geo"
	"github.com/lintang-b-s/navtraffic/pkg/metrics"
	"github.com/lintang-b-s/navtraffic/pkg/util"
	"go.uber.org/zap"
)

// RoutingService. per-user route sessions. the persisted graph snapshot of a user is the only session state,
// route endpoints travel inside it as metadata.
type RoutingService struct {
	log        *zap.Logger
	provider   RegionGraphProvider
	store      GraphStore
	resolver   NodeResolver
	applicator TrafficApplicator
	planner    RoutePlanner
	notifier   Notifier

	costFunction costfunction.CostFunction
	bboxMargin   float64

	// serializes read-modify-write of one user's snapshot inside this process
	userLocks *concurrent.KeyedMutex
}

func NewRoutingService(log *zap.Logger, provider RegionGraphProvider, store GraphStore, resolver NodeResolver,
	applicator TrafficApplicator, planner RoutePlanner, notifier Notifier, bboxMargin float64) *RoutingService {
	if bboxMargin <= 0 {
		bboxMargin = pkg.DEFAULT_BBOX_MARGIN
	}
	return &RoutingService{
		log:          log,
		provider:     provider,
		store:        store,
		resolver:     resolver,
		applicator:   applicator,
		planner:      planner,
		notifier:     notifier,
		costFunction: costfunction.NewWeightCostFunction(),
		bboxMargin:   bboxMargin,
		userLocks:    concurrent.NewKeyedMutex(),
	}
}

// SetCostFunction. weight key the planner minimises, current travel time by default
func (rs *RoutingService) SetCostFunction(costFunction costfunction.CostFunction) {
	if costFunction != nil {
		rs.costFunction = costFunction
	}
}

/*
CreateRoute. start (or restart) the route session of userId:
fetch the road network around origin & destination, apply the initial traffic, plan, then persist the graph
(with the endpoints) and the planned path. re-running with the same input overwrites the session with the same state.
*/
func (rs *RoutingService) CreateRoute(ctx context.Context, userId string, origin, destination geo.Coordinate,
	reports []datastructure.DelayReport) (*datastructure.RouteResult, error) {
	start := time.Now()
	route, err := rs.createRoute(ctx, userId, origin, destination, reports)
	rs.observe("create_route", userId, start, err)
	return route, err
}

func (rs *RoutingService) createRoute(ctx context.Context, userId string, origin, destination geo.Coordinate,
	reports []datastructure.DelayReport) (*datastructure.RouteResult, error) {
	south, west, north, east := geo.BoundingBoxWithMargin(origin, destination, rs.bboxMargin)
	bbox := datastructure.NewBoundingBox(south, west, north, east)

	graph, err := rs.provider.FetchRegion(ctx, bbox)
	if err != nil {
		return nil, err
	}
	if graph == nil || graph.IsEmpty() {
		return nil, util.WrapErrorf(nil, util.ErrNoRegionData, "no road network around %f,%f -> %f,%f",
			origin.Lat, origin.Lon, destination.Lat, destination.Lon)
	}

	unlock := rs.userLocks.Lock(userId)
	defer unlock()

	graph.SetEndpoints(datastructure.NewRouteEndpoints(origin.Lat, origin.Lon, destination.Lat, destination.Lon))

	source, target, err := rs.resolveEndpoints(graph)
	if err != nil {
		return nil, err
	}

	if err := rs.applyTraffic(graph, reports); err != nil {
		return nil, err
	}

	route := rs.plan(graph, source, target)

	// the graph key marks the session active, so it goes last
	if err := rs.store.SetPath(ctx, userId, route); err != nil {
		return nil, err
	}
	if err := rs.store.SetGraph(ctx, userId, graph); err != nil {
		return nil, err
	}

	rs.log.Info("route created", zap.String("user_id", userId), zap.Int("nodes", graph.NumberOfNodes()),
		zap.Int("edges", graph.NumberOfEdges()), zap.Float64("cost", route.GetCost()),
		zap.Bool("reachable", route.IsReachable()))
	return route, nil
}

/*
RefreshTraffic. apply new delay reports to the persisted graph of userId and re-plan.
the mutated graph is persisted before the route is re-planned and pushed to the user's websocket (best effort).
endpoints, if non nil, replace the stored origin & destination.
fails with ErrNoActiveRoute if userId never created a route.
*/
func (rs *RoutingService) RefreshTraffic(ctx context.Context, userId string, reports []datastructure.DelayReport,
	endpoints *datastructure.RouteEndpoints) (*datastructure.RouteResult, error) {
	start := time.Now()
	route, err := rs.refreshTraffic(ctx, userId, reports, endpoints)
	rs.observe("refresh_traffic", userId, start, err)
	return route, err
}

func (rs *RoutingService) refreshTraffic(ctx context.Context, userId string, reports []datastructure.DelayReport,
	endpoints *datastructure.RouteEndpoints) (*datastructure.RouteResult, error) {
	unlock := rs.userLocks.Lock(userId)
	defer unlock()

	graph, err := rs.store.GetGraph(ctx, userId)
	if err != nil {
		return nil, err
	}
	if graph == nil {
		return nil, util.WrapErrorf(nil, util.ErrNoActiveRoute, "user %s has no active route", userId)
	}

	if err := rs.applyTraffic(graph, reports); err != nil {
		return nil, err
	}
	if endpoints != nil {
		graph.SetEndpoints(endpoints)
	}

	if err := rs.store.SetGraph(ctx, userId, graph); err != nil {
		return nil, err
	}

	source, target, err := rs.resolveEndpoints(graph)
	if err != nil {
		return nil, err
	}

	route := rs.plan(graph, source, target)
	if err := rs.store.SetPath(ctx, userId, route); err != nil {
		return nil, err
	}

	rs.notify(userId, route)

	rs.log.Info("route refreshed", zap.String("user_id", userId), zap.Int("reports", len(reports)),
		zap.Float64("cost", route.GetCost()), zap.Bool("reachable", route.IsReachable()))
	return route, nil
}

// GetPath. last route planned for userId
func (rs *RoutingService) GetPath(ctx context.Context, userId string) (*datastructure.RouteResult, error) {
	route, err := rs.store.GetPath(ctx, userId)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, util.WrapErrorf(nil, util.ErrNoActiveRoute, "user %s has no active route", userId)
	}
	return route, nil
}

func (rs *RoutingService) resolveEndpoints(graph *datastructure.RoadNetwork) (datastructure.Index,
	datastructure.Index, error) {
	endpoints := graph.GetEndpoints()
	if endpoints == nil {
		return 0, 0, util.WrapErrorf(nil, util.ErrInternalServerError, "graph snapshot has no route endpoints")
	}

	source, err := rs.resolver.Nearest(graph, endpoints.Origin.Lat, endpoints.Origin.Lon)
	if err != nil {
		return 0, 0, err
	}
	target, err := rs.resolver.Nearest(graph, endpoints.Destination.Lat, endpoints.Destination.Lon)
	if err != nil {
		return 0, 0, err
	}
	return source, target, nil
}

func (rs *RoutingService) applyTraffic(graph *datastructure.RoadNetwork, reports []datastructure.DelayReport) error {
	updated, err := rs.applicator.ApplyTraffic(graph, reports)
	if err != nil {
		return err
	}
	metrics.TrafficEdgeUpdates.Add(float64(updated))
	return nil
}

func (rs *RoutingService) plan(graph *datastructure.RoadNetwork, source, target datastructure.Index) *datastructure.RouteResult {
	cost, path := rs.planner.Plan(graph, source, target, rs.costFunction)
	return datastructure.NewRouteResult(graph.NodePathToCoordinates(path), graph.NodePathToIDs(path), cost)
}

func (rs *RoutingService) notify(userId string, route *datastructure.RouteResult) {
	if rs.notifier == nil || !rs.notifier.IsActive(userId) {
		return
	}
	if _, err := rs.notifier.Send(userId, route); err != nil {
		rs.log.Warn("route update notification failed", zap.String("user_id", userId), zap.Error(err))
	}
}

func (rs *RoutingService) observe(operation, userId string, start time.Time, err error) {
	metrics.SessionDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err == nil {
		metrics.SessionOperations.WithLabelValues(operation, "ok").Inc()
		return
	}

	kind := util.KindOf(err)
	metrics.SessionOperations.WithLabelValues(operation, string(kind)).Inc()

	if errors.Is(err, util.ErrNoActiveRoute) || errors.Is(err, util.ErrNodeResolution) {
		rs.log.Info(operation+" rejected", zap.String("user_id", userId), zap.String("kind", string(kind)),
			zap.Error(err))
		return
	}
	rs.log.Error(operation+" failed", zap.String("user_id", userId), zap.String("kind", string(kind)),
		zap.Error(err))
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RoutePlans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "navtraffic_route_plans_total",
		Help: "Total route planner queries by result",
	}, []string{"result"}) // "found", "no_path" or "node_not_found"

	SettledNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "navtraffic_route_plan_settled_nodes",
		Help:    "Number of nodes settled by a dijkstra query",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	SessionOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "navtraffic_session_operations_total",
		Help: "Route session operations by operation and result kind",
	}, []string{"operation", "result"})

	SessionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "navtraffic_session_operation_duration_seconds",
		Help:    "Route session operation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	}, []string{"operation"})

	TrafficEdgeUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "navtraffic_traffic_edge_updates_total",
		Help: "Edge weight updates applied from delay reports",
	})

	RegionFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "navtraffic_region_fetches_total",
		Help: "Region graph fetches by provider and result",
	}, []string{"provider", "result"})

	RegionCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "navtraffic_region_cache_total",
		Help: "Region graph cache lookups",
	}, []string{"result"}) // "hit" or "miss"

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "navtraffic_notifications_total",
		Help: "Route update notifications by result",
	}, []string{"result"}) // "sent", "no_channel" or "failed"

	WebsocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "navtraffic_websocket_connections",
		Help: "Currently registered websocket connections",
	})

	HTTPRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "navtraffic_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

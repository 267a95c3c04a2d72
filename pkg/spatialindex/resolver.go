package spatialindex

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"github.com/lintang-b-s/navtraffic/pkg/util"
	"go.uber.org/zap"
)

// NearestNodeResolver. maps a coordinate to the closest graph node.
// r-trees are cached by topology id, so clones of a cached region & every decoded snapshot of a session
// reuse one index. the cache holds r-trees only, never graphs.
type NearestNodeResolver struct {
	log   *zap.Logger
	cache *lru.Cache[uuid.UUID, *Rtree]
}

func NewNearestNodeResolver(log *zap.Logger, cacheSize int) (*NearestNodeResolver, error) {
	if cacheSize <= 0 {
		cacheSize = 16
	}
	cache, err := lru.New[uuid.UUID, *Rtree](cacheSize)
	if err != nil {
		return nil, err
	}
	return &NearestNodeResolver{
		log:   log,
		cache: cache,
	}, nil
}

// Nearest. node index closest to (lat, lon). fails with ErrNodeResolution if graph has no nodes.
func (r *NearestNodeResolver) Nearest(graph *datastructure.RoadNetwork, lat, lon float64) (datastructure.Index, error) {
	if graph == nil || graph.IsEmpty() {
		return datastructure.INVALID_NODE_INDEX, util.WrapErrorf(nil, util.ErrNodeResolution,
			"no graph node near %f,%f: graph is empty", lat, lon)
	}

	rt := r.index(graph)
	u, ok := rt.Nearest(lat, lon)
	if !ok {
		return datastructure.INVALID_NODE_INDEX, util.WrapErrorf(nil, util.ErrNodeResolution,
			"no graph node near %f,%f", lat, lon)
	}
	if ce := r.log.Check(zap.DebugLevel, "snapped coordinate to node"); ce != nil {
		ce.Write(zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Int64("node", graph.GetNode(u).GetID()),
			zap.Float64("distance_m", SnapDistanceMeter(graph, u, lat, lon)))
	}
	return u, nil
}

func (r *NearestNodeResolver) index(graph *datastructure.RoadNetwork) *Rtree {
	key := graph.GetTopologyID()
	if rt, ok := r.cache.Get(key); ok && rt.Len() == graph.NumberOfNodes() {
		return rt
	}
	rt := NewRtree()
	rt.Build(graph, r.log)
	r.cache.Add(key, rt)
	return rt
}

package provider

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"github.com/lintang-b-s/navtraffic/pkg/metrics"
	"github.com/lintang-b-s/navtraffic/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedProvider. keeps recently fetched regions in memory & collapses concurrent fetches of the same region.
// callers always receive their own copy, so traffic applied by one session never leaks into another.
type CachedProvider struct {
	next  RegionGraphProvider
	cache *lru.Cache[string, *datastructure.RoadNetwork]
	group singleflight.Group
	log   *zap.Logger
}

func NewCachedProvider(next RegionGraphProvider, size int, log *zap.Logger) (*CachedProvider, error) {
	if size <= 0 {
		size = 64
	}
	cache, err := lru.New[string, *datastructure.RoadNetwork](size)
	if err != nil {
		return nil, err
	}
	return &CachedProvider{
		next:  next,
		cache: cache,
		log:   log,
	}, nil
}

func (p *CachedProvider) FetchRegion(ctx context.Context, bbox *datastructure.BoundingBox) (*datastructure.RoadNetwork, error) {
	key := regionKey(bbox)
	if graph, ok := p.cache.Get(key); ok {
		metrics.RegionCache.WithLabelValues("hit").Inc()
		return graph.Clone(), nil
	}
	metrics.RegionCache.WithLabelValues("miss").Inc()

	// the shared fetch outlives any single caller, each caller only stops waiting on its own ctx
	fetchCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan(key, func() (interface{}, error) {
		graph, err := p.next.FetchRegion(fetchCtx, bbox)
		if err != nil {
			return nil, err
		}
		p.cache.Add(key, graph)
		return graph, nil
	})

	select {
	case <-ctx.Done():
		return nil, util.WrapErrorf(ctx.Err(), util.ErrProviderUnavailable, "region fetch for %s abandoned", key)
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			p.log.Debug("region fetch shared with concurrent request", zap.String("bbox", key))
		}
		return res.Val.(*datastructure.RoadNetwork).Clone(), nil
	}
}

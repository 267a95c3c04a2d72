package provider

import (
	"context"
	"os"

	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"github.com/lintang-b-s/navtraffic/pkg/metrics"
	"github.com/lintang-b-s/navtraffic/pkg/osmparser"
	"github.com/lintang-b-s/navtraffic/pkg/util"
	"go.uber.org/zap"
)

// PBFProvider. cuts regions out of a local .osm.pbf extract, for offline deployments
type PBFProvider struct {
	path        string
	useMaxSpeed bool
	log         *zap.Logger
}

func NewPBFProvider(path string, useMaxSpeed bool, log *zap.Logger) *PBFProvider {
	return &PBFProvider{
		path:        path,
		useMaxSpeed: useMaxSpeed,
		log:         log,
	}
}

func (p *PBFProvider) FetchRegion(ctx context.Context, bbox *datastructure.BoundingBox) (*datastructure.RoadNetwork, error) {
	if !bbox.IsValid() {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "invalid bounding box %s", regionKey(bbox))
	}

	f, err := os.Open(p.path)
	if err != nil {
		metrics.RegionFetches.WithLabelValues("pbf", "error").Inc()
		return nil, util.WrapErrorf(err, util.ErrProviderUnavailable, "open osm extract %s", p.path)
	}
	defer f.Close()

	parser := osmparser.NewOSMParser(p.useMaxSpeed)
	parser.SetBoundingBox(bbox)
	parser.KeepLargestComponent(true)
	if err := parser.ParsePBF(ctx, f, p.log); err != nil {
		metrics.RegionFetches.WithLabelValues("pbf", "error").Inc()
		return nil, util.WrapErrorf(err, util.ErrProviderUnavailable, "read osm extract %s", p.path)
	}

	graph := parser.BuildGraph(p.log)
	if graph.IsEmpty() {
		metrics.RegionFetches.WithLabelValues("pbf", "empty").Inc()
		return nil, util.WrapErrorf(nil, util.ErrNoRegionData, "no drivable roads inside %s", regionKey(bbox))
	}

	metrics.RegionFetches.WithLabelValues("pbf", "ok").Inc()
	return graph, nil
}

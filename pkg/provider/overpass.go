package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"github.com/lintang-b-s/navtraffic/pkg/metrics"
	"github.com/lintang-b-s/navtraffic/pkg/osmparser"
	"github.com/lintang-b-s/navtraffic/pkg/util"
	"github.com/paulmach/osm"
	"go.uber.org/zap"
)

const overpassQuery = `[out:xml][timeout:%d];(way["highway"](%f,%f,%f,%f);>;);out body;`

// OverpassProvider. downloads the drivable ways of a region from an overpass api endpoint
type OverpassProvider struct {
	client      *http.Client
	endpoint    string
	timeout     time.Duration
	useMaxSpeed bool
	log         *zap.Logger
}

func NewOverpassProvider(endpoint string, timeout time.Duration, useMaxSpeed bool, log *zap.Logger) *OverpassProvider {
	return &OverpassProvider{
		client:      &http.Client{Timeout: timeout},
		endpoint:    endpoint,
		timeout:     timeout,
		useMaxSpeed: useMaxSpeed,
		log:         log,
	}
}

func (p *OverpassProvider) FetchRegion(ctx context.Context, bbox *datastructure.BoundingBox) (*datastructure.RoadNetwork, error) {
	if !bbox.IsValid() {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "invalid bounding box %s", regionKey(bbox))
	}

	doc, err := p.query(ctx, bbox)
	if err != nil {
		metrics.RegionFetches.WithLabelValues("overpass", "error").Inc()
		return nil, util.WrapErrorf(err, util.ErrProviderUnavailable, "overpass query for %s failed", regionKey(bbox))
	}

	parser := osmparser.NewOSMParser(p.useMaxSpeed)
	parser.SetBoundingBox(bbox)
	parser.KeepLargestComponent(true)
	parser.ParseOSM(doc)
	graph := parser.BuildGraph(p.log)

	if graph.IsEmpty() {
		metrics.RegionFetches.WithLabelValues("overpass", "empty").Inc()
		return nil, util.WrapErrorf(nil, util.ErrNoRegionData, "no drivable roads inside %s", regionKey(bbox))
	}

	metrics.RegionFetches.WithLabelValues("overpass", "ok").Inc()
	p.log.Info("fetched region graph from overpass", zap.String("bbox", regionKey(bbox)),
		zap.Int("nodes", graph.NumberOfNodes()), zap.Int("edges", graph.NumberOfEdges()))
	return graph, nil
}

func (p *OverpassProvider) query(ctx context.Context, bbox *datastructure.BoundingBox) (*osm.OSM, error) {
	q := fmt.Sprintf(overpassQuery, int(p.timeout.Seconds()), bbox.South(), bbox.West(), bbox.North(), bbox.East())
	form := url.Values{"data": {q}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("overpass returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	doc := &osm.OSM{}
	if err := xml.NewDecoder(resp.Body).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}
	return doc, nil
}

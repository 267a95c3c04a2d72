package datastructure

import (
	"encoding/json"

	"github.com/lintang-b-s/navtraffic/pkg"
	"github.com/lintang-b-s/navtraffic/pkg/geo"
)

// DelayReport. geolocated traffic delay (minutes). consecutive reports of a sequence describe one traversed edge.
type DelayReport struct {
	lat   float64
	lon   float64
	delay float64
}

func NewDelayReport(lat, lon, delay float64) DelayReport {
	return DelayReport{lat: lat, lon: lon, delay: delay}
}

func (d DelayReport) GetLat() float64 {
	return d.lat
}

func (d DelayReport) GetLon() float64 {
	return d.lon
}

func (d DelayReport) GetDelay() float64 {
	return d.delay
}

// RouteResult. planned route as (lat, lon) pairs. an unreachable destination gives an empty path and INF_WEIGHT cost.
type RouteResult struct {
	path      []geo.Coordinate
	nodeIds   []int64
	cost      float64
	reachable bool
}

func NewRouteResult(path []geo.Coordinate, nodeIds []int64, cost float64) *RouteResult {
	reachable := cost < pkg.INF_WEIGHT
	if !reachable {
		path = []geo.Coordinate{}
		nodeIds = []int64{}
	}
	return &RouteResult{
		path:      path,
		nodeIds:   nodeIds,
		cost:      cost,
		reachable: reachable,
	}
}

func NewUnreachableRouteResult() *RouteResult {
	return NewRouteResult(nil, nil, pkg.INF_WEIGHT)
}

func (r *RouteResult) GetPath() []geo.Coordinate {
	return r.path
}

func (r *RouteResult) GetNodeIds() []int64 {
	return r.nodeIds
}

func (r *RouteResult) GetCost() float64 {
	return r.cost
}

func (r *RouteResult) IsReachable() bool {
	return r.reachable
}

type routeRecord struct {
	Path      [][2]float64 `json:"path"`
	NodeIds   []int64      `json:"node_ids"`
	Cost      float64      `json:"cost"`
	Reachable bool         `json:"reachable"`
}

// MarshalBinary. json encoding of the route, used to persist the last planned path of a user
func (r *RouteResult) MarshalBinary() ([]byte, error) {
	rec := routeRecord{
		Path:      make([][2]float64, 0, len(r.path)),
		NodeIds:   r.nodeIds,
		Cost:      r.cost,
		Reachable: r.reachable,
	}
	for _, c := range r.path {
		rec.Path = append(rec.Path, [2]float64{c.Lat, c.Lon})
	}
	return json.Marshal(rec)
}

func UnmarshalRouteResult(data []byte) (*RouteResult, error) {
	var rec routeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	path := make([]geo.Coordinate, 0, len(rec.Path))
	for _, p := range rec.Path {
		path = append(path, geo.NewCoordinate(p[0], p[1]))
	}
	if rec.NodeIds == nil {
		rec.NodeIds = []int64{}
	}
	return &RouteResult{
		path:      path,
		nodeIds:   rec.NodeIds,
		cost:      rec.Cost,
		reachable: rec.Reachable,
	}, nil
}

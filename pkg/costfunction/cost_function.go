package costfunction

import (
	"github.com/lintang-b-s/navtraffic/pkg"
)

type EdgeAttributes interface {
	GetWeight() float64
	GetLength() float64
	GetHighwayType() pkg.OsmHighwayType
}

// CostFunction. weight key of the route planner. weights must be non-negative.
type CostFunction interface {
	GetWeight(e EdgeAttributes) float64
}

// WeightFunction. current edge weight: base travel time plus every delay reported on the edge
type WeightFunction struct {
}

func NewWeightCostFunction() *WeightFunction {
	return &WeightFunction{}
}

func (wf *WeightFunction) GetWeight(e EdgeAttributes) float64 {
	return e.GetWeight()
}

// DistanceFunction. edge length in meter, ignores traffic
type DistanceFunction struct {
}

func NewDistanceCostFunction() *DistanceFunction {
	return &DistanceFunction{}
}

func (df *DistanceFunction) GetWeight(e EdgeAttributes) float64 {
	return e.GetLength()
}

// ByName. "weight" (default) or "length"
func ByName(name string) (CostFunction, bool) {
	switch name {
	case "", "weight", "time":
		return NewWeightCostFunction(), true
	case "length", "distance":
		return NewDistanceCostFunction(), true
	default:
		return nil, false
	}
}

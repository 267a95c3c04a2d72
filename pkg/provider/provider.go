package provider

import (
	"context"
	"fmt"

	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
)

// RegionGraphProvider. road network of every drivable way inside a bounding box
type RegionGraphProvider interface {
	FetchRegion(ctx context.Context, bbox *datastructure.BoundingBox) (*datastructure.RoadNetwork, error)
}

func regionKey(bbox *datastructure.BoundingBox) string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", bbox.South(), bbox.West(), bbox.North(), bbox.East())
}

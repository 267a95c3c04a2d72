package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateHaversineDistance(t *testing.T) {
	// yogyakarta tugu -> malioboro, ~1.1 km
	d := CalculateHaversineDistance(-7.7829, 110.3671, -7.7925, 110.3658)
	assert.InDelta(t, 1.08, d, 0.05)

	assert.Equal(t, 0.0, CalculateHaversineDistance(1, 1, 1, 1))
}

func TestDistanceMeterMatchesHaversine(t *testing.T) {
	a := NewCoordinate(-7.7829, 110.3671)
	b := NewCoordinate(-7.7925, 110.3658)
	assert.InDelta(t, CalculateHaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon)*1000, DistanceMeter(a, b), 0.5)
}

func TestBoundingBoxWithMargin(t *testing.T) {
	tests := []struct {
		name                     string
		a, b                     Coordinate
		margin                   float64
		south, west, north, east float64
	}{
		{
			name:   "ordered corners",
			a:      NewCoordinate(-7.80, 110.30),
			b:      NewCoordinate(-7.70, 110.40),
			margin: 0.01,
			south:  -7.81, west: 110.29, north: -7.69, east: 110.41,
		},
		{
			name:   "destination south west of origin",
			a:      NewCoordinate(1, 1),
			b:      NewCoordinate(0, 0),
			margin: 0.5,
			south:  -0.5, west: -0.5, north: 1.5, east: 1.5,
		},
		{
			name:   "same point",
			a:      NewCoordinate(10, 20),
			b:      NewCoordinate(10, 20),
			margin: 0.01,
			south:  9.99, west: 19.99, north: 10.01, east: 20.01,
		},
		{
			name:   "clamped at the pole",
			a:      NewCoordinate(89.995, 10),
			b:      NewCoordinate(89.999, 11),
			margin: 0.01,
			south:  89.985, west: 9.99, north: 90, east: 11.01,
		},
		{
			name:   "clamped at the antimeridian",
			a:      NewCoordinate(0, -179.999),
			b:      NewCoordinate(1, -179.5),
			margin: 0.01,
			south:  -0.01, west: -180, north: 1.01, east: -179.49,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, w, n, e := BoundingBoxWithMargin(tt.a, tt.b, tt.margin)
			assert.InDelta(t, tt.south, s, 1e-9)
			assert.InDelta(t, tt.west, w, 1e-9)
			assert.InDelta(t, tt.north, n, 1e-9)
			assert.InDelta(t, tt.east, e, 1e-9)
		})
	}
}

func TestPolylineFromCoords(t *testing.T) {
	// example from the google encoded polyline algorithm documentation
	path := []Coordinate{NewCoordinate(38.5, -120.2), NewCoordinate(40.7, -120.95), NewCoordinate(43.252, -126.453)}
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", PolylineFromCoords(path))
	assert.Equal(t, "", PolylineFromCoords(nil))
}

func TestEquirectangularScale(t *testing.T) {
	assert.InDelta(t, 1.0, EquirectangularScale(0), 1e-12)
	assert.InDelta(t, 0.5, EquirectangularScale(60), 1e-12)
}

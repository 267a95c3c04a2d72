package geo

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// BoundingBoxWithMargin. smallest lat/lon rectangle covering both points, expanded by margin degrees on every side.
// returns south, west, north, east. latitudes are clamped to [-90, 90], longitudes to [-180, 180].
func BoundingBoxWithMargin(a, b Coordinate, margin float64) (float64, float64, float64, float64) {
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(a.Lat, a.Lon))
	rect = rect.AddPoint(s2.LatLngFromDegrees(b.Lat, b.Lon))
	rect = expandRect(rect, s1.Angle(margin)*s1.Degree)

	lo, hi := rect.Lo(), rect.Hi()
	return lo.Lat.Degrees(), lo.Lng.Degrees(), hi.Lat.Degrees(), hi.Lng.Degrees()
}

func expandRect(rect s2.Rect, margin s1.Angle) s2.Rect {
	m := margin.Radians()
	lat := r1.Interval{
		Lo: math.Max(rect.Lat.Lo-m, -math.Pi/2),
		Hi: math.Min(rect.Lat.Hi+m, math.Pi/2),
	}
	lng := s1.Interval{
		Lo: math.Max(rect.Lng.Lo-m, -math.Pi),
		Hi: math.Min(rect.Lng.Hi+m, math.Pi),
	}
	return s2.Rect{Lat: lat, Lng: lng}
}

// DistanceMeter. great circle distance between two coordinates in meter
func DistanceMeter(a, b Coordinate) float64 {
	angle := s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon))
	return angle.Radians() * earthRadiusKM * 1000
}

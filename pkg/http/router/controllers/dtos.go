package controllers

import (
	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
)

type trafficReport struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
	Delay     float64  `json:"delay" validate:"min=0"`
}

func toDelayReports(reports []trafficReport) []datastructure.DelayReport {
	out := make([]datastructure.DelayReport, 0, len(reports))
	for _, r := range reports {
		out = append(out, datastructure.NewDelayReport(*r.Latitude, *r.Longitude, r.Delay))
	}
	return out
}

type createRouteRequest struct {
	UserID         string          `json:"user_id" validate:"required,max=128"`
	OriginLat      *float64        `json:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLon      *float64        `json:"origin_lon" validate:"required,min=-180,max=180"`
	DestinationLat *float64        `json:"destination_lat" validate:"required,min=-90,max=90"`
	DestinationLon *float64        `json:"destination_lon" validate:"required,min=-180,max=180"`
	TrafficData    []trafficReport `json:"traffic_data" validate:"omitempty,dive"`
}

// refreshTrafficRequest. origin & destination are optional, but must be given all together
type refreshTrafficRequest struct {
	UserID         string          `json:"user_id" validate:"required,max=128"`
	TrafficData    []trafficReport `json:"traffic_data" validate:"omitempty,dive"`
	OriginLat      *float64        `json:"origin_lat" validate:"omitempty,min=-90,max=90"`
	OriginLon      *float64        `json:"origin_lon" validate:"omitempty,min=-180,max=180"`
	DestinationLat *float64        `json:"destination_lat" validate:"omitempty,min=-90,max=90"`
	DestinationLon *float64        `json:"destination_lon" validate:"omitempty,min=-180,max=180"`
}

// endpoints. (nil, true) if none given, (nil, false) if only some of them are
func (r refreshTrafficRequest) endpoints() (*datastructure.RouteEndpoints, bool) {
	given := 0
	for _, v := range []*float64{r.OriginLat, r.OriginLon, r.DestinationLat, r.DestinationLon} {
		if v != nil {
			given++
		}
	}
	switch given {
	case 0:
		return nil, true
	case 4:
		return datastructure.NewRouteEndpoints(*r.OriginLat, *r.OriginLon, *r.DestinationLat, *r.DestinationLon), true
	default:
		return nil, false
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

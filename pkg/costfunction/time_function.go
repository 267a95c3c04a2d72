package costfunction

import (
	"github.com/lintang-b-s/navtraffic/pkg"
)

type TimeFunction struct {
}

func NewTimeCostFunction() *TimeFunction {
	return &TimeFunction{}
}

// TravelTime. base weight of a road segment in minutes. length in meter, speed in km/h
func (tf *TimeFunction) TravelTime(length, speed float64) float64 {
	if speed <= 0 {
		speed = pkg.DEFAULT_SPEED_KMH
	}
	return length / (speed * pkg.KMH_TO_METER_PER_MINUTE)
}

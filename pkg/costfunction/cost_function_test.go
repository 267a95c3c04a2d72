package costfunction

import (
	"testing"

	"github.com/lintang-b-s/navtraffic/pkg"
	"github.com/stretchr/testify/assert"
)

type edge struct {
	weight, length float64
}

func (e edge) GetWeight() float64                 { return e.weight }
func (e edge) GetLength() float64                 { return e.length }
func (e edge) GetHighwayType() pkg.OsmHighwayType { return pkg.RESIDENTIAL }

func TestByName(t *testing.T) {
	e := edge{weight: 12.5, length: 400}

	tests := []struct {
		name   string
		want   float64
		wantOk bool
	}{
		{"", 12.5, true},
		{"weight", 12.5, true},
		{"time", 12.5, true},
		{"length", 400, true},
		{"distance", 400, true},
		{"fuel", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf, ok := ByName(tt.name)
			assert.Equal(t, tt.wantOk, ok)
			if ok {
				assert.Equal(t, tt.want, cf.GetWeight(e))
			}
		})
	}
}

func TestTravelTime(t *testing.T) {
	tf := NewTimeCostFunction()
	// 1 km at 60 km/h -> 1 minute
	assert.InDelta(t, 1.0, tf.TravelTime(1000, 60), 1e-9)
	// unknown speed falls back to the default
	assert.InDelta(t, 1000/(pkg.DEFAULT_SPEED_KMH*pkg.KMH_TO_METER_PER_MINUTE), tf.TravelTime(1000, 0), 1e-9)
}

package ukf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNISThreshold(t *testing.T) {
	assert.InDelta(t, 5.991, NISThreshold(2, 0.95), 1e-3)
	assert.InDelta(t, 7.815, NISThreshold(3, 0.95), 1e-3)
	assert.InDelta(t, 0.103, NISThreshold(2, 0.05), 1e-3)
	assert.InDelta(t, 0.352, NISThreshold(3, 0.05), 1e-3)
}

func TestNISMonitor(t *testing.T) {
	m := NewNISMonitor()
	lidarS, radarS := Diagonal(1, 1), Diagonal(1, 1, 1)
	m.Add(nil)
	m.Add(&UKFEstimate{sensor: Lidar, nis: math.NaN()})
	for _, nis := range []float64{1, 2, 3, 10} {
		m.Add(&UKFEstimate{sensor: Lidar, innovCov: lidarS, nis: nis})
	}
	m.Add(&UKFEstimate{sensor: Radar, innovCov: radarS, nis: 8})
	m.Add(&UKFEstimate{sensor: Radar, innovCov: radarS, nis: math.NaN()})

	lidar := m.Summary(Lidar)
	assert.Equal(t, 4, lidar.Samples)
	assert.InDelta(t, 4, lidar.Mean, 1e-12)
	assert.InDelta(t, 0.25, lidar.FractionAbove, 1e-12)
	assert.InDelta(t, 5.991, lidar.Threshold, 1e-3)
	assert.Contains(t, lidar.String(), "lidar NIS: n=4")

	radar := m.Summary(Radar)
	require.Equal(t, 1, radar.Samples)
	assert.InDelta(t, 1, radar.FractionAbove, 1e-12)

	samples := m.Samples(Lidar)
	samples[0] = 100
	assert.Equal(t, []float64{1, 2, 3, 10}, m.Samples(Lidar))

	empty := NewNISMonitor().Summary(Radar)
	assert.Zero(t, empty.Samples)
	assert.True(t, math.IsNaN(empty.Mean))
}

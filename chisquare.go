package ukf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// NISConfidence is the chi-square confidence used by NISMonitor.
const NISConfidence = 0.95

// NISThreshold returns the value a NIS with dof degrees of freedom stays
// below with the provided confidence, e.g. 5.991 for 2 dof at 95%.
func NISThreshold(dof int, confidence float64) float64 {
	return distuv.ChiSquared{K: float64(dof)}.Quantile(confidence)
}

// NISMonitor accumulates the NIS of each sensor to check filter consistency:
// for a consistent filter, about 5% of the samples exceed the 95% threshold.
type NISMonitor struct {
	samples map[SensorKind][]float64
}

// NewNISMonitor returns an empty monitor.
func NewNISMonitor() *NISMonitor {
	return &NISMonitor{samples: make(map[SensorKind][]float64)}
}

// Add records the NIS of the estimate. Initialization estimates are ignored.
func (m *NISMonitor) Add(est *UKFEstimate) {
	if est == nil || est.Initialization() || math.IsNaN(est.NIS()) {
		return
	}
	m.samples[est.Sensor()] = append(m.samples[est.Sensor()], est.NIS())
}

// NISSummary summarizes the NIS samples of one sensor.
type NISSummary struct {
	Sensor        SensorKind
	Samples       int
	Mean          float64
	Threshold     float64 // NISConfidence quantile for the sensor's degrees of freedom
	FractionAbove float64 // Fraction of samples above Threshold
}

func (s NISSummary) String() string {
	return fmt.Sprintf("%s NIS: n=%d mean=%.3f above %.3f: %.1f%%", s.Sensor, s.Samples, s.Mean, s.Threshold, 100*s.FractionAbove)
}

// Summary returns the summary for the provided sensor.
func (m *NISMonitor) Summary(kind SensorKind) NISSummary {
	samples := m.samples[kind]
	sum := NISSummary{Sensor: kind, Samples: len(samples), Threshold: NISThreshold(kind.Dims(), NISConfidence)}
	if len(samples) == 0 {
		sum.Mean = math.NaN()
		return sum
	}
	sum.Mean = stat.Mean(samples, nil)
	above := 0
	for _, nis := range samples {
		if nis > sum.Threshold {
			above++
		}
	}
	sum.FractionAbove = float64(above) / float64(len(samples))
	return sum
}

// Samples returns a copy of the NIS samples of the provided sensor.
func (m *NISMonitor) Samples(kind SensorKind) []float64 {
	return append([]float64(nil), m.samples[kind]...)
}

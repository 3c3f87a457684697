package ukf

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// initialize seeds a state from the first measurement.
//
// A lidar fix gives the position only: speed, heading and turn rate start at
// zero with unit variance. A radar return is converted from polar, and the
// raw range rate, bearing and bearing again are used for speed, heading and
// turn rate. The radar seeding is an approximation, not a derivation: the
// range rate is only the radial part of the speed, and neither heading nor
// turn rate is observable from a single return.
func initialize(m Measurement, noise NoiseParameters) State {
	s := State{Timestamp: m.Time(), Initialized: true}
	switch meas := m.(type) {
	case LidarMeasurement:
		s.X = mat.NewVecDense(StateDim, []float64{meas.Px, meas.Py, 0, 0, 0})
		s.P = Diagonal(noise.StdLidarPx*noise.StdLidarPx, noise.StdLidarPy*noise.StdLidarPy, 1, 1, 1)
	case RadarMeasurement:
		ρ, φ, ρDot := meas.Rho, meas.Phi, meas.RhoDot
		s.X = mat.NewVecDense(StateDim, []float64{ρ * math.Cos(φ), ρ * math.Sin(φ), ρDot, NormalizeAngle(φ), φ})
		r2 := noise.StdRadarRange * noise.StdRadarRange
		φ2 := noise.StdRadarBearing * noise.StdRadarBearing
		s.P = Diagonal(r2, r2, noise.StdRadarRangeRate*noise.StdRadarRangeRate, φ2, φ2)
	}
	return s
}

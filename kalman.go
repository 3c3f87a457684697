// Package ukf implements an unscented Kalman filter for a constant turn rate
// and velocity (CTRV) object, fusing lidar position fixes with radar
// range/bearing/range-rate returns.
//
// Usage:
// ```
//  kf, err := ukf.NewUKF(ukf.DefaultConfig())
//  est, err := kf.ProcessMeasurement(ukf.LidarMeasurement{Timestamp: t, Px: 1, Py: 1})
// ```
package ukf

import "gonum.org/v1/gonum/mat"

const (
	// StateDim is the size of the CTRV state: px, py, v, yaw, yawd.
	StateDim = 5
	// AugDim is the size of the augmented state: the CTRV state plus the
	// longitudinal and yaw acceleration noise.
	AugDim = 7
	// Lambda is the sigma point spreading parameter.
	Lambda = 3 - AugDim
	// SigmaPointCount is the number of sigma points, 2*AugDim+1.
	SigmaPointCount = 2*AugDim + 1
	// YawRateThreshold is the turn rate under which the straight line CTRV
	// update is used.
	YawRateThreshold = 0.001
	// MinRadarRange is the smallest range (m) a sigma point may map to in
	// the radar observation model.
	MinRadarRange = 1e-4
)

// State vector indices.
const (
	iPx = iota
	iPy
	iV
	iYaw
	iYawd
	iNuA
	iNuYawdd
)

// Radar measurement indices.
const (
	iRho = iota
	iPhi
	iRhoDot
)

// SensorKind allows for quick comparison of measurements.
type SensorKind uint8

const (
	// Lidar is the linear position sensor.
	Lidar SensorKind = iota + 1
	// Radar is the range, bearing and range-rate sensor.
	Radar
)

func (k SensorKind) String() string {
	switch k {
	case Lidar:
		return "lidar"
	case Radar:
		return "radar"
	default:
		return "unknown"
	}
}

// Dims returns the size of the measurement vector of this sensor.
func (k SensorKind) Dims() int {
	switch k {
	case Lidar:
		return 2
	case Radar:
		return 3
	default:
		return 0
	}
}

// Measurement is a single sensor reading. It is implemented only by
// LidarMeasurement and RadarMeasurement.
type Measurement interface {
	Time() int64           // Timestamp in microseconds
	Sensor() SensorKind    // Which sensor produced the reading
	Vector() *mat.VecDense // Raw measurement vector
	isMeasurement()
}

// LidarMeasurement is a Cartesian position fix.
type LidarMeasurement struct {
	Timestamp int64 // µs
	Px, Py    float64
}

// Time implements the Measurement interface.
func (m LidarMeasurement) Time() int64 { return m.Timestamp }

// Sensor implements the Measurement interface.
func (m LidarMeasurement) Sensor() SensorKind { return Lidar }

// Vector implements the Measurement interface.
func (m LidarMeasurement) Vector() *mat.VecDense {
	return mat.NewVecDense(2, []float64{m.Px, m.Py})
}

func (LidarMeasurement) isMeasurement() {}

// RadarMeasurement is a polar return: range (m), bearing (rad) and range rate (m/s).
type RadarMeasurement struct {
	Timestamp        int64 // µs
	Rho, Phi, RhoDot float64
}

// Time implements the Measurement interface.
func (m RadarMeasurement) Time() int64 { return m.Timestamp }

// Sensor implements the Measurement interface.
func (m RadarMeasurement) Sensor() SensorKind { return Radar }

// Vector implements the Measurement interface.
func (m RadarMeasurement) Vector() *mat.VecDense {
	return mat.NewVecDense(3, []float64{m.Rho, m.Phi, m.RhoDot})
}

func (RadarMeasurement) isMeasurement() {}

// Estimate is returned from ProcessMeasurement and by the ground truth helpers.
type Estimate interface {
	IsWithinNσ(N float64) bool     // IsWithinNσ returns whether the estimation is within the N*σ bounds.
	State() *mat.VecDense          // Returns \hat{x}_{k+1}^{+}
	Measurement() *mat.VecDense    // Returns \hat{z}_{k+1}^{-}
	Innovation() *mat.VecDense     // Returns z_{k+1} - \hat{z}_{k+1}^{-}
	Covariance() mat.Symmetric     // Return P_{k+1}^{+}
	PredCovariance() mat.Symmetric // Return P_{k+1}^{-}
	String() string                // Must implement the stringer interface.
}

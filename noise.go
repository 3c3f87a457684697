package ukf

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// NoiseParameters holds the process and measurement noise standard deviations.
type NoiseParameters struct {
	StdAccel    float64 `yaml:"std_accel"`     // Longitudinal acceleration, m/s²
	StdYawAccel float64 `yaml:"std_yaw_accel"` // Yaw acceleration, rad/s²

	// Provided by the sensor manufacturers.
	StdLidarPx        float64 `yaml:"std_lidar_px"`         // m
	StdLidarPy        float64 `yaml:"std_lidar_py"`         // m
	StdRadarRange     float64 `yaml:"std_radar_range"`      // m
	StdRadarBearing   float64 `yaml:"std_radar_bearing"`    // rad
	StdRadarRangeRate float64 `yaml:"std_radar_range_rate"` // m/s
}

// DefaultNoiseParameters returns the tuned process noise and the sensor
// specified measurement noise.
func DefaultNoiseParameters() NoiseParameters {
	return NoiseParameters{
		StdAccel:          0.3,
		StdYawAccel:       0.3,
		StdLidarPx:        0.15,
		StdLidarPy:        0.15,
		StdRadarRange:     0.3,
		StdRadarBearing:   0.03,
		StdRadarRangeRate: 0.3,
	}
}

// Validate returns an error wrapping ErrInvalidNoise if a standard deviation is not strictly positive.
func (n NoiseParameters) Validate() error {
	for _, std := range []struct {
		name string
		val  float64
	}{
		{"std_accel", n.StdAccel},
		{"std_yaw_accel", n.StdYawAccel},
		{"std_lidar_px", n.StdLidarPx},
		{"std_lidar_py", n.StdLidarPy},
		{"std_radar_range", n.StdRadarRange},
		{"std_radar_bearing", n.StdRadarBearing},
		{"std_radar_range_rate", n.StdRadarRangeRate},
	} {
		if !(std.val > 0) {
			return fmt.Errorf("%w: %s=%f", ErrInvalidNoise, std.name, std.val)
		}
	}
	return nil
}

// LidarMatrix returns the lidar measurement noise matrix R.
func (n NoiseParameters) LidarMatrix() *mat.SymDense {
	return Diagonal(n.StdLidarPx*n.StdLidarPx, n.StdLidarPy*n.StdLidarPy)
}

// RadarMatrix returns the radar measurement noise matrix R.
func (n NoiseParameters) RadarMatrix() *mat.SymDense {
	return Diagonal(n.StdRadarRange*n.StdRadarRange, n.StdRadarBearing*n.StdRadarBearing, n.StdRadarRangeRate*n.StdRadarRangeRate)
}

// MeasurementMatrix returns R for the provided sensor.
func (n NoiseParameters) MeasurementMatrix(kind SensorKind) *mat.SymDense {
	if kind == Radar {
		return n.RadarMatrix()
	}
	return n.LidarMatrix()
}

func (n NoiseParameters) String() string {
	return fmt.Sprintf("Noise{σa=%g σψ̈=%g lidar=(%g, %g) radar=(%g, %g, %g)}", n.StdAccel, n.StdYawAccel, n.StdLidarPx, n.StdLidarPy, n.StdRadarRange, n.StdRadarBearing, n.StdRadarRangeRate)
}

// AWGN generates additive white Gaussian noise for both sensors.
type AWGN struct {
	lidar, radar *distmv.Normal
}

// NewAWGN creates new AWGN sensor noise from the provided noise parameters and random source.
func NewAWGN(n NoiseParameters, src rand.Source) (*AWGN, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	lidar, ok := distmv.NewNormal(make([]float64, 2), n.LidarMatrix(), src)
	if !ok {
		return nil, fmt.Errorf("%w: lidar noise", ErrInvalidNoise)
	}
	radar, ok := distmv.NewNormal(make([]float64, 3), n.RadarMatrix(), src)
	if !ok {
		return nil, fmt.Errorf("%w: radar noise", ErrInvalidNoise)
	}
	return &AWGN{lidar, radar}, nil
}

// Measurement returns a noise sample for the provided sensor.
func (n *AWGN) Measurement(kind SensorKind) *mat.VecDense {
	var r []float64
	if kind == Radar {
		r = n.radar.Rand(nil)
	} else {
		r = n.lidar.Rand(nil)
	}
	return mat.NewVecDense(len(r), r)
}

package ukf

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SensorSchedule defines which sensor produces each simulated measurement.
type SensorSchedule uint8

const (
	// Alternate alternates lidar and radar, starting with lidar.
	Alternate SensorSchedule = iota
	// RandomSensor picks either sensor with equal probability.
	RandomSensor
	// LidarOnly only produces lidar measurements.
	LidarOnly
	// RadarOnly only produces radar measurements.
	RadarOnly
)

// SimConfig configures a Simulator.
type SimConfig struct {
	X0           []float64 // Initial CTRV truth state px, py, v, yaw, yawd
	Step         int64     // Time between measurements, µs
	Steps        int       // Number of measurements
	Schedule     SensorSchedule
	Noise        NoiseParameters
	ProcessNoise bool // Draw random longitudinal and yaw accelerations at each step
	Noiseless    bool // Emit exact measurements
	Seed         uint64
}

// SimSample is one simulated time step.
type SimSample struct {
	Truth       TruthState
	X           *mat.VecDense // True CTRV state
	Measurement Measurement
}

// Simulate propagates a CTRV truth trajectory and returns the measurements
// the sensors would produce along it, with AWGN drawn from each sensor's R.
func Simulate(cfg SimConfig) ([]SimSample, error) {
	if len(cfg.X0) != StateDim {
		return nil, fmt.Errorf("%sX0(%dx1) expected (%dx1)", dimErrMsg, len(cfg.X0), StateDim)
	}
	if cfg.Step <= 0 || cfg.Steps <= 0 {
		return nil, errors.New("step and steps must be strictly positive")
	}
	src := rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)
	rng := rand.New(src)
	awgn, err := NewAWGN(cfg.Noise, src)
	if err != nil {
		return nil, err
	}
	accel := distuv.Normal{Mu: 0, Sigma: cfg.Noise.StdAccel, Src: src}
	yawAccel := distuv.Normal{Mu: 0, Sigma: cfg.Noise.StdYawAccel, Src: src}

	Δt := float64(cfg.Step) / 1e6
	x := mat.NewVecDense(StateDim, append([]float64(nil), cfg.X0...))
	samples := make([]SimSample, cfg.Steps)
	for k := 0; k < cfg.Steps; k++ {
		if k > 0 {
			xAug := mat.NewVecDense(AugDim, nil)
			xAug.SliceVec(0, StateDim).(*mat.VecDense).CopyVec(x)
			if cfg.ProcessNoise {
				xAug.SetVec(iNuA, accel.Rand())
				xAug.SetVec(iNuYawdd, yawAccel.Rand())
			}
			x = PropagateSigmaPoint(xAug, Δt)
			x.SetVec(iYaw, NormalizeAngle(x.AtVec(iYaw)))
		}

		kind := Lidar
		switch cfg.Schedule {
		case Alternate:
			if k%2 == 1 {
				kind = Radar
			}
		case RandomSensor:
			if rng.IntN(2) == 1 {
				kind = Radar
			}
		case RadarOnly:
			kind = Radar
		}

		t := int64(k) * cfg.Step
		var z *mat.VecDense
		if kind == Radar {
			if z, err = RadarObservation(x); err != nil {
				return nil, fmt.Errorf("simulated truth at k=%d: %w", k, err)
			}
		} else {
			z = mat.NewVecDense(2, []float64{x.AtVec(iPx), x.AtVec(iPy)})
		}
		if !cfg.Noiseless {
			z.AddVec(z, awgn.Measurement(kind))
		}

		var m Measurement
		if kind == Radar {
			m = RadarMeasurement{Timestamp: t, Rho: z.AtVec(iRho), Phi: NormalizeAngle(z.AtVec(iPhi)), RhoDot: z.AtVec(iRhoDot)}
		} else {
			m = LidarMeasurement{Timestamp: t, Px: z.AtVec(iPx), Py: z.AtVec(iPy)}
		}
		samples[k] = SimSample{Truth: TruthFromCTRV(x), X: mat.VecDenseCopyOf(x), Measurement: m}
	}
	return samples, nil
}

package ukf

import (
	"fmt"
	"math"

	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/mat"
)

// Option configures a UKF.
type Option func(*UKF)

// WithLogger sets the logger used for the per-cycle debug records (V(1)) and
// the failed cycle records.
func WithLogger(log logr.Logger) Option {
	return func(kf *UKF) {
		kf.log = log
	}
}

// NewUKF returns a new uninitialized UKF: the first measurement provided to
// ProcessMeasurement seeds the state.
func NewUKF(cfg Config, opts ...Option) (*UKF, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	weights, err := NewWeights(Lambda, AugDim)
	if err != nil {
		return nil, err
	}
	kf := &UKF{
		noise:    cfg.Noise,
		useLidar: cfg.UseLidar,
		useRadar: cfg.UseRadar,
		weights:  weights,
		lidarR:   cfg.Noise.LidarMatrix(),
		radarR:   cfg.Noise.RadarMatrix(),
		state:    newState(),
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(kf)
	}
	return kf, nil
}

// UKF is an unscented Kalman filter tracking one CTRV object from lidar and
// radar measurements. It is not safe for concurrent use.
type UKF struct {
	noise              NoiseParameters
	useLidar, useRadar bool
	weights            *mat.VecDense
	lidarR, radarR     *mat.SymDense
	state              State
	xSigPred           *mat.Dense // Predicted sigma points of the last cycle
	log                logr.Logger
	step               int
}

func (kf *UKF) String() string {
	return fmt.Sprintf("UKF [k=%d] %s\n%s", kf.step, kf.noise, kf.state)
}

// State returns a copy of the current filter state.
func (kf *UKF) State() State {
	return kf.state.Clone()
}

// Weights returns a copy of the sigma point weights.
func (kf *UKF) Weights() *mat.VecDense {
	return mat.VecDenseCopyOf(kf.weights)
}

// PredictedSigmaPoints returns a copy of the predicted sigma points of the
// last committed cycle, nil before the first prediction.
func (kf *UKF) PredictedSigmaPoints() *mat.Dense {
	if kf.xSigPred == nil {
		return nil
	}
	return mat.DenseCopyOf(kf.xSigPred)
}

// Noise returns the noise parameters.
func (kf *UKF) Noise() NoiseParameters {
	return kf.noise
}

// Reset returns the filter to its uninitialized state.
func (kf *UKF) Reset() {
	kf.state = newState()
	kf.xSigPred = nil
	kf.step = 0
}

// Seed initializes the filter with a known state instead of a first measurement.
func (kf *UKF) Seed(x mat.Vector, P mat.Symmetric, timestamp int64) error {
	if err := checkMatDims(x, P, "x0", "P0", rows2cols); err != nil {
		return err
	}
	if err := checkMatDims(x, kf.state.P, "x0", "P", rows2rows); err != nil {
		return err
	}
	s := State{X: mat.VecDenseCopyOf(x), P: mat.NewSymDense(StateDim, nil), Timestamp: timestamp, Initialized: true}
	s.P.CopySym(P)
	s.X.SetVec(iYaw, NormalizeAngle(s.X.AtVec(iYaw)))
	kf.state = s
	kf.xSigPred = nil
	return nil
}

// Predict returns the time update of the current state to the provided
// timestamp, along with the predicted sigma points. The filter is not modified.
func (kf *UKF) Predict(timestamp int64) (*mat.VecDense, *mat.SymDense, *mat.Dense, error) {
	if !kf.state.Initialized {
		return nil, nil, nil, fmt.Errorf("cannot predict an uninitialized filter")
	}
	Δt := float64(timestamp-kf.state.Timestamp) / 1e6
	Xsig, err := GenerateSigmaPoints(kf.state.X, kf.state.P, kf.noise)
	if err != nil {
		return nil, nil, nil, err
	}
	XsigPred, err := PredictSigmaPoints(Xsig, Δt)
	if err != nil {
		return nil, nil, nil, err
	}
	x, P, err := PredictMeanAndCovariance(XsigPred, kf.weights)
	if err != nil {
		return nil, nil, nil, err
	}
	return x, P, XsigPred, nil
}

// ProcessMeasurement runs one filter cycle. The first measurement only
// initializes the state. Every later one is predicted to and corrected with
// the lidar or radar update. A cycle either commits completely or, on error,
// leaves the filter untouched.
func (kf *UKF) ProcessMeasurement(m Measurement) (*UKFEstimate, error) {
	if m == nil {
		return nil, ErrUnknownMeasurement
	}
	if z := m.Vector(); !isFinite(z) {
		return nil, fmt.Errorf("%w: %s %v", ErrNonFiniteMeasurement, m.Sensor(), z.RawVector().Data)
	}

	if !kf.state.Initialized {
		kf.state = initialize(m, kf.noise)
		kf.xSigPred = nil
		kf.log.V(1).Info("initialized", "sensor", m.Sensor().String(), "timestamp", m.Time(), "x", kf.state.X.RawVector().Data)
		est := &UKFEstimate{
			sensor:    m.Sensor(),
			timestamp: m.Time(),
			state:     mat.VecDenseCopyOf(kf.state.X),
			meas:      mat.NewVecDense(m.Sensor().Dims(), nil),
			innov:     mat.NewVecDense(m.Sensor().Dims(), nil),
			covar:     AsSymDense(kf.state.P),
			predCovar: AsSymDense(kf.state.P),
			nis:       math.NaN(),
		}
		kf.step++
		return est, nil
	}

	switch m.Sensor() {
	case Lidar:
		if !kf.useLidar {
			return nil, fmt.Errorf("%w: %s", ErrSensorDisabled, Lidar)
		}
	case Radar:
		if !kf.useRadar {
			return nil, fmt.Errorf("%w: %s", ErrSensorDisabled, Radar)
		}
	}

	x, P, XsigPred, err := kf.Predict(m.Time())
	if err != nil {
		kf.log.Error(err, "prediction failed", "step", kf.step, "timestamp", m.Time())
		return nil, fmt.Errorf("prediction at k=%d: %w", kf.step, err)
	}

	var c *Correction
	switch meas := m.(type) {
	case LidarMeasurement:
		c, err = UpdateLidar(x, P, meas.Vector(), kf.lidarR)
	case RadarMeasurement:
		c, err = UpdateRadar(x, P, XsigPred, kf.weights, meas.Vector(), kf.radarR)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMeasurement, m)
	}
	if err != nil {
		kf.log.Error(err, "update failed", "sensor", m.Sensor().String(), "step", kf.step, "timestamp", m.Time())
		return nil, fmt.Errorf("%s update at k=%d: %w", m.Sensor(), kf.step, err)
	}

	kf.state = State{X: c.X, P: c.P, Timestamp: m.Time(), Initialized: true}
	kf.xSigPred = XsigPred
	kf.log.V(1).Info("updated", "sensor", m.Sensor().String(), "step", kf.step, "timestamp", m.Time(), "nis", c.NIS, "x", c.X.RawVector().Data)

	est := &UKFEstimate{
		sensor:    m.Sensor(),
		timestamp: m.Time(),
		state:     mat.VecDenseCopyOf(c.X),
		meas:      c.ZPred,
		innov:     c.Innov,
		covar:     AsSymDense(c.P),
		predCovar: P,
		innovCov:  c.S,
		nis:       c.NIS,
	}
	kf.step++
	return est, nil
}

// UKFEstimate is the output of each cycle of the UKF.
// It implements the Estimate interface.
type UKFEstimate struct {
	sensor             SensorKind
	timestamp          int64
	state, meas, innov *mat.VecDense
	covar, predCovar   mat.Symmetric
	innovCov           mat.Symmetric
	nis                float64
}

// IsWithinNσ returns whether every component of the innovation is within
// N standard deviations of the innovation covariance.
func (e UKFEstimate) IsWithinNσ(N float64) bool {
	if e.innovCov == nil {
		return true
	}
	for i := 0; i < e.innov.Len(); i++ {
		nσ := N * math.Sqrt(e.innovCov.At(i, i))
		if e.innov.AtVec(i) > nσ || e.innov.AtVec(i) < -nσ {
			return false
		}
	}
	return true
}

// Sensor returns the kind of measurement that produced this estimate.
func (e UKFEstimate) Sensor() SensorKind {
	return e.sensor
}

// Timestamp returns the time of the estimate in µs.
func (e UKFEstimate) Timestamp() int64 {
	return e.timestamp
}

// State implements the Estimate interface.
func (e UKFEstimate) State() *mat.VecDense {
	return e.state
}

// Measurement implements the Estimate interface.
func (e UKFEstimate) Measurement() *mat.VecDense {
	return e.meas
}

// Innovation implements the Estimate interface.
func (e UKFEstimate) Innovation() *mat.VecDense {
	return e.innov
}

// Covariance implements the Estimate interface.
func (e UKFEstimate) Covariance() mat.Symmetric {
	return e.covar
}

// PredCovariance implements the Estimate interface.
func (e UKFEstimate) PredCovariance() mat.Symmetric {
	return e.predCovar
}

// InnovationCovariance returns S, nil for the initialization cycle.
func (e UKFEstimate) InnovationCovariance() mat.Symmetric {
	return e.innovCov
}

// NIS returns the normalized innovation squared, NaN for the initialization cycle.
func (e UKFEstimate) NIS() float64 {
	return e.nis
}

// Initialization returns whether this estimate only seeded the filter.
func (e UKFEstimate) Initialization() bool {
	return e.innovCov == nil
}

func (e UKFEstimate) String() string {
	state := mat.Formatted(e.State().T(), mat.Prefix("  "))
	meas := mat.Formatted(e.Measurement().T(), mat.Prefix("  "))
	covar := mat.Formatted(e.Covariance(), mat.Prefix("  "))
	innov := mat.Formatted(e.Innovation().T(), mat.Prefix("  "))
	predp := mat.Formatted(e.PredCovariance(), mat.Prefix("   "))
	return fmt.Sprintf("{%s t=%d\ns=%v\nz=%v\nP=%v\nP-=%v\ni=%v\nnis=%f\n}", e.sensor, e.timestamp, state, meas, covar, predp, innov, e.nis)
}

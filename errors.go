package ukf

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNotPositiveDefinite is returned when the augmented covariance cannot be Cholesky factorized.
	ErrNotPositiveDefinite = errors.New("augmented covariance is not positive definite")
	// ErrDegenerateGeometry is returned when a sigma point maps to the radar origin.
	ErrDegenerateGeometry = errors.New("sigma point too close to the radar origin")
	// ErrSingularInnovation is returned when the innovation covariance cannot be inverted.
	ErrSingularInnovation = errors.New("innovation covariance is singular")
	// ErrSensorDisabled is returned for measurements of a sensor turned off in the Config.
	ErrSensorDisabled = errors.New("sensor disabled")
	// ErrUnknownMeasurement is returned for a nil measurement.
	ErrUnknownMeasurement = errors.New("unknown measurement type")
	// ErrNonFiniteMeasurement is returned when a measurement holds a NaN or an infinity.
	ErrNonFiniteMeasurement = errors.New("measurement is not finite")
	// ErrWeightSum is returned when the sigma point weights do not sum to one.
	ErrWeightSum = errors.New("sigma point weights do not sum to 1")
	// ErrInvalidSpread is returned when λ+n is not strictly positive.
	ErrInvalidSpread = errors.New("lambda + n must be strictly positive")
	// ErrInvalidNoise is returned when a noise standard deviation is not strictly positive.
	ErrInvalidNoise = errors.New("noise standard deviations must be strictly positive")
)

// DimensionAgreement defines how two matrices' dimensions should agree.
type DimensionAgreement uint8

const (
	dimErrMsg                    = "dimensions must agree: "
	rows2cols DimensionAgreement = iota + 1
	cols2rows
	cols2cols
	rows2rows
	rowsAndcols
)

// checkMatDims checks the matrix dimensions match provided a DimensionAgreement. Returns an error if not.
func checkMatDims(m1, m2 mat.Matrix, name1, name2 string, method DimensionAgreement) error {
	r1, c1 := m1.Dims()
	r2, c2 := m2.Dims()
	switch method {
	case rows2cols:
		if r1 != c2 {
			return fmt.Errorf("%s%s(%dx...) %s(...x%d)", dimErrMsg, name1, r1, name2, c2)
		}
	case cols2rows:
		if c1 != r2 {
			return fmt.Errorf("%s%s(...x%d) %s(%dx...)", dimErrMsg, name1, c1, name2, r2)
		}
	case cols2cols:
		if c1 != c2 {
			return fmt.Errorf("%s%s(...x%d) %s(...x%d)", dimErrMsg, name1, c1, name2, c2)
		}
	case rows2rows:
		if r1 != r2 {
			return fmt.Errorf("%s%s(%dx...) %s(%dx...)", dimErrMsg, name1, r1, name2, r2)
		}
	case rowsAndcols:
		if c1 != c2 || r1 != r2 {
			return fmt.Errorf("%s%s(%dx%d) %s(%dx%d)", dimErrMsg, name1, r1, c1, name2, r2, c2)
		}
	}
	return nil
}

package ukf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// weightSumTolerance is the tolerance on the sum of the sigma point weights.
const weightSumTolerance = 1e-9

// NewWeights returns the 2n+1 sigma point weights for the spreading
// parameter λ and the (augmented) dimension n:
// w0 = λ/(λ+n) and wi = 1/(2(λ+n)).
// Returns an error if λ+n is not strictly positive or if the weights do not sum to 1.
func NewWeights(λ float64, n int) (*mat.VecDense, error) {
	spread := λ + float64(n)
	if n <= 0 || !(spread > 0) {
		return nil, fmt.Errorf("%w: λ=%f n=%d", ErrInvalidSpread, λ, n)
	}
	w := make([]float64, 2*n+1)
	w[0] = λ / spread
	for i := 1; i < len(w); i++ {
		w[i] = 0.5 / spread
	}
	if sum := floats.Sum(w); !floats.EqualWithinAbs(sum, 1, weightSumTolerance) {
		return nil, fmt.Errorf("%w: sum=%.17g", ErrWeightSum, sum)
	}
	return mat.NewVecDense(len(w), w), nil
}

// GenerateSigmaPoints returns the AugDim x SigmaPointCount augmented sigma
// points of the state (x, P) extended with the zero mean process noise.
// Column 0 is the augmented mean, columns 1..AugDim are the mean plus the
// scaled columns of the Cholesky factor and the remaining ones the mean minus them.
// Returns an error wrapping ErrNotPositiveDefinite if the augmented covariance
// cannot be factorized.
func GenerateSigmaPoints(x mat.Vector, P mat.Symmetric, noise NoiseParameters) (*mat.Dense, error) {
	if err := checkMatDims(x, P, "x", "P", rows2cols); err != nil {
		return nil, err
	}
	if x.Len() != StateDim {
		return nil, fmt.Errorf("%sx(%dx1) expected (%dx1)", dimErrMsg, x.Len(), StateDim)
	}

	xAug := mat.NewVecDense(AugDim, nil)
	xAug.SliceVec(0, StateDim).(*mat.VecDense).CopyVec(x)

	PAug := mat.NewSymDense(AugDim, nil)
	PAug.SliceSym(0, StateDim).(*mat.SymDense).CopySym(P)
	PAug.SetSym(iNuA, iNuA, noise.StdAccel*noise.StdAccel)
	PAug.SetSym(iNuYawdd, iNuYawdd, noise.StdYawAccel*noise.StdYawAccel)

	var chol mat.Cholesky
	if ok := chol.Factorize(PAug); !ok {
		return nil, fmt.Errorf("%w\nP_aug=%v", ErrNotPositiveDefinite, mat.Formatted(PAug, mat.Prefix("      ")))
	}
	var L mat.TriDense
	chol.LTo(&L)

	γ := math.Sqrt(Lambda + AugDim)
	Xsig := mat.NewDense(AugDim, SigmaPointCount, nil)
	for r := 0; r < AugDim; r++ {
		Xsig.Set(r, 0, xAug.AtVec(r))
		for i := 0; i < AugDim; i++ {
			δ := γ * L.At(r, i)
			Xsig.Set(r, i+1, xAug.AtVec(r)+δ)
			Xsig.Set(r, i+1+AugDim, xAug.AtVec(r)-δ)
		}
	}
	return Xsig, nil
}

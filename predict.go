package ukf

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PredictMeanAndCovariance recombines the predicted sigma points into the
// predicted mean and covariance using the provided weights.
// The heading of the mean is wrapped into (-π, π] and so is the heading
// component of every column-minus-mean difference before its outer product.
func PredictMeanAndCovariance(XsigPred mat.Matrix, weights mat.Vector) (*mat.VecDense, *mat.SymDense, error) {
	if err := checkMatDims(XsigPred, weights, "XsigPred", "weights", cols2rows); err != nil {
		return nil, nil, err
	}
	rows, cols := XsigPred.Dims()
	if rows != StateDim {
		return nil, nil, fmt.Errorf("%sXsigPred(%dx...) expected (%dx...)", dimErrMsg, rows, StateDim)
	}

	x := mat.NewVecDense(StateDim, nil)
	for j := 0; j < cols; j++ {
		x.AddScaledVec(x, weights.AtVec(j), column(XsigPred, j))
	}
	x.SetVec(iYaw, weightedAngleMean(XsigPred, iYaw, weights))

	P := mat.NewSymDense(StateDim, nil)
	xDiff := mat.NewVecDense(StateDim, nil)
	for j := 0; j < cols; j++ {
		xDiff.SubVec(column(XsigPred, j), x)
		xDiff.SetVec(iYaw, NormalizeAngle(xDiff.AtVec(iYaw)))
		P.SymRankOne(P, weights.AtVec(j), xDiff)
	}
	return x, P, nil
}

// column returns a copy of column j of m.
func column(m mat.Matrix, j int) *mat.VecDense {
	r, _ := m.Dims()
	return mat.NewVecDense(r, mat.Col(nil, j, m))
}

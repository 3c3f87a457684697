package ukf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// PropagateSigmaPoint advances one augmented sigma point (px, py, v, yaw,
// yawd, νa, νψ̈) by Δt seconds through the CTRV model and returns the
// propagated 5 dimensional state.
// A non positive Δt (duplicate or out of order timestamp) leaves the state unchanged.
func PropagateSigmaPoint(xAug mat.Vector, Δt float64) *mat.VecDense {
	px, py := xAug.AtVec(iPx), xAug.AtVec(iPy)
	v, yaw, yawd := xAug.AtVec(iV), xAug.AtVec(iYaw), xAug.AtVec(iYawd)
	if Δt <= 0 {
		return mat.NewVecDense(StateDim, []float64{px, py, v, yaw, yawd})
	}
	νa, νyawdd := xAug.AtVec(iNuA), xAug.AtVec(iNuYawdd)

	var pxP, pyP float64
	if math.Abs(yawd) > YawRateThreshold {
		pxP = px + v/yawd*(math.Sin(yaw+yawd*Δt)-math.Sin(yaw))
		pyP = py + v/yawd*(math.Cos(yaw)-math.Cos(yaw+yawd*Δt))
	} else {
		pxP = px + v*Δt*math.Cos(yaw)
		pyP = py + v*Δt*math.Sin(yaw)
	}
	vP := v
	yawP := yaw + yawd*Δt
	yawdP := yawd

	// Process noise.
	Δt2 := Δt * Δt
	pxP += 0.5 * νa * Δt2 * math.Cos(yaw)
	pyP += 0.5 * νa * Δt2 * math.Sin(yaw)
	vP += νa * Δt
	yawP += 0.5 * νyawdd * Δt2
	yawdP += νyawdd * Δt

	return mat.NewVecDense(StateDim, []float64{pxP, pyP, vP, yawP, yawdP})
}

// PredictSigmaPoints propagates every column of the augmented sigma points
// and returns the StateDim x SigmaPointCount predicted sigma points.
func PredictSigmaPoints(Xsig mat.Matrix, Δt float64) (*mat.Dense, error) {
	if r, _ := Xsig.Dims(); r != AugDim {
		return nil, fmt.Errorf("%sXsig(%dx...) expected (%dx...)", dimErrMsg, r, AugDim)
	}
	_, cols := Xsig.Dims()
	XsigPred := mat.NewDense(StateDim, cols, nil)
	for j := 0; j < cols; j++ {
		XsigPred.SetCol(j, PropagateSigmaPoint(column(Xsig, j), Δt).RawVector().Data)
	}
	return XsigPred, nil
}

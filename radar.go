package ukf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// RadarObservation maps a CTRV state to radar measurement space: range,
// bearing and range rate.
// Returns an error wrapping ErrDegenerateGeometry if the state is within
// MinRadarRange of the origin, where bearing and range rate are undefined.
func RadarObservation(x mat.Vector) (*mat.VecDense, error) {
	px, py := x.AtVec(iPx), x.AtVec(iPy)
	v, yaw := x.AtVec(iV), x.AtVec(iYaw)
	ρ := math.Hypot(px, py)
	if !(ρ >= MinRadarRange) {
		return nil, fmt.Errorf("%w: ρ=%g at (%g, %g)", ErrDegenerateGeometry, ρ, px, py)
	}
	φ := math.Atan2(py, px)
	ρDot := (px*math.Cos(yaw)*v + py*math.Sin(yaw)*v) / ρ
	return mat.NewVecDense(3, []float64{ρ, φ, ρDot}), nil
}

// UpdateRadar corrects the predicted state (x, P) with the radar return z
// using the predicted sigma points XsigPred, their weights and the measurement
// noise R. This is the unscented update: the sigma points are mapped through
// RadarObservation, recombined into the predicted measurement, the innovation
// covariance S and the cross covariance T, and K = T S^-1.
// Heading differences in state space and bearing differences in measurement
// space are wrapped into (-π, π] before any product.
func UpdateRadar(x mat.Vector, P mat.Symmetric, XsigPred mat.Matrix, weights mat.Vector, z mat.Vector, R mat.Symmetric) (*Correction, error) {
	if err := checkMatDims(XsigPred, weights, "XsigPred", "weights", cols2rows); err != nil {
		return nil, err
	}
	if err := checkMatDims(XsigPred, x, "XsigPred", "x", rows2rows); err != nil {
		return nil, err
	}
	if err := checkMatDims(z, R, "z", "R", rows2cols); err != nil {
		return nil, err
	}
	nz := z.Len()
	if nz != Radar.Dims() {
		return nil, fmt.Errorf("%sz(%dx1) expected (%dx1)", dimErrMsg, nz, Radar.Dims())
	}
	_, cols := XsigPred.Dims()

	// Sigma points in measurement space.
	Zsig := mat.NewDense(nz, cols, nil)
	for j := 0; j < cols; j++ {
		zj, err := RadarObservation(column(XsigPred, j))
		if err != nil {
			return nil, fmt.Errorf("sigma point %d: %w", j, err)
		}
		Zsig.SetCol(j, zj.RawVector().Data)
	}

	zPred := mat.NewVecDense(nz, nil)
	for j := 0; j < cols; j++ {
		zPred.AddScaledVec(zPred, weights.AtVec(j), Zsig.ColView(j))
	}
	zPred.SetVec(iPhi, weightedAngleMean(Zsig, iPhi, weights))

	S := mat.NewSymDense(nz, nil)
	T := mat.NewDense(StateDim, nz, nil)
	zDiff := mat.NewVecDense(nz, nil)
	xDiff := mat.NewVecDense(StateDim, nil)
	for j := 0; j < cols; j++ {
		zDiff.SubVec(Zsig.ColView(j), zPred)
		zDiff.SetVec(iPhi, NormalizeAngle(zDiff.AtVec(iPhi)))
		xDiff.SubVec(column(XsigPred, j), x)
		xDiff.SetVec(iYaw, NormalizeAngle(xDiff.AtVec(iYaw)))

		w := weights.AtVec(j)
		S.SymRankOne(S, w, zDiff)
		T.RankOne(T, w, xDiff, zDiff)
	}
	S.AddSym(S, R)

	var SInv mat.Dense
	if err := SInv.Inverse(S); err != nil {
		return nil, fmt.Errorf("%w: could not invert `S`: %s", ErrSingularInnovation, err)
	}
	var K mat.Dense
	K.Mul(T, &SInv)

	y := mat.NewVecDense(nz, nil)
	y.SubVec(z, zPred)
	y.SetVec(iPhi, NormalizeAngle(y.AtVec(iPhi)))

	xPlus := mat.NewVecDense(StateDim, nil)
	xPlus.MulVec(&K, y)
	xPlus.AddVec(x, xPlus)
	xPlus.SetVec(iYaw, NormalizeAngle(xPlus.AtVec(iYaw)))

	var KS, KSKt, PPlus mat.Dense
	KS.Mul(&K, S)
	KSKt.Mul(&KS, K.T())
	PPlus.Sub(P, &KSKt)

	return &Correction{
		X:     xPlus,
		P:     AsSymDense(&PPlus),
		ZPred: zPred,
		Innov: y,
		S:     S,
		NIS:   nis(y, &SInv),
	}, nil
}

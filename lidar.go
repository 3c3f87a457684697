package ukf

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Correction is the result of a measurement update.
type Correction struct {
	X     *mat.VecDense // Corrected mean
	P     *mat.SymDense // Corrected covariance
	ZPred *mat.VecDense // Predicted measurement
	Innov *mat.VecDense // Innovation z - ZPred
	S     *mat.SymDense // Innovation covariance
	NIS   float64       // Normalized innovation squared
}

// LidarObservation returns the lidar observation matrix H which selects px and py.
func LidarObservation() *mat.Dense {
	return mat.NewDense(2, StateDim, []float64{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
	})
}

// UpdateLidar corrects the predicted state (x, P) with the lidar fix z, with
// measurement noise R. This is the linear Kalman update:
// y = z - Hx, S = HPH' + R, K = PH'S^-1, x += Ky, P = (I-KH)P.
// Returns an error wrapping ErrSingularInnovation if S cannot be inverted,
// which can only happen with a degenerate R.
func UpdateLidar(x mat.Vector, P mat.Symmetric, z mat.Vector, R mat.Symmetric) (*Correction, error) {
	H := LidarObservation()
	if err := checkMatDims(H, x, "H", "x", cols2rows); err != nil {
		return nil, err
	}
	if err := checkMatDims(z, R, "z", "R", rows2cols); err != nil {
		return nil, err
	}
	if err := checkMatDims(H, z, "H", "z", rows2rows); err != nil {
		return nil, err
	}

	var zPred, y mat.VecDense
	zPred.MulVec(H, x)
	y.SubVec(z, &zPred)

	var PHt, S mat.Dense
	PHt.Mul(P, H.T())
	S.Mul(H, &PHt)
	S.Add(&S, R)

	var SInv mat.Dense
	if err := SInv.Inverse(&S); err != nil {
		return nil, fmt.Errorf("%w: could not invert `H*P*H' + R`: %s", ErrSingularInnovation, err)
	}
	var K mat.Dense
	K.Mul(&PHt, &SInv)

	xPlus := mat.NewVecDense(StateDim, nil)
	xPlus.MulVec(&K, &y)
	xPlus.AddVec(x, xPlus)
	xPlus.SetVec(iYaw, NormalizeAngle(xPlus.AtVec(iYaw)))

	var IKH, PPlus mat.Dense
	IKH.Mul(&K, H)
	IKH.Sub(Identity(StateDim), &IKH)
	PPlus.Mul(&IKH, P)

	return &Correction{
		X:     xPlus,
		P:     AsSymDense(&PPlus),
		ZPred: &zPred,
		Innov: &y,
		S:     AsSymDense(&S),
		NIS:   nis(&y, &SInv),
	}, nil
}

// nis returns y' S^-1 y.
func nis(y mat.Vector, SInv mat.Matrix) float64 {
	return mat.Inner(y, SInv, y)
}

package ukf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// TruthState is the ground truth position and Cartesian velocity of the object.
type TruthState struct {
	Px, Py, Vx, Vy float64
}

// TruthFromCTRV converts a CTRV state (px, py, v, yaw, yawd) into a TruthState.
func TruthFromCTRV(x mat.Vector) TruthState {
	v, yaw := x.AtVec(iV), x.AtVec(iYaw)
	return TruthState{x.AtVec(iPx), x.AtVec(iPy), v * math.Cos(yaw), v * math.Sin(yaw)}
}

// Vector returns (px, py, vx, vy).
func (t TruthState) Vector() *mat.VecDense {
	return mat.NewVecDense(4, []float64{t.Px, t.Py, t.Vx, t.Vy})
}

// GroundTruth computes the error of the estimates against known truth states.
type GroundTruth struct {
	errors [4][]float64 // Squared errors of px, py, vx, vy
}

// NewGroundTruth initializes an empty ground truth accumulator.
func NewGroundTruth() *GroundTruth {
	return &GroundTruth{}
}

// Error records and returns an ErrorEstimate after comparing the provided estimate with the ground truth.
func (g *GroundTruth) Error(est *UKFEstimate, truth TruthState) ErrorEstimate {
	estTruth := TruthFromCTRV(est.State())
	Δ := estTruth.Vector()
	Δ.SubVec(Δ, truth.Vector())
	for i := range g.errors {
		g.errors[i] = append(g.errors[i], Δ.AtVec(i)*Δ.AtVec(i))
	}

	// Only the position covariance maps directly onto the error components.
	covar := mat.NewSymDense(4, nil)
	P := est.Covariance()
	covar.SetSym(0, 0, P.At(iPx, iPx))
	covar.SetSym(0, 1, P.At(iPx, iPy))
	covar.SetSym(1, 1, P.At(iPy, iPy))
	return ErrorEstimate{state: Δ, covar: covar}
}

// Len returns the number of compared estimates.
func (g *GroundTruth) Len() int {
	return len(g.errors[0])
}

// RMSE returns the root mean squared error of px, py, vx and vy.
func (g *GroundTruth) RMSE() (TruthState, error) {
	if g.Len() == 0 {
		return TruthState{}, fmt.Errorf("no estimates to compute the RMSE of")
	}
	var rmse [4]float64
	for i, sq := range g.errors {
		rmse[i] = math.Sqrt(stat.Mean(sq, nil))
	}
	return TruthState{rmse[0], rmse[1], rmse[2], rmse[3]}, nil
}

// ErrorEstimate implements the Estimate interface and is used to show the error of an estimate.
// Its state is (px, py, vx, vy) estimate minus truth.
type ErrorEstimate struct {
	state *mat.VecDense
	covar mat.Symmetric
}

// IsWithinNσ returns whether the position error is within the N*σ bounds.
func (e ErrorEstimate) IsWithinNσ(N float64) bool {
	for i := 0; i < 2; i++ {
		nσ := N * math.Sqrt(e.covar.At(i, i))
		if e.state.AtVec(i) > nσ || e.state.AtVec(i) < -nσ {
			return false
		}
	}
	return true
}

// State implements the Estimate interface.
func (e ErrorEstimate) State() *mat.VecDense {
	return e.state
}

// Measurement implements the Estimate interface.
func (e ErrorEstimate) Measurement() *mat.VecDense {
	return nil
}

// Innovation implements the Estimate interface.
func (e ErrorEstimate) Innovation() *mat.VecDense {
	return nil
}

// Covariance implements the Estimate interface.
func (e ErrorEstimate) Covariance() mat.Symmetric {
	return e.covar
}

// PredCovariance implements the Estimate interface.
func (e ErrorEstimate) PredCovariance() mat.Symmetric {
	return e.covar
}

func (e ErrorEstimate) String() string {
	return fmt.Sprintf("{\nΔ=%v\nP=%v\n}", mat.Formatted(e.state.T(), mat.Prefix("  ")), mat.Formatted(e.covar, mat.Prefix("  ")))
}

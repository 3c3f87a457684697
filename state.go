package ukf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// State is the filter state: the CTRV mean, its covariance and the time at
// which they hold.
type State struct {
	X           *mat.VecDense // px, py, v, yaw, yawd
	P           *mat.SymDense
	Timestamp   int64 // µs
	Initialized bool
}

// newState returns an uninitialized zero state.
func newState() State {
	return State{X: mat.NewVecDense(StateDim, nil), P: mat.NewSymDense(StateDim, nil)}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	c := State{Timestamp: s.Timestamp, Initialized: s.Initialized}
	if s.X != nil {
		c.X = mat.VecDenseCopyOf(s.X)
	}
	if s.P != nil {
		c.P = mat.NewSymDense(StateDim, nil)
		c.P.CopySym(s.P)
	}
	return c
}

// Position returns px and py.
func (s State) Position() (px, py float64) {
	return s.X.AtVec(iPx), s.X.AtVec(iPy)
}

// Velocity returns the Cartesian velocity derived from speed and heading.
func (s State) Velocity() (vx, vy float64) {
	v, yaw := s.X.AtVec(iV), s.X.AtVec(iYaw)
	return v * math.Cos(yaw), v * math.Sin(yaw)
}

func (s State) String() string {
	return fmt.Sprintf("{t=%d init=%t\nx=%v\nP=%v\n}", s.Timestamp, s.Initialized, mat.Formatted(s.X.T(), mat.Prefix("  ")), mat.Formatted(s.P, mat.Prefix("  ")))
}

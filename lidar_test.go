package ukf

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestUpdateLidar(t *testing.T) {
	x := mat.NewVecDense(StateDim, []float64{1, 1, 0, 0, 0})
	P := Diagonal(1, 1, 1, 1, 1)
	z := mat.NewVecDense(2, []float64{2, 2})
	c, err := UpdateLidar(x, P, z, Diagonal(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	expX := mat.NewVecDense(StateDim, []float64{1.5, 1.5, 0, 0, 0})
	if !mat.EqualApprox(c.X, expX, 1e-12) {
		t.Fatalf("x+\n%v\nexpected\n%v", mat.Formatted(c.X.T()), mat.Formatted(expX.T()))
	}
	expP := Diagonal(0.5, 0.5, 1, 1, 1)
	if !mat.EqualApprox(c.P, expP, 1e-12) {
		t.Fatalf("P+\n%v\nexpected\n%v", mat.Formatted(c.P), mat.Formatted(expP))
	}
	if !mat.EqualApprox(c.S, Diagonal(2, 2), 1e-12) {
		t.Fatalf("S=\n%v", mat.Formatted(c.S))
	}
	if !mat.EqualApprox(c.Innov, mat.NewVecDense(2, []float64{1, 1}), 1e-12) {
		t.Fatalf("y=%v", c.Innov.RawVector().Data)
	}
	if math.Abs(c.NIS-1) > 1e-12 {
		t.Fatalf("NIS=%f expected 1", c.NIS)
	}
}

func TestUpdateLidarCorrelated(t *testing.T) {
	// The velocity is corrected through its correlation with the position.
	x := mat.NewVecDense(StateDim, []float64{0, 0, 1, 0, 0})
	P := Diagonal(1, 1, 1, 1, 1)
	P.SetSym(iPx, iV, 0.5)
	c, err := UpdateLidar(x, P, mat.NewVecDense(2, []float64{1, 0}), Diagonal(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(c.X.AtVec(iV)-1.25) > 1e-12 {
		t.Fatalf("v+=%f expected 1.25", c.X.AtVec(iV))
	}
	if !IsSymmetric(c.P, 0) {
		t.Fatalf("P+ is not symmetric\n%v", mat.Formatted(c.P))
	}
	if c.P.At(iV, iV) >= 1 {
		t.Fatalf("velocity variance did not shrink: %f", c.P.At(iV, iV))
	}
}

func TestUpdateLidarSingular(t *testing.T) {
	x := mat.NewVecDense(StateDim, nil)
	P := Diagonal(0, 0, 1, 1, 1)
	_, err := UpdateLidar(x, P, mat.NewVecDense(2, nil), Diagonal(0, 0))
	if !errors.Is(err, ErrSingularInnovation) {
		t.Fatalf("expected ErrSingularInnovation, got %v", err)
	}
}

func TestUpdateLidarDims(t *testing.T) {
	x := mat.NewVecDense(StateDim, nil)
	P := Diagonal(1, 1, 1, 1, 1)
	if _, err := UpdateLidar(x, P, mat.NewVecDense(3, nil), Diagonal(1, 1, 1)); err == nil {
		t.Fatal("a 3 dimensional lidar measurement does not fail")
	}
	if _, err := UpdateLidar(mat.NewVecDense(4, nil), Diagonal(1, 1, 1, 1), mat.NewVecDense(2, nil), Diagonal(1, 1)); err == nil {
		t.Fatal("a 4 dimensional state does not fail")
	}
}

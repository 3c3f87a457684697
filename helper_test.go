package ukf

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// matricesEqual compares matrices within epsilon.
func matricesEqual(a, b mat.Matrix, epsilon float64) bool {
	r1, c1 := a.Dims()
	r2, c2 := b.Dims()
	if r1 != r2 || c1 != c2 {
		return false
	}
	for i := 0; i < r1; i++ {
		for j := 0; j < c1; j++ {
			if math.Abs(a.At(i, j)-b.At(i, j)) > epsilon {
				return false
			}
		}
	}
	return true
}

func TestIdentity(t *testing.T) {
	n := 3
	i33 := Identity(n)
	if r, c := i33.Dims(); r != n || r != c {
		t.Fatalf("i33 has dimensions (%dx%d)", r, c)
	}
	for i := 0; i < n; i++ {
		if i33.At(i, i) != 1 {
			t.Fatalf("i33(%d,%d) != 1", i, i)
		}
		for j := 0; j < n; j++ {
			if i != j && i33.At(i, j) != 0 {
				t.Fatalf("i33(%d,%d) != 0", i, j)
			}
		}
	}
}

func TestNormalizeAngleEdges(t *testing.T) {
	for _, tc := range []struct {
		in, out float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{-3 * math.Pi / 2, math.Pi / 2},
		{2 * math.Pi, 0},
		{7, 7 - 2*math.Pi},
	} {
		if got := NormalizeAngle(tc.in); math.Abs(got-tc.out) > 1e-12 {
			t.Fatalf("NormalizeAngle(%f) = %f, expected %f", tc.in, got, tc.out)
		}
	}
}

func TestNormalizeAngleProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for k := 0; k < 10000; k++ {
		d := (rng.Float64() - 0.5) * 200
		n := NormalizeAngle(d)
		if n <= -math.Pi || n > math.Pi {
			t.Fatalf("NormalizeAngle(%f) = %f is outside (-π, π]", d, n)
		}
		turns := (d - n) / (2 * math.Pi)
		if math.Abs(turns-math.Round(turns)) > 1e-9 {
			t.Fatalf("NormalizeAngle(%f) = %f is not congruent modulo 2π", d, n)
		}
	}
}

func TestWeightedAngleMeanAcrossPi(t *testing.T) {
	angles := mat.NewDense(1, 3, []float64{math.Pi - 0.1, -math.Pi + 0.1, math.Pi})
	w := mat.NewVecDense(3, []float64{0.25, 0.25, 0.5})
	if got := weightedAngleMean(angles, 0, w); math.Abs(NormalizeAngle(got-math.Pi)) > 1e-12 {
		t.Fatalf("mean of angles around π is %f", got)
	}
	plain := mat.NewDense(1, 3, []float64{0.1, 0.2, 0.3})
	if got := weightedAngleMean(plain, 0, w); math.Abs(got-0.225) > 1e-12 {
		t.Fatalf("mean of angles away from π is %f, expected 0.225", got)
	}
}

func TestAsSymDense(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 4, 3})
	s := AsSymDense(m)
	if s.At(0, 1) != 3 || s.At(1, 0) != 3 || s.At(0, 0) != 1 || s.At(1, 1) != 3 {
		t.Fatalf("unexpected symmetric part\n%v", mat.Formatted(s))
	}
	if IsSymmetric(m, 1e-12) {
		t.Fatal("non symmetric matrix reported as symmetric")
	}
	if !IsSymmetric(s, 0) {
		t.Fatal("symmetric part reported as non symmetric")
	}
	if IsSymmetric(mat.NewDense(2, 3, nil), 1) {
		t.Fatal("non square matrix reported as symmetric")
	}
}

func TestIsPositiveSemiDefinite(t *testing.T) {
	if !IsPositiveSemiDefinite(Diagonal(1, 2, 0), 1e-12) {
		t.Fatal("diag(1, 2, 0) is PSD")
	}
	if IsPositiveSemiDefinite(mat.NewSymDense(2, []float64{1, 2, 2, 1}), 1e-12) {
		t.Fatal("[[1 2][2 1]] is not PSD")
	}
}

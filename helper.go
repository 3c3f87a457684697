package ukf

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// NormalizeAngle wraps the provided angle into (-π, π].
func NormalizeAngle(θ float64) float64 {
	a := math.Mod(θ+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	if a -= math.Pi; a <= -math.Pi {
		return math.Pi
	}
	return a
}

// weightedAngleMean returns the weighted mean of the angles stored in row
// `row` of m, computed from wrapped differences to the first column so that
// samples on both sides of ±π average correctly. The result is wrapped.
func weightedAngleMean(m mat.Matrix, row int, weights mat.Vector) float64 {
	_, cols := m.Dims()
	ref := m.At(row, 0)
	var Δ float64
	for j := 0; j < cols; j++ {
		Δ += weights.AtVec(j) * NormalizeAngle(m.At(row, j)-ref)
	}
	return NormalizeAngle(ref + Δ)
}

// Identity returns an identity matrix of the provided size.
func Identity(n int) mat.Symmetric {
	return Diagonal(ones(n)...)
}

// Diagonal returns a symmetric matrix with the provided values on its diagonal.
func Diagonal(vals ...float64) *mat.SymDense {
	n := len(vals)
	d := mat.NewSymDense(n, nil)
	for i, v := range vals {
		d.SetSym(i, i, v)
	}
	return d
}

func ones(n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = 1
	}
	return vals
}

// AsSymDense returns the symmetric part ½(m+mᵀ) of the provided square matrix.
// Kalman covariance updates are symmetric only up to round-off, so the
// symmetric part is what gets stored.
func AsSymDense(m mat.Matrix) *mat.SymDense {
	n, _ := m.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, 0.5*(m.At(i, j)+m.At(j, i)))
		}
	}
	return s
}

// IsSymmetric returns whether m is square and symmetric within tol.
func IsSymmetric(m mat.Matrix, tol float64) bool {
	r, c := m.Dims()
	if r != c {
		return false
	}
	for i := 0; i < r; i++ {
		for j := i + 1; j < c; j++ {
			if math.Abs(m.At(i, j)-m.At(j, i)) > tol {
				return false
			}
		}
	}
	return true
}

// IsPositiveSemiDefinite returns whether the smallest eigenvalue of s is not
// below -tol times its largest one.
func IsPositiveSemiDefinite(s mat.Symmetric, tol float64) bool {
	var eig mat.EigenSym
	if ok := eig.Factorize(s, false); !ok {
		return false
	}
	vals := eig.Values(nil)
	maxVal := 0.0
	for _, v := range vals {
		maxVal = math.Max(maxVal, math.Abs(v))
	}
	for _, v := range vals {
		if v < -tol*math.Max(maxVal, 1) {
			return false
		}
	}
	return true
}

// isFinite returns whether every entry of v is finite.
func isFinite(v mat.Vector) bool {
	for i := 0; i < v.Len(); i++ {
		if x := v.AtVec(i); math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

package volatilespace

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// R2 returns the planar rotation by θ (counter-clockwise, active).
func R2(θ float64) *mat.Dense {
	s, c := math.Sincos(θ)
	return mat.NewDense(2, 2, []float64{c, -s, s, c})
}

// MxV22 multiplies a 2x2 matrix with a vector. Note that there is no dimension check!
func MxV22(m *mat.Dense, v []float64) []float64 {
	var rVec mat.VecDense
	rVec.MulVec(m, mat.NewVecDense(len(v), v))
	return []float64{rVec.AtVec(0), rVec.AtVec(1)}
}

// Rotate returns v rotated counter-clockwise by θ.
func Rotate(v []float64, θ float64) []float64 {
	return MxV22(R2(θ), v)
}

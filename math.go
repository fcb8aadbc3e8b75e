package volatilespace

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	deg2rad = math.Pi / 180
	τ       = 2 * math.Pi
)

// norm returns the norm of a given planar vector.
func norm(v []float64) float64 {
	return math.Hypot(v[0], v[1])
}

// unit returns the unit vector of a given vector.
func unit(a []float64) (b []float64) {
	n := norm(a)
	if scalar.EqualWithinAbs(n, 0, 1e-12) {
		return []float64{0, 0}
	}
	b = make([]float64, len(a))
	copy(b, a)
	floats.Scale(1/n, b)
	return
}

// sign returns the sign of a given number, and 1 for zero.
func sign(v float64) float64 {
	if scalar.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// dot performs the inner product.
func dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// cross returns the z component of the cross product of two planar vectors.
func cross(a, b []float64) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// sub returns a-b as a new vector.
func sub(a, b []float64) []float64 {
	o := make([]float64, len(a))
	floats.SubTo(o, a, b)
	return o
}

// add returns a+b as a new vector.
func add(a, b []float64) []float64 {
	o := make([]float64, len(a))
	floats.AddTo(o, a, b)
	return o
}

// WrapTwoPi wraps an angle into [0, 2π).
func WrapTwoPi(a float64) float64 {
	a = math.Mod(a, τ)
	if a < 0 {
		a += τ
	}
	if a >= τ {
		a = 0
	}
	return a
}

// WrapPi wraps an angle into [-π, π).
func WrapPi(a float64) float64 {
	return WrapTwoPi(a+math.Pi) - math.Pi
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}

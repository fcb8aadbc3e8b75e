package volatilespace

import (
	"math"
	"math/cmplx"
)

const quarticPolishIter = 4

// SolveQuartic returns the four complex roots of a*z^4 + b*z^3 + c*z^2 + d*z + e = 0.
// The leading coefficient must be non zero.
func SolveQuartic(a, b, c, d, e float64) [4]complex128 {
	b, c, d, e = b/a, c/a, d/a, e/a
	a0 := 0.25 * b
	a02 := a0 * a0
	// Depressed quartic y^4 + p'y^2 + q'y + r' with z = y - a0, in Ferrari form.
	p := 3*a02 - 0.5*c
	q := b*a02 - c*a0 + 0.5*d
	r := 3*a02*a02 - c*a02 + d*a0 - e
	z0 := cubicRoot(p, r, p*r-0.5*q*q)

	// s*t = -q; derive the smaller of the two from the larger to avoid cancellation.
	var s, t float64
	s2, t2 := 2*p+2*z0, z0*z0+r
	switch {
	case s2 <= 0 && t2 <= 0:
	case s2 >= t2:
		s = math.Sqrt(s2)
		t = -q / s
	default:
		t = math.Sqrt(t2)
		s = -q / t
	}
	r0, r1 := monicQuadratic(s, z0+t)
	r2, r3 := monicQuadratic(-s, z0-t)
	shift := complex(a0, 0)
	roots := [4]complex128{r0 - shift, r1 - shift, r2 - shift, r3 - shift}
	for i, z := range roots {
		roots[i] = polishRoot([]float64{1, b, c, d, e}, z)
	}
	return roots
}

// cubicRoot returns one real root of x^3 + a*x^2 + b*x + c = 0.
// Viète's trigonometric form is used when all roots are real, Cardano's otherwise.
func cubicRoot(a, b, c float64) float64 {
	a13 := a / 3
	a2 := a13 * a13
	f := b/3 - a2
	g := a13*(2*a2-b) + c
	h := 0.25*g*g + f*f*f
	if f == 0 && g == 0 && h == 0 {
		return -math.Cbrt(c)
	}
	if h <= 0 {
		j := math.Sqrt(-f)
		k := math.Acos(math.Max(-1, math.Min(1, -0.5*g/(j*j*j))))
		return 2*j*math.Cos(k/3) - a13
	}
	sh := math.Sqrt(h)
	return math.Cbrt(-0.5*g+sh) + math.Cbrt(-0.5*g-sh) - a13
}

// monicQuadratic returns the roots of z^2 + b*z + c = 0.
func monicQuadratic(b, c float64) (complex128, complex128) {
	δ := cmplx.Sqrt(complex(0.25*b*b-c, 0))
	mid := complex(-0.5*b, 0)
	return mid + δ, mid - δ
}

// polishRoot refines z with a few Newton steps, keeping only improving ones.
// coeffs are ordered from the highest degree.
func polishRoot(coeffs []float64, z complex128) complex128 {
	pz, _ := horner(coeffs, z)
	for i := 0; i < quarticPolishIter; i++ {
		_, dz := horner(coeffs, z)
		if dz == 0 {
			break
		}
		zn := z - pz/dz
		pn, _ := horner(coeffs, zn)
		if cmplx.Abs(pn) >= cmplx.Abs(pz) {
			break
		}
		z, pz = zn, pn
	}
	return z
}

// horner evaluates a polynomial and its derivative at z.
func horner(coeffs []float64, z complex128) (p, dp complex128) {
	for _, k := range coeffs {
		dp = dp*z + p
		p = p*z + complex(k, 0)
	}
	return
}

// realRoots returns the real parts of roots whose imaginary part is negligible.
func realRoots(roots []complex128) []float64 {
	var out []float64
	for _, z := range roots {
		if math.Abs(imag(z)) < imagε*math.Max(1, math.Abs(real(z))) {
			out = append(out, real(z))
		}
	}
	return out
}

// solveCubic returns the three complex roots of a*z^3 + b*z^2 + c*z + d = 0.
func solveCubic(a, b, c, d float64) []complex128 {
	b, c, d = b/a, c/a, d/a
	x := cubicRoot(b, c, d)
	// Deflate by (z - x).
	r1, r2 := monicQuadratic(b+x, c+(b+x)*x)
	coeffs := []float64{1, b, c, d}
	return []complex128{
		polishRoot(coeffs, complex(x, 0)),
		polishRoot(coeffs, r1),
		polishRoot(coeffs, r2),
	}
}

package volatilespace

import (
	"math"
)

const (
	// imagε is the relative imaginary part under which a root is considered real.
	imagε = 1e-6
	// degreeε is the relative size under which a leading coefficient is dropped.
	degreeε = 1e-12
)

// EllipseCircle returns the eccentric anomalies, in [0, 2π), at which the ellipse
// (a*cos(E), b*sin(E)) crosses the circle of radius r centered at (cx, cy).
// The result is empty when the curves do not meet.
func EllipseCircle(a, b, cx, cy, r float64) []float64 {
	// Half angle substitution t = tan(E/2).
	c4 := (a+cx)*(a+cx) + cy*cy - r*r
	c3 := -4 * b * cy
	c2 := -2*(a*a-cx*cx) + 4*b*b + 2*cy*cy - 2*r*r
	c1 := c3
	c0 := (a-cx)*(a-cx) + cy*cy - r*r
	ts, atInfinity := quarticRealRoots(c4, c3, c2, c1, c0)
	var out []float64
	if atInfinity {
		out = append(out, math.Pi)
	}
	for _, t := range ts {
		out = append(out, WrapTwoPi(math.Atan2(2*t, 1-t*t)))
	}
	return out
}

// HyperbolaCircle returns the hyperbolic anomalies at which the branch
// (a*cosh(E), b*sinh(E)), a < 0, crosses the circle of radius r centered at (cx, cy).
// Anomalies are not wrapped. The result is empty when the curves do not meet.
func HyperbolaCircle(a, b, cx, cy, r float64) []float64 {
	// Points on the circle are parametrized by t: x = cx + r(1-t²)/(1+t²), y = cy + 2rt/(1+t²).
	A2, b2 := a*a, b*b
	c4 := b2*(cx-r)*(cx-r) - A2*cy*cy - A2*b2
	c3 := -4 * A2 * r * cy
	c2 := 2*b2*(cx*cx-r*r) - A2*(4*r*r+2*cy*cy) - 2*A2*b2
	c1 := c3
	c0 := b2*(cx+r)*(cx+r) - A2*cy*cy - A2*b2
	ts, atInfinity := quarticRealRoots(c4, c3, c2, c1, c0)
	var out []float64
	if atInfinity && (cx-r)*a > 0 {
		out = append(out, math.Asinh(cy/b))
	}
	for _, t := range ts {
		den := 1 + t*t
		x := cx + r*(1-t*t)/den
		y := cy + 2*r*t/den
		if x*a < 0 {
			// Other branch.
			continue
		}
		out = append(out, math.Asinh(y/b))
	}
	return out
}

// quarticRealRoots returns the real roots of c4*t^4 + ... + c0, lowering the
// degree when leading coefficients vanish. atInfinity reports that t = ±∞ solves
// the homogeneous problem (the quartic lost its leading term).
func quarticRealRoots(c4, c3, c2, c1, c0 float64) (roots []float64, atInfinity bool) {
	scale := math.Max(1, math.Max(math.Abs(c0), math.Abs(c2)))
	if math.Abs(c4) >= degreeε*scale {
		q := SolveQuartic(c4, c3, c2, c1, c0)
		return realRoots(q[:]), false
	}
	if math.Abs(c3) >= degreeε*scale {
		return realRoots(solveCubic(c3, c2, c1, c0)), true
	}
	if math.Abs(c2) >= degreeε*scale {
		r1, r2 := monicQuadratic(c1/c2, c0/c2)
		return realRoots([]complex128{r1, r2}), true
	}
	return nil, true
}

package volatilespace

import "math"

const (
	keplerε          = 1e-10
	keplerMaxIter    = 30
	keplerBisectIter = 1000
	hyperbolaMaxIter = 50
	// Near-parabolic orbits close to periapsis are solved by bisection.
	nearParabolicEcc = 0.99
	nearParabolicM   = 0.0045
)

// EccentricAnomaly solves Kepler's equation M = E - e*sin(E) for an ellipse.
// The returned E is in [0, 2π).
func EccentricAnomaly(e, M float64) float64 {
	M = WrapTwoPi(M)
	if e <= 0 {
		return M
	}
	reflected := M > math.Pi
	if reflected {
		M = τ - M
	}
	var E float64
	if e > nearParabolicEcc && M < nearParabolicM {
		E = keplerBisect(e, M)
	} else {
		E = keplerDanby(e, M)
	}
	if reflected {
		E = τ - E
	}
	return WrapTwoPi(E)
}

// keplerBisect brackets E in [M, M+e] where the derivative nearly vanishes.
func keplerBisect(e, M float64) float64 {
	lo, hi := M, math.Min(math.Pi, M+e)
	for i := 0; i < keplerBisectIter; i++ {
		E := 0.5 * (lo + hi)
		if E-e*math.Sin(E)-M > 0 {
			hi = E
		} else {
			lo = E
		}
		if hi-lo <= 1e-15+2e-16*math.Abs(E) {
			break
		}
	}
	return 0.5 * (lo + hi)
}

// keplerDanby applies a third order correction, with M in [0, π]. The iterate
// is kept in [0, π]; bisection takes over if it has not settled on a root.
func keplerDanby(e, M float64) float64 {
	E := M + 0.85*e
	if M < 0.25 {
		E = M + e*math.Cbrt(6*M)
	}
	E = math.Min(E, math.Pi)
	for i := 0; i < keplerMaxIter; i++ {
		s, c := math.Sincos(E)
		f2, f3 := e*s, e*c
		f0 := E - f2 - M
		f1 := 1 - f3
		δ1 := -f0 / f1
		δ2 := -f0 / (f1 + 0.5*δ1*f2)
		δ3 := -f0 / (f1 + 0.5*δ2*f2 + δ2*δ2*f3/6)
		E = math.Max(0, math.Min(math.Pi, E+δ3))
		if math.Abs(δ3) < 1e-15 || δ3*δ3 < 2*keplerε*f1/e {
			break
		}
	}
	if math.Abs(E-e*math.Sin(E)-M) > keplerε {
		return keplerBisect(e, M)
	}
	return E
}

// HyperbolicAnomaly solves M = e*sinh(E) - E by Newton-Raphson starting from E0.
// The best estimate is returned when the iteration cap is reached.
func HyperbolicAnomaly(e, M, E0 float64) float64 {
	E := E0
	for i := 0; i < hyperbolaMaxIter; i++ {
		δ := (e*math.Sinh(E) - E - M) / (e*math.Cosh(E) - 1)
		E -= δ
		if math.Abs(δ) < keplerε {
			break
		}
	}
	return E
}

// MeanAnomaly returns the mean anomaly of an ellipse for E, in [0, 2π).
func MeanAnomaly(e, E float64) float64 {
	return WrapTwoPi(E - e*math.Sin(E))
}

// HyperbolicMeanAnomaly returns the mean anomaly of a hyperbola for E.
func HyperbolicMeanAnomaly(e, E float64) float64 {
	return e*math.Sinh(E) - E
}

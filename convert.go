package volatilespace

import (
	"math"
)

// Failsafe selects how much StateToElements double checks its anomaly branch.
type Failsafe uint8

const (
	// FailsafeNone trusts the quadrant resolution as computed.
	FailsafeNone Failsafe = iota
	// FailsafePosition rebuilds the position from the elements and flips the
	// anomaly if it lands elsewhere.
	FailsafePosition
	// FailsafeVelocity additionally mirrors the orbit about the radius when the
	// rebuilt velocity points away from the input velocity.
	FailsafeVelocity
)

// failsafePercent is the relative position mismatch, in percent, that triggers a branch flip.
const failsafePercent = 1.0

// Elements is the result of a state vector conversion.
type Elements struct {
	A, Ecc, Pea, MA, EA, Dir float64
}

// ElementsToVelocity returns the velocity at the relative position p on the orbit
// described by a, ecc, pea around a body of gravitational parameter μ, moving in direction dir.
func ElementsToVelocity(p []float64, a, ecc, pea, μ, dir float64) []float64 {
	ecc = nudgeEccentricity(ecc)
	r := norm(p)
	speed := math.Sqrt(μ * math.Abs(2/r-1/a))
	f := a * ecc
	b2 := math.Abs(f*f - a*a)
	// Move into the center-relative frame and take the gradient of the implicit conic.
	l := Rotate(p, -pea)
	l[0] += f
	g := []float64{l[0] / (a * a), l[1] / b2}
	if ecc >= 1 {
		g[1] = -g[1]
	}
	tangent := unit([]float64{-g[1], g[0]})
	tangent = Rotate(tangent, pea)
	if cross(p, tangent)*dir < 0 {
		tangent[0], tangent[1] = -tangent[0], -tangent[1]
	}
	return []float64{tangent[0] * speed, tangent[1] * speed}
}

// StateToElements returns the orbital elements of a relative state (p, v) around a
// body of gravitational parameter μ. Eccentricities of exactly 0 or 1 are nudged.
func StateToElements(p, v []float64, μ float64, failsafe Failsafe) Elements {
	r := norm(p)
	v2 := dot(v, v)
	ξ := v2/2 - μ/r
	a := -μ / (2 * ξ)
	dir := Prograde
	if cross(p, v) < 0 {
		dir = Retrograde
	}
	rv := dot(p, v)
	eVec := []float64{
		((v2-μ/r)*p[0] - rv*v[0]) / μ,
		((v2-μ/r)*p[1] - rv*v[1]) / μ,
	}
	ecc := nudgeEccentricity(norm(eVec))
	pea := WrapTwoPi(math.Atan2(eVec[1], eVec[0]))
	θ := math.Atan2(p[1], p[0])
	E := anomalyFromTrue(ecc, θ-pea)
	el := Elements{A: a, Ecc: ecc, Pea: pea, EA: E, Dir: dir}

	el.checkBranch(p, v, μ, failsafe)
	if ecc >= 1 {
		el.MA = HyperbolicMeanAnomaly(ecc, el.EA)
	} else {
		el.MA = MeanAnomaly(ecc, el.EA)
	}
	return el
}

// checkBranch verifies the anomaly branch of el against the state it came from,
// up to the requested failsafe level.
func (el *Elements) checkBranch(p, v []float64, μ float64, failsafe Failsafe) {
	r := norm(p)
	if failsafe >= FailsafePosition {
		miss := func(E float64) float64 {
			return 100 * norm(sub(el.positionAt(E), p)) / r
		}
		if m := miss(el.EA); m > failsafePercent {
			if flipped := el.flipped(el.EA); miss(flipped) < m {
				el.EA = flipped
			}
		}
	}
	if failsafe >= FailsafeVelocity {
		rebuilt := ElementsToVelocity(el.positionAt(el.EA), el.A, el.Ecc, el.Pea, μ, el.Dir)
		if dot(rebuilt, v) < 0 {
			// Mirror about the radius, which keeps the position in place.
			el.EA = el.flipped(el.EA)
			el.Pea = WrapTwoPi(2*math.Atan2(p[1], p[0]) - el.Pea)
		}
	}
}

// StateToOrbit converts a relative state to an Orbit around ref.
func StateToOrbit(ref string, p, v []float64, μ float64, failsafe Failsafe) Orbit {
	el := StateToElements(p, v, μ, failsafe)
	o := NewOrbit(ref, el.A, el.Ecc, el.Pea, el.MA, el.Dir, μ)
	o.EA = el.EA
	return o
}

// anomalyFromTrue converts a true anomaly to the eccentric (or hyperbolic) anomaly.
func anomalyFromTrue(ecc, ν float64) float64 {
	if ecc >= 1 {
		return 2 * math.Atanh(math.Sqrt((ecc-1)/(ecc+1))*math.Tan(WrapPi(ν)/2))
	}
	s, c := math.Sincos(ν)
	return WrapTwoPi(math.Atan2(math.Sqrt(1-ecc*ecc)*s, ecc+c))
}

func (el Elements) flipped(E float64) float64 {
	if el.Ecc >= 1 {
		return -E
	}
	return WrapTwoPi(-E)
}

func (el Elements) positionAt(E float64) []float64 {
	o := Orbit{A: el.A, Ecc: el.Ecc, Pea: el.Pea, F: el.A * el.Ecc}
	o.B = math.Sqrt(math.Abs(o.F*o.F - o.A*o.A))
	return o.PositionAt(E)
}

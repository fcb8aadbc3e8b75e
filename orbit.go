package volatilespace

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	// eccentricityε nudges exactly circular and parabolic orbits off their degenerate branch.
	eccentricityε = 1e-6
	angleε        = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees
	distanceε     = 1e-6                         // relative
)

// Direction is the rotation sense of an orbit: +1 counter-clockwise, -1 clockwise.
const (
	Prograde   = 1.0
	Retrograde = -1.0
)

// Orbit defines a planar orbit via its elements, relative to a reference body.
// The conic is placed with its center at the origin of the orbit-local frame and
// periapsis along +x; the reference body sits at the focus (F, 0).
type Orbit struct {
	Ref    string  // reference body name
	A      float64 // semi-major axis, negative for hyperbolas
	Ecc    float64 // eccentricity
	Pea    float64 // argument of periapsis
	MA     float64 // mean anomaly
	EA     float64 // eccentric (or hyperbolic) anomaly
	Dir    float64 // Prograde or Retrograde
	N      float64 // mean motion, non-negative
	Period float64 // zero for hyperbolas
	B      float64 // semi-minor axis
	F      float64 // focal distance, A*Ecc
}

// NewOrbit creates an orbit from its elements around a body of gravitational parameter μ.
func NewOrbit(ref string, a, ecc, pea, ma, dir, μ float64) Orbit {
	ecc = nudgeEccentricity(ecc)
	o := Orbit{Ref: ref, A: a, Ecc: ecc, Pea: WrapTwoPi(pea), Dir: sign(dir)}
	o.F = a * ecc
	o.B = math.Sqrt(math.Abs(o.F*o.F - a*a))
	o.N = math.Sqrt(μ / math.Pow(math.Abs(a), 3))
	if o.Hyperbolic() {
		o.MA = ma
		o.EA = HyperbolicAnomaly(ecc, ma, math.Asinh(ma/ecc))
	} else {
		o.Period = τ / o.N
		o.MA = WrapTwoPi(ma)
		o.EA = EccentricAnomaly(ecc, o.MA)
	}
	return o
}

func nudgeEccentricity(ecc float64) float64 {
	if ecc == 0 || ecc == 1 {
		return ecc + eccentricityε
	}
	return ecc
}

// Hyperbolic returns whether this orbit is open.
func (o Orbit) Hyperbolic() bool {
	return o.Ecc >= 1
}

// GM returns the gravitational parameter of the reference body, from the mean motion.
func (o Orbit) GM() float64 {
	return o.N * o.N * math.Pow(math.Abs(o.A), 3)
}

// Apoapsis returns the apoapsis distance, +Inf for hyperbolas.
func (o Orbit) Apoapsis() float64 {
	if o.Hyperbolic() {
		return math.Inf(1)
	}
	return o.A * (1 + o.Ecc)
}

// Periapsis returns the periapsis distance.
func (o Orbit) Periapsis() float64 {
	return o.A * (1 - o.Ecc)
}

// AnomalyAt returns the eccentric anomaly matching the mean anomaly M.
func (o Orbit) AnomalyAt(M float64) float64 {
	if o.Hyperbolic() {
		return HyperbolicAnomaly(o.Ecc, M, o.EA)
	}
	return EccentricAnomaly(o.Ecc, M)
}

// MeanAt returns the mean anomaly matching the eccentric anomaly E.
func (o Orbit) MeanAt(E float64) float64 {
	if o.Hyperbolic() {
		return HyperbolicMeanAnomaly(o.Ecc, E)
	}
	return MeanAnomaly(o.Ecc, E)
}

// LocalPoint returns the point at E in the center-relative, un-rotated frame.
func (o Orbit) LocalPoint(E float64) []float64 {
	if o.Hyperbolic() {
		return []float64{o.A * math.Cosh(E), o.B * math.Sinh(E)}
	}
	s, c := math.Sincos(E)
	return []float64{o.A * c, o.B * s}
}

// LocalVelocity returns the velocity at E in the un-rotated frame.
func (o Orbit) LocalVelocity(E float64) []float64 {
	if o.Hyperbolic() {
		k := o.Dir * o.N / (o.Ecc*math.Cosh(E) - 1)
		return []float64{o.A * math.Sinh(E) * k, o.B * math.Cosh(E) * k}
	}
	s, c := math.Sincos(E)
	k := o.Dir * o.N / (1 - o.Ecc*c)
	return []float64{-o.A * s * k, o.B * c * k}
}

// focalPoint returns the point at E relative to the focus, un-rotated.
func (o Orbit) focalPoint(E float64) []float64 {
	p := o.LocalPoint(E)
	p[0] -= o.F
	return p
}

// PositionAt returns the position at E relative to the reference body.
func (o Orbit) PositionAt(E float64) []float64 {
	return Rotate(o.focalPoint(E), o.Pea)
}

// VelocityAt returns the velocity at E relative to the reference body.
func (o Orbit) VelocityAt(E float64) []float64 {
	return Rotate(o.LocalVelocity(E), o.Pea)
}

// Position returns the current position relative to the reference body.
func (o Orbit) Position() []float64 {
	return o.PositionAt(o.EA)
}

// Velocity returns the current velocity relative to the reference body.
func (o Orbit) Velocity() []float64 {
	return o.VelocityAt(o.EA)
}

// Center returns the center of the conic relative to the reference body.
func (o Orbit) Center() []float64 {
	return Rotate([]float64{-o.F, 0}, o.Pea)
}

// AtMean returns a copy of this orbit at the provided mean anomaly.
func (o Orbit) AtMean(M float64) Orbit {
	if !o.Hyperbolic() {
		M = WrapTwoPi(M)
	}
	o.EA = o.AnomalyAt(M)
	o.MA = M
	return o
}

// Propagate returns a copy of this orbit advanced by dt.
func (o Orbit) Propagate(dt float64) Orbit {
	return o.AtMean(o.MA + o.Dir*o.N*dt)
}

// String implements the stringer interface (hence the value receiver)
func (o Orbit) String() string {
	dir := "prograde"
	if o.Dir < 0 {
		dir = "retrograde"
	}
	return fmt.Sprintf("%s: a=%.3f e=%.6f ω=%.3f M=%.4f E=%.4f %s", o.Ref, o.A, o.Ecc, Rad2deg(o.Pea), o.MA, o.EA, dir)
}

// Equals returns whether two orbits are identical, including their anomaly.
func (o Orbit) Equals(o1 Orbit) (bool, error) {
	if o.Ref != o1.Ref {
		return false, errors.New("different reference")
	}
	if !scalar.EqualWithinRel(o.A, o1.A, distanceε) {
		return false, errors.New("semi major axis invalid")
	}
	if !scalar.EqualWithinAbs(o.Ecc, o1.Ecc, eccentricityε) {
		return false, errors.New("eccentricity invalid")
	}
	if o.Dir != o1.Dir {
		return false, errors.New("direction invalid")
	}
	if !scalar.EqualWithinAbs(WrapPi(o.Pea-o1.Pea), 0, angleε) {
		return false, errors.New("argument of periapsis invalid")
	}
	if !scalar.EqualWithinAbs(WrapPi(o.MA-o1.MA), 0, angleε) {
		return false, errors.New("mean anomaly invalid")
	}
	return true, nil
}

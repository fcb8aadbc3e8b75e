package volatilespace

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestStateElementsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 5000; i++ {
		μ := 10 + rng.Float64()*990
		var a, e, E float64
		if i%3 == 0 {
			e = 1.05 + rng.Float64()*2
			a = -(50 + rng.Float64()*450)
			E = -2 + rng.Float64()*4
		} else {
			e = 0.01 + rng.Float64()*0.94
			a = 50 + rng.Float64()*450
			E = rng.Float64() * τ
		}
		pea := rng.Float64() * τ
		dir := Prograde
		if rng.Intn(2) == 0 {
			dir = Retrograde
		}
		o := Orbit{A: a, Ecc: e, Pea: pea, F: a * e, B: math.Sqrt(math.Abs(a*a*e*e - a*a))}
		p := o.PositionAt(E)
		v := ElementsToVelocity(p, a, e, pea, μ, dir)
		for _, fs := range []Failsafe{FailsafeNone, FailsafePosition, FailsafeVelocity} {
			el := StateToElements(p, v, μ, fs)
			if !scalar.EqualWithinRel(el.A, a, 1e-6) {
				t.Fatalf("#%d fs=%d: a=%f expected %f", i, fs, el.A, a)
			}
			if !scalar.EqualWithinAbs(el.Ecc, e, 1e-6) {
				t.Fatalf("#%d fs=%d: e=%f expected %f", i, fs, el.Ecc, e)
			}
			if ok, err := anglesEqual(el.Pea, pea); !ok {
				t.Fatalf("#%d fs=%d: ω %s", i, fs, err)
			}
			if ok, err := anglesEqual(el.EA, E); !ok {
				t.Fatalf("#%d fs=%d: E %s", i, fs, err)
			}
			if el.Dir != dir {
				t.Fatalf("#%d fs=%d: direction flipped", i, fs)
			}
		}
	}
}

func TestElementsToVelocityMatchesOrbit(t *testing.T) {
	μ := 500.0
	for _, o := range []Orbit{
		NewOrbit("Sun", 300, 0.6, 4.1, 5.7, Prograde, μ),
		NewOrbit("Sun", 250, 0.05, 0.2, 2.9, Retrograde, μ),
		NewOrbit("Sun", -200, 1.4, 3.3, -0.7, Prograde, μ),
		NewOrbit("Sun", -200, 2.4, 1.3, 2.7, Retrograde, μ),
	} {
		v := ElementsToVelocity(o.Position(), o.A, o.Ecc, o.Pea, μ, o.Dir)
		if !vectorsEqual(v, o.Velocity(), 1e-9) {
			t.Fatalf("%s: velocity %v expected %v", o, v, o.Velocity())
		}
		back := StateToOrbit(o.Ref, o.Position(), o.Velocity(), μ, FailsafeVelocity)
		if ok, err := back.Equals(o); !ok {
			t.Fatalf("%s: round trip failed: %s\n%s", o, err, back)
		}
		if !vectorsEqual(back.Position(), o.Position(), 1e-6) {
			t.Fatalf("%s: position moved to %v", o, back.Position())
		}
	}
}

func TestStateToElementsDegenerate(t *testing.T) {
	// Exactly circular state.
	μ := 100.0
	r := 50.0
	el := StateToElements([]float64{r, 0}, []float64{0, math.Sqrt(μ / r)}, μ, FailsafeVelocity)
	if el.Ecc <= 0 || el.Ecc > 1e-5 {
		t.Fatalf("circular eccentricity %g not nudged", el.Ecc)
	}
	if !scalar.EqualWithinRel(el.A, r, 1e-9) || el.Dir != Prograde {
		t.Fatalf("circular orbit a=%f dir=%f", el.A, el.Dir)
	}
	// Clockwise.
	el = StateToElements([]float64{r, 0}, []float64{0, -math.Sqrt(μ / r)}, μ, FailsafeNone)
	if el.Dir != Retrograde {
		t.Fatal("clockwise state should be retrograde")
	}
}

func TestCheckBranch(t *testing.T) {
	e := 0.9
	ν := Deg2rad(154)
	E := anomalyFromTrue(e, ν)
	o := NewOrbit("Sun", 300, e, 1, MeanAnomaly(e, E), Prograde, 500)
	p, v := o.Position(), o.Velocity()
	el := StateToElements(p, v, o.GM(), FailsafeNone)

	// Wrong anomaly branch: the rebuilt position lands on the other side.
	wrong := el
	wrong.EA = el.flipped(el.EA)
	kept := wrong
	kept.checkBranch(p, v, o.GM(), FailsafeNone)
	if kept.EA != wrong.EA {
		t.Fatal("branch changed without a failsafe")
	}
	wrong.checkBranch(p, v, o.GM(), FailsafePosition)
	if ok, err := anglesEqual(wrong.EA, el.EA); !ok {
		t.Fatalf("anomaly branch not restored: %s", err)
	}

	// Mirrored about the radius: same position, velocity pointing elsewhere.
	θ := math.Atan2(p[1], p[0])
	mirrored := el
	mirrored.EA = el.flipped(el.EA)
	mirrored.Pea = WrapTwoPi(2*θ - el.Pea)
	if !vectorsEqual(mirrored.positionAt(mirrored.EA), p, 1e-6) {
		t.Fatal("bad test setup: mirrored orbit moved the position")
	}
	pos := mirrored
	pos.checkBranch(p, v, o.GM(), FailsafePosition)
	if pos != mirrored {
		t.Fatal("position failsafe should not see a mirrored orbit")
	}
	mirrored.checkBranch(p, v, o.GM(), FailsafeVelocity)
	if ok, err := anglesEqual(mirrored.EA, el.EA); !ok {
		t.Fatalf("mirrored anomaly not restored: %s", err)
	}
	if ok, err := anglesEqual(mirrored.Pea, el.Pea); !ok {
		t.Fatalf("mirrored periapsis not restored: %s", err)
	}
}

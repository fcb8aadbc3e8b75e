package volatilespace

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

func vectorsEqual(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !scalar.EqualWithinAbs(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

//anglesEqual returns whether two angles in Radians are equal.
func anglesEqual(a, b float64) (bool, error) {
	diff := math.Abs(WrapPi(a - b))
	if diff < angleε {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10f degrees", Rad2deg(diff))
}

// fixtureVessel and fixtureMoon reproduce a recorded in-game encounter.
func fixtureVessel() Orbit {
	period := 1463.5482795169676
	return Orbit{
		Ref:    "Sun",
		A:      300.474848502583,
		Ecc:    0.6008720504761658,
		Pea:    4.155140632859112,
		MA:     5.792703785429235,
		EA:     5.288975731201161,
		Dir:    Prograde,
		N:      τ / period,
		Period: period,
		B:      240.1831335461591,
		F:      180.5469383362623,
	}
}

func fixtureMoon() Body {
	o := Orbit{
		Ref: "Sun",
		A:   500.4608436404148,
		Ecc: 0.0542305694443186,
		Pea: 6.137838350399759,
		MA:  5.692060439783578,
		Dir: Prograde,
		N:   0.001997238120388435,
		B:   499.7243854434846,
		F:   27.14027653520379,
	}
	o.EA = EccentricAnomaly(o.Ecc, o.MA)
	o.Period = τ / o.N
	return Body{Name: "Moon", GM: 8.9, COI: 99.85506614332527, Orbit: o}
}

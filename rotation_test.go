package volatilespace

import (
	"math"
	"testing"
)

func TestR2(t *testing.T) {
	x := []float64{1, 0}
	if got := Rotate(x, math.Pi/2); !vectorsEqual(got, []float64{0, 1}, 1e-15) {
		t.Fatalf("quarter turn: %v", got)
	}
	if got := Rotate(x, math.Pi); !vectorsEqual(got, []float64{-1, 0}, 1e-15) {
		t.Fatalf("half turn: %v", got)
	}
	v := []float64{3.2, -1.7}
	if got := Rotate(Rotate(v, 1.234), -1.234); !vectorsEqual(got, v, 1e-14) {
		t.Fatalf("rotation not reversible: %v", got)
	}
	if !vectorsEqual(MxV22(R2(0.3), v), Rotate(v, 0.3), 0) {
		t.Fatal("MxV22 and Rotate differ")
	}
}

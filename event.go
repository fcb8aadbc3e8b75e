package volatilespace

import (
	"fmt"
	"math"
)

// COIEvent is a predicted crossing into a body's circle of influence.
type COIEvent struct {
	Body   string  // candidate body name
	EA, MA float64 // vessel anomalies at the crossing
	BodyEA float64 // body anomalies at the crossing
	BodyMA float64
	Time   float64 // time until the crossing, within one vessel period
	Exact  bool    // false when the search ran out of iterations but was close enough
}

// NoEvent returns the "no crossing" sentinel, all of whose fields are NaN.
func NoEvent() COIEvent {
	nan := math.NaN()
	return COIEvent{EA: nan, MA: nan, BodyEA: nan, BodyMA: nan, Time: nan}
}

// Found returns whether this event describes an actual crossing.
func (e COIEvent) Found() bool {
	return !math.IsNaN(e.Time)
}

// String implements the stringer interface.
func (e COIEvent) String() string {
	if !e.Found() {
		return "no COI event"
	}
	kind := "approximate"
	if e.Exact {
		kind = "exact"
	}
	return fmt.Sprintf("%s COI entry in %.3f (E=%.6f M=%.6f, body E=%.6f M=%.6f) %s", e.Body, e.Time, e.EA, e.MA, e.BodyEA, e.BodyMA, kind)
}

// EnterRequest gathers the inputs of one COI entry prediction.
type EnterRequest struct {
	Vessel  Orbit
	HomeCOI float64 // COI radius of the vessel's reference body, zero if unbounded
	Body    Body    // candidate body sharing the vessel's reference
	Hint    float64 // vessel mean anomaly tried first, if HasHint
	HasHint bool
}

package volatilespace

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongReference is returned when a vessel does not orbit the expected body.
	ErrWrongReference = errors.New("vessel does not orbit the expected reference")
	// ErrInvalidGM is returned for a non positive gravitational parameter.
	ErrInvalidGM = errors.New("gravitational parameter must be positive")
	// ErrUnnamedBody is returned when a body has no name.
	ErrUnnamedBody = errors.New("body has no name")
)

// EnterCOI re-expresses the vessel orbit relative to the body whose COI it entered.
// Both orbits must share the same reference and be at the same instant.
func EnterCOI(vessel Orbit, body Body) (Orbit, error) {
	if body.GM <= 0 {
		return Orbit{}, fmt.Errorf("%s: %w", body.Name, ErrInvalidGM)
	}
	if vessel.Ref != body.Orbit.Ref {
		return Orbit{}, fmt.Errorf("%w: vessel around '%s', %s around '%s'", ErrWrongReference, vessel.Ref, body.Name, body.Orbit.Ref)
	}
	p := sub(vessel.Position(), body.Orbit.Position())
	v := sub(vessel.Velocity(), body.Orbit.Velocity())
	// Boundary snapshots may yield a reversed velocity without the strictest failsafe.
	return StateToOrbit(body.Name, p, v, body.GM, FailsafeVelocity), nil
}

// LeaveCOI re-expresses the vessel orbit relative to the reference of the body
// it is leaving. The parent's gravitational parameter is derived from the body orbit.
func LeaveCOI(vessel Orbit, body Body) (Orbit, error) {
	if vessel.Ref != body.Name {
		return Orbit{}, fmt.Errorf("%w: vessel around '%s', leaving %s", ErrWrongReference, vessel.Ref, body.Name)
	}
	if body.IsRoot() {
		return Orbit{}, fmt.Errorf("%s has no reference to fall back to", body.Name)
	}
	p := add(vessel.Position(), body.Orbit.Position())
	v := add(vessel.Velocity(), body.Orbit.Velocity())
	return StateToOrbit(body.Orbit.Ref, p, v, body.Orbit.GM(), FailsafePosition), nil
}

// OutsideCOI returns whether the vessel is beyond the COI radius of its reference.
func OutsideCOI(vessel Orbit, coi float64) bool {
	return coi > 0 && norm(vessel.Position()) > coi
}

// ApplyEnter propagates the vessel and body to the event and enters the body's COI.
func ApplyEnter(vessel Orbit, body Body, ev COIEvent) (Orbit, error) {
	if !ev.Found() {
		return Orbit{}, errors.New("no event to apply")
	}
	return EnterCOI(vessel.AtMean(ev.MA), body.Propagate(ev.Time))
}

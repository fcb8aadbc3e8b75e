package volatilespace

import (
	"fmt"
	"math"
	"strings"
)

// Body defines a celestial body which may capture vessels within its COI.
type Body struct {
	Name  string
	GM    float64 // gravitational parameter μ
	COI   float64 // circle of influence radius
	Orbit Orbit   // orbit around its own reference, zero for the root body
}

// IsRoot returns whether this body does not orbit anything.
func (b Body) IsRoot() bool {
	return b.Orbit.Ref == ""
}

// String implements the Stringer interface.
func (b Body) String() string {
	return b.Name + " body"
}

// Equals returns whether the provided body is the same.
func (b Body) Equals(o Body) bool {
	return b.Name == o.Name && b.GM == o.GM && b.COI == o.COI && b.Orbit.Ref == o.Orbit.Ref
}

// Propagate returns a copy of this body advanced by dt along its orbit.
func (b Body) Propagate(dt float64) Body {
	if !b.IsRoot() {
		b.Orbit = b.Orbit.Propagate(dt)
	}
	return b
}

// LaplaceCOI returns the Laplace sphere of influence radius of a body of
// gravitational parameter gm orbiting at a around a parent of parameter parentGM.
func LaplaceCOI(a, gm, parentGM float64) float64 {
	return math.Abs(a) * math.Pow(gm/parentGM, 0.4)
}

// System is a set of bodies keyed by name.
type System struct {
	bodies map[string]Body
	order  []string
}

// NewSystem returns a system of the provided bodies. Every non root body must
// orbit another body of the system, and a body without COI gets its Laplace COI.
func NewSystem(bodies ...Body) (*System, error) {
	s := &System{bodies: make(map[string]Body, len(bodies))}
	for _, b := range bodies {
		if b.Name == "" {
			return nil, ErrUnnamedBody
		}
		if b.GM <= 0 {
			return nil, fmt.Errorf("%s: %w", b.Name, ErrInvalidGM)
		}
		if _, dup := s.bodies[b.Name]; dup {
			return nil, fmt.Errorf("duplicate body '%s'", b.Name)
		}
		s.bodies[b.Name] = b
		s.order = append(s.order, b.Name)
	}
	for _, name := range s.order {
		b := s.bodies[name]
		if b.IsRoot() {
			continue
		}
		parent, ok := s.bodies[b.Orbit.Ref]
		if !ok {
			return nil, fmt.Errorf("%s orbits undefined body '%s'", b.Name, b.Orbit.Ref)
		}
		if b.COI == 0 {
			b.COI = LaplaceCOI(b.Orbit.A, b.GM, parent.GM)
			s.bodies[name] = b
		}
	}
	return s, nil
}

// Body returns the body from its name, case insensitive.
func (s *System) Body(name string) (Body, error) {
	if b, ok := s.bodies[name]; ok {
		return b, nil
	}
	for _, n := range s.order {
		if strings.EqualFold(n, name) {
			return s.bodies[n], nil
		}
	}
	return Body{}, fmt.Errorf("undefined body '%s'", name)
}

// Children returns the bodies orbiting ref, in definition order.
func (s *System) Children(ref string) []Body {
	var out []Body
	for _, n := range s.order {
		if b := s.bodies[n]; b.Orbit.Ref == ref && !b.IsRoot() {
			out = append(out, b)
		}
	}
	return out
}

// Propagate advances every body of the system by dt.
func (s *System) Propagate(dt float64) {
	for n, b := range s.bodies {
		s.bodies[n] = b.Propagate(dt)
	}
}

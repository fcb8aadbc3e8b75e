package main

import (
	"fmt"

	vs "github.com/mzivic7/volatilespace"
	"github.com/spf13/viper"
)

// orbitConf is the scenario representation of an orbit. Angles are in radians.
type orbitConf struct {
	Ref string  `mapstructure:"ref"`
	A   float64 `mapstructure:"a"`
	Ecc float64 `mapstructure:"ecc"`
	Pea float64 `mapstructure:"pea"`
	MA  float64 `mapstructure:"ma"`
	Dir float64 `mapstructure:"dir"`
}

type bodyConf struct {
	Name  string    `mapstructure:"name"`
	GM    float64   `mapstructure:"gm"`
	COI   float64   `mapstructure:"coi"`
	Orbit orbitConf `mapstructure:"orbit"`
}

// Scenario is a vessel among a system of bodies.
type Scenario struct {
	System *vs.System
	Vessel vs.Orbit
	Home   vs.Body
}

func (o orbitConf) orbit(sys map[string]float64) (vs.Orbit, error) {
	gm, ok := sys[o.Ref]
	if !ok {
		return vs.Orbit{}, fmt.Errorf("undefined reference '%s'", o.Ref)
	}
	dir := o.Dir
	if dir == 0 {
		dir = vs.Prograde
	}
	return vs.NewOrbit(o.Ref, o.A, o.Ecc, o.Pea, o.MA, dir, gm), nil
}

func readScenario() (Scenario, error) {
	var confs []bodyConf
	if err := viper.UnmarshalKey("bodies", &confs); err != nil {
		return Scenario{}, fmt.Errorf("bodies: %w", err)
	}
	gms := make(map[string]float64, len(confs))
	for _, c := range confs {
		gms[c.Name] = c.GM
	}
	bodies := make([]vs.Body, len(confs))
	for i, c := range confs {
		bodies[i] = vs.Body{Name: c.Name, GM: c.GM, COI: c.COI}
		if c.Orbit.Ref == "" {
			continue
		}
		o, err := c.Orbit.orbit(gms)
		if err != nil {
			return Scenario{}, fmt.Errorf("%s: %w", c.Name, err)
		}
		bodies[i].Orbit = o
	}
	sys, err := vs.NewSystem(bodies...)
	if err != nil {
		return Scenario{}, err
	}

	var vc orbitConf
	if err := viper.UnmarshalKey("vessel", &vc); err != nil {
		return Scenario{}, fmt.Errorf("vessel: %w", err)
	}
	vessel, err := vc.orbit(gms)
	if err != nil {
		return Scenario{}, fmt.Errorf("vessel: %w", err)
	}
	home, err := sys.Body(vessel.Ref)
	if err != nil {
		return Scenario{}, err
	}
	return Scenario{System: sys, Vessel: vessel, Home: home}, nil
}

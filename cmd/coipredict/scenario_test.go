package main

import (
	"testing"

	vs "github.com/mzivic7/volatilespace"
	"github.com/spf13/viper"
)

func TestReadScenario(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.SetConfigFile("fixture.toml")
	if err := viper.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	sc, err := readScenario()
	if err != nil {
		t.Fatal(err)
	}
	if sc.Vessel.Ref != "Sun" || sc.Vessel.A != 300.474848502583 || sc.Vessel.Dir != vs.Prograde {
		t.Fatalf("unexpected vessel %s", sc.Vessel)
	}
	if sc.Home.Name != "Sun" || !sc.Home.IsRoot() {
		t.Fatalf("vessel should orbit the root body, got %s", sc.Home)
	}
	moon, err := sc.System.Body("moon")
	if err != nil {
		t.Fatal(err)
	}
	if moon.COI != 99.85506614332527 || moon.Orbit.Ref != "Sun" || moon.Orbit.A != 500.4608436404148 {
		t.Fatalf("unexpected moon %s", moon)
	}
	children := sc.System.Children("Sun")
	if len(children) != 1 || children[0].Name != "Moon" {
		t.Fatalf("unexpected children of the Sun: %v", children)
	}

	ev := vs.NewPredictor(vs.DefaultPredictorConfig()).PredictEnter(vs.EnterRequest{Vessel: sc.Vessel, HomeCOI: sc.Home.COI, Body: moon})
	if !ev.Found() {
		t.Fatal("fixture scenario should reach the moon")
	}
}

func TestReadScenarioUndefinedReference(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("bodies", []map[string]interface{}{{"name": "Sun", "gm": 500.0}})
	viper.Set("vessel", map[string]interface{}{"ref": "Earth", "a": 100.0, "ecc": 0.1})
	if _, err := readScenario(); err == nil {
		t.Fatal("vessel around an undefined body accepted")
	}
}

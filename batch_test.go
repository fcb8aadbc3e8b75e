package volatilespace

import (
	"context"
	"errors"
	"testing"
)

func TestPredictAll(t *testing.T) {
	sys := testSystem(t)
	vessel := fixtureVessel()
	bodies := append(sys.Children("Sun"), Body{Name: "Elsewhere", GM: 1, COI: 10, Orbit: NewOrbit("Rock", 5, 0.1, 0, 0, Prograde, 2)})
	p := NewPredictor(DefaultPredictorConfig())
	events, err := PredictAll(context.Background(), p, 2, vessel, 0, bodies)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != len(bodies) {
		t.Fatalf("%d events for %d bodies", len(events), len(bodies))
	}
	for i, ev := range events {
		if ev.Body != bodies[i].Name {
			t.Fatalf("event #%d for %s, expected %s", i, ev.Body, bodies[i].Name)
		}
	}
	if events[2].Found() {
		t.Fatal("body around another reference predicted")
	}
	serial := p.PredictEnter(EnterRequest{Vessel: vessel, Body: bodies[0]})
	if events[0] != serial {
		t.Fatalf("concurrent prediction differs:\n%s\n%s", events[0], serial)
	}
	if first := Earliest(events); first != 0 {
		t.Fatalf("earliest event #%d", first)
	}
}

func TestPredictAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	moon := fixtureMoon()
	_, err := PredictAll(ctx, NewPredictor(DefaultPredictorConfig()), 1, fixtureVessel(), 0, []Body{moon, moon})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestEarliest(t *testing.T) {
	a, b := NoEvent(), NoEvent()
	if Earliest([]COIEvent{a, b}) != -1 {
		t.Fatal("no event should be found")
	}
	a.Time, b.Time = 20, 10
	if Earliest([]COIEvent{a, NoEvent(), b}) != 2 {
		t.Fatal("wrong earliest event")
	}
}

package volatilespace

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Enterer predicts COI entries, with or without a cache.
type Enterer interface {
	PredictEnter(EnterRequest) COIEvent
}

// PredictAll predicts the COI entry of the vessel into every body sharing its
// reference, concurrently. Bodies orbiting anything else yield NoEvent. The
// returned events are in the order of bodies.
func PredictAll(ctx context.Context, p Enterer, workers int, vessel Orbit, homeCOI float64, bodies []Body) ([]COIEvent, error) {
	events := make([]COIEvent, len(bodies))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, b := range bodies {
		if b.Orbit.Ref != vessel.Ref {
			ev := NoEvent()
			ev.Body = b.Name
			events[i] = ev
			continue
		}
		i, b := i, b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			events[i] = p.PredictEnter(EnterRequest{Vessel: vessel, HomeCOI: homeCOI, Body: b})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return events, nil
}

// Earliest returns the index of the first found event, or -1 if none is found.
func Earliest(events []COIEvent) int {
	best := -1
	for i, ev := range events {
		if ev.Found() && (best < 0 || ev.Time < events[best].Time) {
			best = i
		}
	}
	return best
}

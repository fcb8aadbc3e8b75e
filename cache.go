package volatilespace

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheKey identifies a prediction by the element snapshots it was computed from.
type cacheKey struct {
	vessel, body Orbit
	name         string
	coi, homeCOI float64
	hint         float64
	hasHint      bool
}

// CachedPredictor memoizes predictions until either orbit's elements change.
// It is safe for concurrent use.
type CachedPredictor struct {
	Predictor
	cache *lru.Cache[cacheKey, COIEvent]
}

// NewCachedPredictor wraps p with a cache of the provided size.
func NewCachedPredictor(p Predictor, size int) (*CachedPredictor, error) {
	c, err := lru.New[cacheKey, COIEvent](size)
	if err != nil {
		return nil, err
	}
	return &CachedPredictor{Predictor: p, cache: c}, nil
}

// PredictEnter returns the cached event for these exact inputs, computing it on a miss.
func (c *CachedPredictor) PredictEnter(req EnterRequest) COIEvent {
	key := keyOf(req)
	if ev, ok := c.cache.Get(key); ok {
		c.metrics.observe(OutcomeCached, 0)
		return ev
	}
	ev := c.Predictor.PredictEnter(req)
	c.cache.Add(key, ev)
	return ev
}

// Len returns the number of cached predictions.
func (c *CachedPredictor) Len() int {
	return c.cache.Len()
}

// Purge drops every cached prediction.
func (c *CachedPredictor) Purge() {
	c.cache.Purge()
}

func keyOf(req EnterRequest) cacheKey {
	k := cacheKey{
		vessel:  req.Vessel,
		body:    req.Body.Orbit,
		name:    req.Body.Name,
		coi:     req.Body.COI,
		homeCOI: req.HomeCOI,
		hasHint: req.HasHint,
	}
	if req.HasHint {
		k.hint = req.Hint
	}
	// NaN never equals itself, which would make such keys unreachable.
	if math.IsNaN(k.hint) {
		k.hint = 0
	}
	return k
}

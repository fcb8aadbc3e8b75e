package volatilespace

import (
	"math"
	"sort"

	kitlog "github.com/go-kit/kit/log"
)

// Predictor searches one vessel period ahead for the first entry into a body's COI.
// A Predictor holds no mutable state and may be shared between goroutines.
type Predictor struct {
	cfg     PredictorConfig
	trace   Tracer
	metrics *Metrics
	logger  kitlog.Logger
}

// NewPredictor returns a Predictor with the provided configuration.
func NewPredictor(cfg PredictorConfig) Predictor {
	return Predictor{cfg: cfg, trace: NopTracer, logger: kitlog.NewNopLogger()}
}

// WithTracer returns a copy of this predictor reporting every iteration to t.
func (p Predictor) WithTracer(t Tracer) Predictor {
	if t == nil {
		t = NopTracer
	}
	p.trace = t
	return p
}

// WithMetrics returns a copy of this predictor recording outcomes in m.
func (p Predictor) WithMetrics(m *Metrics) Predictor {
	p.metrics = m
	return p
}

// WithLogger returns a copy of this predictor logging search outcomes.
func (p Predictor) WithLogger(logger kitlog.Logger) Predictor {
	p.logger = kitlog.With(logger, "subsys", "coi")
	return p
}

// Config returns the configuration of this predictor.
func (p Predictor) Config() PredictorConfig {
	return p.cfg
}

// PredictEnter returns the first entry of the vessel into the body's COI within one
// vessel period, or NoEvent. Hyperbolic vessel orbits are not supported and yield NoEvent.
func (p Predictor) PredictEnter(req EnterRequest) COIEvent {
	ev, outcome, iterations := p.predictEnter(req)
	p.metrics.observe(outcome, iterations)
	if outcome != OutcomeExact {
		p.logger.Log("level", "debug", "body", req.Body.Name, "outcome", outcome, "iterations", iterations)
	}
	ev.Body = req.Body.Name
	return ev
}

func (p Predictor) predictEnter(req EnterRequest) (COIEvent, string, int) {
	v, b, coi := req.Vessel, req.Body.Orbit, req.Body.COI
	if v.Hyperbolic() {
		return NoEvent(), OutcomeHyperbolic, 0
	}
	if v.Apoapsis() < b.Periapsis()-coi {
		return NoEvent(), OutcomeUnreachable, 0
	}
	s := newCOISearch(p.cfg, p.trace, v, b, coi)
	g0 := s.sample(0)
	if g0 <= 0 {
		// Already within the COI: the crossing is due now.
		return s.event(0, 0), OutcomeExact, 0
	}
	grid := s.grid(req.HomeCOI)
	if grid == nil {
		return NoEvent(), OutcomeUnreachable, 0
	}
	start := math.NaN()
	if req.HasHint {
		start = WrapTwoPi(v.Dir * (req.Hint - v.MA))
		grid = append(grid, start)
		sort.Float64s(grid)
	}
	br, ok := s.scan(grid, g0)
	if !ok {
		return NoEvent(), OutcomeNone, 0
	}
	u, resid, iterations := s.refine(br, start)
	if resid >= p.cfg.ApproxTol {
		return NoEvent(), OutcomeNone, iterations
	}
	ev := s.event(u, resid)
	if ev.Exact {
		return ev, OutcomeExact, iterations
	}
	return ev, OutcomeApproximate, iterations
}

// coiSearch holds the local state of one prediction. Anomalies along the vessel
// orbit are expressed as forward offsets u in [0, 2π] from the vessel's current
// mean anomaly, so that time to event is u/n.
type coiSearch struct {
	cfg       PredictorConfig
	trace     Tracer
	v, b      Orbit
	coi       float64
	opposed   bool
	bound     float64 // largest focal distance at which the body can be met
	arc       bool    // only offsets within bound are scanned
	bodySpeed float64 // body peak speed per unit of vessel mean anomaly
	evals     int
}

func newCOISearch(cfg PredictorConfig, trace Tracer, v, b Orbit, coi float64) *coiSearch {
	return &coiSearch{
		cfg:       cfg,
		trace:     trace,
		v:         v,
		b:         b,
		coi:       coi,
		opposed:   v.Dir != b.Dir,
		bodySpeed: peakSpeed(b) / v.N,
	}
}

// peakSpeed returns the orbital speed at periapsis.
func peakSpeed(o Orbit) float64 {
	return math.Sqrt(o.GM() * math.Max(2/o.Periapsis()-1/o.A, 0))
}

// candidate is a vessel orbit point at exactly COI distance from the body.
type candidate struct {
	offset   float64 // mean anomaly gap from the evaluated point, in orbit direction
	entering bool
}

// interval is a span of offsets with the clearance at both ends.
type interval struct {
	lo, hi   float64
	gLo, gHi float64
}

// grid returns the sorted initial scan offsets, from 0 to 2π, or nil when the
// reachable arc cannot be bounded.
func (s *coiSearch) grid(homeCOI float64) []float64 {
	n := s.cfg.Probes
	s.bound = s.b.Apoapsis() + s.coi
	if homeCOI > 0 && homeCOI < s.bound {
		s.bound = homeCOI
	}
	out := []float64{0, τ}
	if s.v.Apoapsis() <= s.bound {
		for k := 1; k < n; k++ {
			out = append(out, float64(k)*τ/float64(n))
		}
		sort.Float64s(out)
		return out
	}
	// Only the arc around periapsis within bound of the focus can meet the body.
	Es := EllipseCircle(s.v.A, s.v.B, s.v.F, 0, s.bound)
	if len(Es) < 2 {
		return nil
	}
	s.arc = true
	Ms := []float64{MeanAnomaly(s.v.Ecc, Es[0]), MeanAnomaly(s.v.Ecc, Es[1])}
	sort.Float64s(Ms)
	lo, hi := Ms[1], Ms[0]+τ
	for k := 0; k < n; k++ {
		M := lo + float64(k)*(hi-lo)/float64(n-1)
		out = append(out, WrapTwoPi(s.v.Dir*(M-s.v.MA)))
	}
	sort.Float64s(out)
	return out
}

// bodyAt returns the body position and velocity in the vessel-local frame after t.
func (s *coiSearch) bodyAt(t float64) (pos, vel []float64) {
	bt := s.b.Propagate(t)
	δ := s.b.Pea - s.v.Pea
	pos = Rotate(bt.focalPoint(bt.EA), δ)
	pos[0] += s.v.F
	vel = Rotate(bt.LocalVelocity(bt.EA), δ)
	return
}

// radiusAt returns the vessel focal distance at offset u.
func (s *coiSearch) radiusAt(u float64) float64 {
	return s.v.A * (1 - s.v.Ecc*math.Cos(s.v.AnomalyAt(s.v.MA+s.v.Dir*u)))
}

// clearance returns the vessel to body distance at offset u, less the COI radius.
func (s *coiSearch) clearance(u float64) float64 {
	bp, _ := s.bodyAt(u / s.v.N)
	return norm(sub(s.v.LocalPoint(s.v.AnomalyAt(s.v.MA+s.v.Dir*u)), bp)) - s.coi
}

// sample is clearance counted against the scan limit.
func (s *coiSearch) sample(u float64) float64 {
	g := s.clearance(u)
	s.trace(TraceStep{Phase: PhaseProbe, Iteration: s.evals, Offset: u, Clearance: g, Inside: g <= 0})
	s.evals++
	return g
}

// speedBound returns an upper bound of the rate of change of the vessel to body
// distance per unit of offset over [a, c].
func (s *coiSearch) speedBound(a, c float64) float64 {
	v := s.v
	r := v.Periapsis()
	if math.Floor((v.MA+v.Dir*a)/τ) == math.Floor((v.MA+v.Dir*c)/τ) {
		r = math.Min(s.radiusAt(a), s.radiusAt(c))
	}
	return v.A*math.Sqrt(math.Max(2*v.A/r-1, 0)) + s.bodySpeed
}

// outsideArc returns whether the grid interval [a, c] lies beyond the bound.
func (s *coiSearch) outsideArc(a, c float64) bool {
	return s.arc && s.radiusAt(0.5*(a+c)) > s.bound
}

// scan walks the grid in time order and returns the first interval whose start is
// outside the COI and whose end is inside. Intervals over which the distance cannot
// drop to the COI radius at the bounded relative speed are skipped, the others are
// halved until they can be decided. g0 is the clearance at grid[0].
func (s *coiSearch) scan(grid []float64, g0 float64) (interval, bool) {
	gPrev := g0
	for i := 1; i < len(grid); i++ {
		a, c := grid[i-1], grid[i]
		gc := s.sample(c)
		if s.outsideArc(a, c) {
			gPrev = gc
			continue
		}
		stack := []interval{{lo: a, hi: c, gLo: gPrev, gHi: gc}}
		for len(stack) > 0 {
			iv := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if iv.gHi <= 0 {
				return iv, true
			}
			w := iv.hi - iv.lo
			if iv.gLo+iv.gHi > s.speedBound(iv.lo, iv.hi)*w || w < s.cfg.ExactTol {
				continue
			}
			if s.evals >= s.cfg.ScanLimit {
				return interval{}, false
			}
			m := 0.5 * (iv.lo + iv.hi)
			gm := s.sample(m)
			stack = append(stack, interval{lo: m, hi: iv.hi, gLo: gm, gHi: iv.gHi}, interval{lo: iv.lo, hi: m, gLo: iv.gLo, gHi: gm})
		}
		gPrev = gc
	}
	return interval{}, false
}

// evaluate returns the COI boundary points around the body position at offset u,
// and whether the vessel at u is already inside the COI.
func (s *coiSearch) evaluate(u float64) (cands []candidate, inside bool) {
	v := s.v
	M := v.MA + v.Dir*u
	bp, bv := s.bodyAt(u / v.N)
	for _, E := range EllipseCircle(v.A, v.B, bp[0], bp[1], s.coi) {
		rel := sub(v.LocalPoint(E), bp)
		w := sub(v.LocalVelocity(E), bv)
		cands = append(cands, candidate{
			offset:   WrapPi(v.Dir * (MeanAnomaly(v.Ecc, E) - M)),
			entering: dot(w, rel) < 0,
		})
	}
	inside = norm(sub(v.LocalPoint(v.AnomalyAt(M)), bp)) < s.coi
	return
}

// pick returns the offset of the closest entering boundary point, or of the
// farthest one if far is set. Exits are only used when no entry exists.
func pick(cands []candidate, far bool) float64 {
	var pool []candidate
	for _, c := range cands {
		if c.entering {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		pool = cands
	}
	best := pool[0].offset
	for _, c := range pool[1:] {
		a, cur := math.Abs(c.offset), math.Abs(best)
		if (far && a > cur) || (!far && a < cur) {
			best = c.offset
		}
	}
	return best
}

// refine narrows br down to the entry. Each step moves by the correction towards
// the boundary around the body at the current offset; steps leaving the bracket
// are replaced by its midpoint, and the clearance at every new offset shrinks it.
// The search starts at start when it lies within br. It returns the best offset
// found and its residual.
func (s *coiSearch) refine(br interval, start float64) (u, resid float64, iterations int) {
	maxIter := s.cfg.Probes + s.cfg.ExtraIter
	if s.opposed {
		maxIter = s.cfg.Probes + s.cfg.ExtraIterOpposed
	}
	u = br.lo
	if br.lo < start && start < br.hi {
		u = start
	}
	best, resid := br.hi, br.hi-br.lo
	var (
		grow, stage          int
		uPrev, lastStep      float64
		histU, histH         float64
		hasHist, skip        bool
		farUsed, justGuarded bool
	)
	prevAbs := math.Inf(1)
	stage = 1
	for iterations = 0; iterations < maxIter; iterations++ {
		if w := br.hi - br.lo; w < resid {
			best, resid = br.hi, w
		}
		if resid < s.cfg.ExactTol {
			break
		}
		cands, inside := s.evaluate(u)
		var h, step float64
		phase, far := PhaseRefine, false
		if len(cands) == 0 {
			// The vessel orbit misses the COI here: halve the bracket.
			phase, stage, hasHist = PhaseLost, 1, false
			step = 0.5*(br.lo+br.hi) - u
		} else {
			far = !farUsed && inside && (justGuarded || lastStep < 0)
			farUsed = farUsed || far
			justGuarded = false
			h = pick(cands, far)
			if math.Abs(h) < resid {
				best, resid = u, math.Abs(h)
			}
			if resid < s.cfg.ExactTol {
				break
			}
			step = h
			switch {
			case s.opposed && stage == 1:
				uPrev, stage, phase = u, 2, PhaseStage1
			case s.opposed:
				// Secant between the previous offset and the boundary.
				if gap := u - uPrev; math.Abs(gap-h) > 1e-12 {
					step = gap * h / (gap - h)
				}
				stage, phase = 1, PhaseStage2
			case hasHist && math.Abs(h) > 0.5*math.Abs(histH) && math.Abs(h-histH) > 1e-12 && u != histU:
				if sec := -h * (u - histU) / (h - histH); math.Abs(sec) < s.cfg.SecantLimit {
					step = sec
				}
			}
			if !s.opposed {
				histU, histH, hasHist = u, h, true
			}
			if skip {
				skip = false
			} else {
				if math.Abs(step) >= prevAbs {
					grow++
				} else {
					grow = 0
				}
				if grow >= 2 {
					// Corrections keep growing: bisect instead.
					step = 0.5*(br.lo+br.hi) - u
					grow, skip, justGuarded, phase = 0, true, true, PhaseGuard
				}
			}
			prevAbs = math.Abs(step)
		}
		un := u + step
		bisected := !(br.lo < un && un < br.hi)
		if bisected {
			un = 0.5 * (br.lo + br.hi)
		}
		s.trace(TraceStep{Phase: phase, Iteration: iterations, Offset: u, Correction: h, Inside: inside, Far: far, Bisected: bisected})
		lastStep = un - u
		if s.clearance(un) > 0 {
			br.lo = un
		} else {
			br.hi = un
		}
		u = un
	}
	return best, resid, iterations
}

// event builds the crossing at offset u.
func (s *coiSearch) event(u, resid float64) COIEvent {
	t := u / s.v.N
	vt := s.v.AtMean(s.v.MA + s.v.Dir*u)
	bt := s.b.Propagate(t)
	return COIEvent{EA: vt.EA, MA: vt.MA, BodyEA: bt.EA, BodyMA: bt.MA, Time: t, Exact: resid < s.cfg.ExactTol}
}

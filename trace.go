package volatilespace

import (
	kitlog "github.com/go-kit/kit/log"
)

// Search phases reported to a Tracer.
const (
	PhaseProbe  = "probe"
	PhaseLost   = "lost"
	PhaseStage1 = "stage1"
	PhaseStage2 = "stage2"
	PhaseRefine = "refine"
	PhaseGuard  = "guard"
)

// TraceStep describes one iteration of the COI entry search.
type TraceStep struct {
	Phase      string
	Iteration  int
	Offset     float64 // mean anomaly offset ahead of the vessel
	Correction float64
	Clearance  float64 // vessel to body distance minus COI radius, scan only
	Inside     bool    // vessel already within the COI at Offset
	Far        bool    // farthest boundary was targeted
	Bisected   bool    // the step left the bracket and was replaced by its midpoint
}

// Tracer observes the COI entry search. It must be safe for concurrent use
// when the Predictor is shared.
type Tracer func(TraceStep)

// NopTracer ignores every step.
func NopTracer(TraceStep) {}

// LogTracer returns a Tracer which logs every step at debug level.
func LogTracer(logger kitlog.Logger) Tracer {
	logger = kitlog.With(logger, "level", "debug", "subsys", "coi")
	return func(s TraceStep) {
		logger.Log("phase", s.Phase, "it", s.Iteration, "offset", s.Offset, "correction", s.Correction,
			"clearance", s.Clearance, "inside", s.Inside, "far", s.Far, "bisected", s.Bisected)
	}
}

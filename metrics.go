package volatilespace

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of a COI entry prediction.
const (
	OutcomeExact       = "exact"
	OutcomeApproximate = "approximate"
	OutcomeNone        = "none"
	OutcomeUnreachable = "unreachable"
	OutcomeHyperbolic  = "hyperbolic"
	OutcomeCached      = "cached"
)

// Metrics records COI prediction outcomes. A nil *Metrics records nothing.
type Metrics struct {
	predictions *prometheus.CounterVec
	iterations  prometheus.Histogram
}

// NewMetrics creates the prediction metrics and registers them on reg, if not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "volatilespace",
			Name:      "coi_predictions_total",
			Help:      "COI entry predictions by outcome.",
		}, []string{"outcome"}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "volatilespace",
			Name:      "coi_search_iterations",
			Help:      "Iterations spent by COI entry searches.",
			Buckets:   prometheus.LinearBuckets(0, 4, 12),
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.predictions, m.iterations} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observe(outcome string, iterations int) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(outcome).Inc()
	if outcome != OutcomeCached {
		m.iterations.Observe(float64(iterations))
	}
}

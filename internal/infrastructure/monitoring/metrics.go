// Package monitoring provides the Prometheus/OpenTelemetry wiring spec.md
// §5 describes as optional: a PhaseObserver that turns the six solving
// phases into spans and gauges without the planner/solver packages ever
// importing otel or prometheus directly (SPEC_FULL.md §5).
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors the planner's solving pipeline
// feeds: solve duration per phase, achievement rate of the produced plan,
// and a counter of which fallback tier (classic/staged/greedy) served the
// request.
type Metrics struct {
	phaseDuration     *prometheus.HistogramVec
	solveOutcomeTotal *prometheus.CounterVec
	achievementRate   *prometheus.GaugeVec
}

// NewMetrics registers the planner's collectors against reg. Pass
// prometheus.NewRegistry() in tests to avoid the global default registry's
// duplicate-registration panics across repeated test runs.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		phaseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mealplanner_phase_duration_seconds",
				Help:    "Duration of each planner solving phase",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"phase"},
		),
		solveOutcomeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealplanner_solve_strategy_total",
				Help: "Count of plans produced per strategy tier (classic/staged/greedy)",
			},
			[]string{"strategy"},
		),
		achievementRate: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "mealplanner_nutrient_achievement_rate",
				Help: "Most recent overall achievement rate per nutrient",
			},
			[]string{"nutrient"},
		),
	}
}

// ObservePhase records one phase's duration, satisfying
// planner.PhaseObserver's signature via a thin adapter in container.go.
func (m *Metrics) ObservePhase(phase string, seconds float64) {
	m.phaseDuration.WithLabelValues(phase).Observe(seconds)
}

// RecordStrategy increments the outcome counter for the strategy tier that
// produced a plan.
func (m *Metrics) RecordStrategy(strategy string) {
	m.solveOutcomeTotal.WithLabelValues(strategy).Inc()
}

// RecordAchievement updates the achievement-rate gauge for one nutrient.
func (m *Metrics) RecordAchievement(nutrientID string, rate float64) {
	m.achievementRate.WithLabelValues(nutrientID).Set(rate)
}

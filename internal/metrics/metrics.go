// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "program_generations_total",
			Help: "Total number of program generation calls",
		},
		[]string{"goal", "outcome"}, // outcome: success, validation_failed, persistence_failed
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "program_generation_duration_seconds",
			Help:    "Duration of program generation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	LLMSelectionFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "program_llm_selection_fallbacks_total",
			Help: "Number of workouts where LLM selection failed and the deterministic selector took over",
		},
	)

	TemplateFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "program_template_fallbacks_total",
			Help: "Number of generations that used the default structure instead of a stored template",
		},
	)
)

// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TurnsProcessed counts every processed conversation turn, labelled by
	// the stage the session was in when the turn arrived.
	TurnsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helpline_turns_processed_total",
		Help: "Conversation turns processed, by conversation stage.",
	}, []string{"stage"})

	// RedFlagsDetected counts red-flag short-circuits by symptom category.
	RedFlagsDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helpline_red_flags_detected_total",
		Help: "Red flag symptoms detected, by category.",
	}, []string{"category"})

	// AssessorFallbacks counts times the external assessment delegate failed
	// and the safe default verdict was substituted.
	AssessorFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helpline_assessor_fallbacks_total",
		Help: "Assessments that fell back to the safe default verdict.",
	})
)

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var gateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "pulsemod_gate_duration_sec",
	Help: "Duration of individual gate checks",
}, []string{"layer"})

var gateDecisionCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pulsemod_gate_decisions",
	Help: "Number of gate decisions, by layer and outcome",
}, []string{"layer", "decision"})

var evaluateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "pulsemod_evaluate_duration_sec",
	Help: "Total duration of pipeline evaluations",
})

var evaluateCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pulsemod_evaluations",
	Help: "Number of pipeline evaluations, by outcome",
}, []string{"decision"})

var serviceErrorCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pulsemod_classifier_service_errors",
	Help: "Number of evaluations where the policy classifier was unavailable",
})

var warnFlagCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pulsemod_warn_flags_recorded",
	Help: "Number of warn-severity review flags persisted",
})

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	allocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staffing_allocations_total",
		Help: "Appointment allocation attempts by outcome.",
	}, []string{"outcome"})

	lifecycleTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staffing_lifecycle_transitions_total",
		Help: "Lifecycle record transitions by entity and transition.",
	}, []string{"entity", "transition"})
)

// ObserveAllocation records one allocation attempt. Outcome is "allocated"
// or the failure reason code.
func ObserveAllocation(outcome string) {
	allocationsTotal.WithLabelValues(outcome).Inc()
}

func ObserveLifecycleTransition(entity, transition string) {
	lifecycleTransitionsTotal.WithLabelValues(entity, transition).Inc()
}

// Package metrics holds the Prometheus collectors of the fulfillment service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClaimsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_claims_total",
		Help: "Claim attempts by outcome (claimed, conflict, not_found).",
	},
		[]string{"outcome"},
	)

	ReversalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_reversals_total",
		Help: "Reversals by whether a remote shipment had to be cancelled.",
	},
		[]string{"cancelled_remote"},
	)

	LabelsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_labels_total",
		Help: "Label requests by path (cached, direct, clone) and outcome.",
	},
		[]string{"path", "outcome"},
	)

	SagaStepAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_saga_step_attempts_total",
		Help: "Failed clone saga step attempts that were retried.",
	},
		[]string{"step"},
	)

	SagaStepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fulfillment_saga_step_duration_seconds",
		Help:    "Wall time of clone saga steps including retries.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	},
		[]string{"step"},
	)

	ManifestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_manifests_total",
		Help: "Mark-ready manifest creations by outcome.",
	},
		[]string{"outcome"},
	)

	SweptClaimsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_swept_claims_total",
		Help: "Stale claims released by the auto-reversal sweeper.",
	})

	AlertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_alerts_total",
		Help: "Vendor alerts emitted by category.",
	},
		[]string{"category"},
	)
)

package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "canteen",
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Total number of orders placed, by payment status",
		},
		[]string{"payment_status"},
	)

	ordersRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "canteen",
			Subsystem: "orders",
			Name:      "rejected_total",
			Help:      "Total number of rejected checkout attempts, by error kind",
		},
		[]string{"kind"},
	)

	statusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "canteen",
			Subsystem: "orders",
			Name:      "status_transitions_total",
			Help:      "Total number of committed status transitions, by new status",
		},
		[]string{"status"},
	)

	// tokenExhaustions firing at all means the active-token space is
	// saturated; alert on any increase.
	tokenExhaustions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "canteen",
			Subsystem: "orders",
			Name:      "token_exhaustions_total",
			Help:      "Total number of checkouts that exhausted token generation attempts",
		},
	)

	paymentVerificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "canteen",
			Subsystem: "payment",
			Name:      "verification_failures_total",
			Help:      "Total number of payment callbacks with an invalid signature",
		},
	)
)

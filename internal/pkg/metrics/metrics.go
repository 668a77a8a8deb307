// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups every collector. Create it with New against the registry
// that /metrics exposes; tests pass a fresh prometheus.NewRegistry().
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OrdersSubmittedTotal      prometheus.Counter
	NotificationsPublished    *prometheus.CounterVec
	CandidatesReturnedTotal   prometheus.Counter
	StaleMessagesDeletedTotal prometheus.Counter
	ClaimsTotal               *prometheus.CounterVec
	StatusUpdatesTotal        *prometheus.CounterVec
	BestEffortFailuresTotal   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bytebite_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bytebite_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		OrdersSubmittedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bytebite_orders_submitted_total",
				Help: "Total number of orders persisted with their delivery",
			},
		),
		NotificationsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bytebite_dispatch_notifications_total",
				Help: "Dispatch notifications sent to area queues, by source and result",
			},
			[]string{"source", "result"},
		),
		CandidatesReturnedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bytebite_poll_candidates_total",
				Help: "Total number of pending deliveries handed to polling drivers",
			},
		),
		StaleMessagesDeletedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bytebite_stale_queue_messages_deleted_total",
				Help: "Queue messages dropped because their delivery is gone or no longer pending",
			},
		),
		ClaimsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bytebite_delivery_claims_total",
				Help: "Claim attempts by result",
			},
			[]string{"result"},
		),
		StatusUpdatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bytebite_delivery_status_updates_total",
				Help: "Driver status reports by target status and result",
			},
			[]string{"status", "result"},
		),
		BestEffortFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bytebite_best_effort_failures_total",
				Help: "Failed best-effort side effects (order mirror, lease delete, notify stamp)",
			},
			[]string{"step"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OrdersSubmittedTotal,
		m.NotificationsPublished,
		m.CandidatesReturnedTotal,
		m.StaleMessagesDeletedTotal,
		m.ClaimsTotal,
		m.StatusUpdatesTotal,
		m.BestEffortFailuresTotal,
	)
	return m
}

// NewNop returns collectors registered nowhere.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicksTotal tracks lifecycle ticks per service
	TicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_lifecycle_ticks_total",
			Help: "Total number of lifecycle ticks executed",
		},
		[]string{"service"},
	)

	// TickFailures tracks ticks that ended with an error
	TickFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_lifecycle_tick_failures_total",
			Help: "Total number of lifecycle ticks that failed",
		},
		[]string{"service"},
	)

	// TickPanics tracks ticks that panicked and were recovered
	TickPanics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_lifecycle_tick_panics_total",
			Help: "Total number of recovered panics in lifecycle ticks",
		},
		[]string{"service"},
	)

	// TickDuration tracks tick duration per service
	TickDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clinic_lifecycle_tick_duration_seconds",
			Help:    "Lifecycle tick duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	// Transitions tracks entity state transitions applied by the engine
	Transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_lifecycle_transitions_total",
			Help: "Total number of entity state transitions applied",
		},
		[]string{"entity", "transition"},
	)

	// TransitionFailures tracks transitions whose persist attempt failed
	TransitionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_lifecycle_transition_failures_total",
			Help: "Total number of entity transitions that failed to persist",
		},
		[]string{"entity"},
	)

	// NotificationsSent tracks notifications dispatched successfully
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_lifecycle_notifications_sent_total",
			Help: "Total number of notifications dispatched",
		},
		[]string{"category"},
	)

	// NotificationFailures tracks suppressed notification dispatch failures
	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_lifecycle_notification_failures_total",
			Help: "Total number of suppressed notification dispatch failures",
		},
		[]string{"category"},
	)

	// EmailsSent tracks reminder emails sent
	EmailsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clinic_lifecycle_emails_sent_total",
			Help: "Total number of reminder emails sent",
		},
	)

	// EmailFailures tracks reminder emails that failed to send
	EmailFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clinic_lifecycle_email_failures_total",
			Help: "Total number of reminder emails that failed to send",
		},
	)

	// RateLimitExceeded tracks API rate limit violations
	RateLimitExceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_lifecycle_rate_limit_exceeded_total",
			Help: "Total number of rate limit exceeded events",
		},
		[]string{"client"},
	)
)

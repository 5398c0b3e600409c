package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "campus_events"

// Registry is the Prometheus registry for all server metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// EventsCreated counts event submissions by category.
var EventsCreated = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_created_total",
		Help:      "Total number of events created",
	},
	[]string{"category"},
)

// StatusTransitions counts admin status changes by resulting status.
var StatusTransitions = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_status_transitions_total",
		Help:      "Total number of event status transitions",
	},
	[]string{"status"},
)

// Registrations counts successful event registrations.
var Registrations = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successful event registrations",
	},
)

// CheckIns counts attendance confirmations by method (qr or manual).
var CheckIns = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_checkins_total",
		Help:      "Total number of confirmed attendance check-ins",
	},
	[]string{"method"},
)

// CheckInFailures counts rejected QR check-in attempts by reason.
var CheckInFailures = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_checkin_failures_total",
		Help:      "Total number of rejected QR check-in attempts",
	},
	[]string{"reason"},
)

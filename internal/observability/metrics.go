package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce                  sync.Once
	adminRequestsTotal            *prometheus.CounterVec
	adminLatencySeconds           *prometheus.HistogramVec
	adminErrorsTotal              *prometheus.CounterVec
	notificationsDispatchedTotal  *prometheus.CounterVec
	notificationDispatchFailures  *prometheus.CounterVec
	auditAppendFailuresTotal      prometheus.Counter
	notificationStreamClientsOpen prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		notificationsDispatchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Total number of notification records created, by type.",
		}, []string{"type"})

		notificationDispatchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_dispatch_failures_total",
			Help: "Total number of swallowed notification dispatch failures, by type.",
		}, []string{"type"})

		auditAppendFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audit_append_failures_total",
			Help: "Total number of failed audit log appends.",
		})

		notificationStreamClientsOpen = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notification_stream_clients_open",
			Help: "Number of currently open notification stream subscriptions.",
		})

		prometheus.MustRegister(
			adminRequestsTotal,
			adminLatencySeconds,
			adminErrorsTotal,
			notificationsDispatchedTotal,
			notificationDispatchFailures,
			auditAppendFailuresTotal,
			notificationStreamClientsOpen,
		)
	})
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// NotificationsDispatched exposes the counter for created notifications.
func NotificationsDispatched() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsDispatchedTotal
}

// NotificationFailures exposes the counter for swallowed dispatch failures.
func NotificationFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationDispatchFailures
}

// AuditAppendFailures exposes the counter for failed audit appends.
func AuditAppendFailures() prometheus.Counter {
	RegisterMetrics()
	return auditAppendFailuresTotal
}

// StreamClients exposes the gauge for open notification streams.
func StreamClients() prometheus.Gauge {
	RegisterMetrics()
	return notificationStreamClientsOpen
}

package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes prometheus collectors for the HTTP surface and the
// ticket domain.
type Metrics struct {
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec
	ticketEvents    *prometheus.CounterVec
	notifyFailures  prometheus.Counter
}

// NewMetrics registers the collectors on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "helpdesk_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "helpdesk_http_request_duration_seconds",
				Help: "Duration of HTTP requests",
			},
			[]string{"path", "method"},
		),
		errorCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "helpdesk_http_errors_total",
				Help: "Total number of failed HTTP requests by error code",
			},
			[]string{"path", "method", "code"},
		),
		ticketEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "helpdesk_ticket_events_total",
				Help: "Total number of ticket domain events",
			},
			[]string{"type"},
		),
		notifyFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "helpdesk_notification_failures_total",
				Help: "Total number of notifications that could not be sent",
			},
		),
	}
}

// RecordRequest counts one handled request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError counts one failed request by domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

// RecordTicketEvent counts one domain event.
func (m *Metrics) RecordTicketEvent(eventType string) {
	if m == nil {
		return
	}
	m.ticketEvents.WithLabelValues(eventType).Inc()
}

// RecordNotificationFailure counts one undeliverable notification.
func (m *Metrics) RecordNotificationFailure() {
	if m == nil {
		return
	}
	m.notifyFailures.Inc()
}

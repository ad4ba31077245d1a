package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordNotificationFailure()
	m.RecordNotificationFailure()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.notifyFailures))

	m.RecordTicketEvent("ticket.created")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticketEvents.WithLabelValues("ticket.created")))

	m.RecordRequest("/tickets", "GET", 200, 10*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("/tickets", "GET", "200")))

	m.RecordError("/tickets", "GET", "NOT_FOUND")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorCount.WithLabelValues("/tickets", "GET", "NOT_FOUND")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "NOT_FOUND")
	m.RecordTicketEvent("ticket.created")
	m.RecordNotificationFailure()
}

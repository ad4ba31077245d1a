package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
)

// EventMonitor subscribes to domain events and turns them into logs and
// metrics. It never blocks or fails a mutation.
type EventMonitor struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewEventMonitor creates the monitor.
func NewEventMonitor(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *EventMonitor {
	return &EventMonitor{dispatcher: dispatcher, logger: logger, metrics: metrics}
}

// RegisterHandlers subscribes to all ticket events.
func (m *EventMonitor) RegisterHandlers() {
	if m.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketUpdated,
		events.EventTicketStatusChanged,
		events.EventTicketDeleted,
		events.EventTicketReplyAdded,
		events.EventTicketImageAdded,
	} {
		m.dispatcher.Subscribe(eventType, m.handle)
	}
}

func (m *EventMonitor) handle(ctx context.Context, event events.Event) error {
	m.logger.Info("ticket event",
		zap.String("type", string(event.Type)),
		zap.Int64("ticket_id", event.TicketID),
		zap.Int64("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	if m.metrics != nil {
		m.metrics.RecordTicketEvent(string(event.Type))
	}
	return nil
}

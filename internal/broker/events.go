package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"prediction-dashboard/internal/models"
	"prediction-dashboard/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// eventWriter is the part of Producer the publisher needs
type eventWriter interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
}

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer eventWriter
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishDashboardChanged publishes a DashboardChanged event keyed by entity
func (ep *EventPublisher) PublishDashboardChanged(ctx context.Context, event *models.DashboardChangedEvent) error {
	key := fmt.Sprintf("%s-%s", event.Entity, event.EntityID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onDashboardChanged func(context.Context, *models.DashboardChangedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnDashboardChanged registers a handler for DashboardChanged events
func (eh *EventHandler) OnDashboardChanged(handler func(context.Context, *models.DashboardChangedEvent) error) {
	eh.onDashboardChanged = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	logger := util.GetLogger()
	logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeDashboardChanged:
		if eh.onDashboardChanged != nil {
			var event models.DashboardChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal DashboardChanged event: %w", err)
			}
			return eh.onDashboardChanged(ctx, &event)
		}

	default:
		logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}

package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inventory-service/internal/models"
	"inventory-service/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

// PublishPurchaseCompleted publishes the audit event for one committed
// purchase transaction
func (ep *EventPublisher) PublishPurchaseCompleted(ctx context.Context, buyer string, productID int64, result *models.PurchaseResult) error {
	event := &models.PurchaseCompletedEvent{
		BaseEvent: newBaseEvent(models.EventTypePurchaseCompleted),
		Buyer:     buyer,
		ProductID: productID,
		Units:     result.UnitsBought,
		UnitPrice: result.UnitPrice.String(),
		OrderID:   result.OrderID,
		OrderDate: result.OrderDate,
	}
	key := fmt.Sprintf("product-%d", productID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishProductDepleted publishes the removal of a sold-out product
func (ep *EventPublisher) PublishProductDepleted(ctx context.Context, productID int64, name string) error {
	event := &models.ProductDepletedEvent{
		BaseEvent: newBaseEvent(models.EventTypeProductDepleted),
		ProductID: productID,
		Name:      name,
	}
	key := fmt.Sprintf("product-%d", productID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrdersSwept publishes the outcome of a nonzero expiry sweep
func (ep *EventPublisher) PublishOrdersSwept(ctx context.Context, date string, removed int64) error {
	event := &models.OrdersSweptEvent{
		BaseEvent: newBaseEvent(models.EventTypeOrdersSwept),
		Date:      date,
		Removed:   removed,
	}
	key := fmt.Sprintf("sweep-%s", date)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes consumed events to registered callbacks
type EventHandler struct {
	onPurchaseCompleted func(context.Context, *models.PurchaseCompletedEvent) error
	onProductDepleted   func(context.Context, *models.ProductDepletedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnPurchaseCompleted registers a handler for PurchaseCompleted events
func (eh *EventHandler) OnPurchaseCompleted(handler func(context.Context, *models.PurchaseCompletedEvent) error) {
	eh.onPurchaseCompleted = handler
}

// OnProductDepleted registers a handler for ProductDepleted events
func (eh *EventHandler) OnProductDepleted(handler func(context.Context, *models.ProductDepletedEvent) error) {
	eh.onProductDepleted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	logger := util.GetLogger()

	switch baseEvent.EventType {
	case models.EventTypePurchaseCompleted:
		if eh.onPurchaseCompleted != nil {
			var event models.PurchaseCompletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal PurchaseCompleted event: %w", err)
			}
			return eh.onPurchaseCompleted(ctx, &event)
		}

	case models.EventTypeProductDepleted:
		if eh.onProductDepleted != nil {
			var event models.ProductDepletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ProductDepleted event: %w", err)
			}
			return eh.onProductDepleted(ctx, &event)
		}

	default:
		logger.Debug("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}

package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rental-listing-client/internal/contextkeys"
	"rental-listing-client/internal/core/domain"
	"rental-listing-client/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// MessagePublisher - то, что адаптеру нужно от rabbitmq_producer.Publisher.
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// MutationEventsAdapter публикует события об изменениях каталога, чтобы другие
// клиенты могли обновить свои списки.
type MutationEventsAdapter struct {
	producer   MessagePublisher
	routingKey string
	source     string
}

func NewMutationEventsAdapter(producer MessagePublisher, routingKey, source string) (*MutationEventsAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routing key is required")
	}
	return &MutationEventsAdapter{producer: producer, routingKey: routingKey, source: source}, nil
}

func (a *MutationEventsAdapter) PublishMutation(ctx context.Context, event domain.MutationEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "MutationEventsAdapter",
		"routing_key": a.routingKey,
		"kind":        string(event.Kind),
		"property_id": event.PropertyID,
	})

	body, err := json.Marshal(event)
	if err != nil {
		adapterLogger.Error("Failed to marshal mutation event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to marshal mutation event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Type:         "property." + string(event.Kind),
		AppId:        a.source,
		Headers:      make(amqp.Table),
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish mutation event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish mutation event: %w", err)
	}

	adapterLogger.Debug("Mutation event published", nil)
	return nil
}

// NoopMutationEvents используется, когда RabbitMQ выключен.
type NoopMutationEvents struct{}

func (NoopMutationEvents) PublishMutation(ctx context.Context, event domain.MutationEvent) error {
	contextkeys.LoggerFromContext(ctx).Debug("Mutation events disabled, skipping publish", port.Fields{"kind": string(event.Kind)})
	return nil
}

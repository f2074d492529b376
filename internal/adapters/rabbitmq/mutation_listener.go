package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"rental-listing-client/internal/contextkeys"
	"rental-listing-client/internal/core/domain"
	"rental-listing-client/internal/core/port"
	"rental-listing-client/pkg/rabbitmq/rabbitmq_common"
	"rental-listing-client/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// SessionRefresher - реестр сессий, которые нужно обновить после чужой записи.
type SessionRefresher interface {
	RefreshAffected(ctx context.Context, event domain.MutationEvent) int
}

// MutationListenerAdapter слушает события об изменениях каталога и обновляет
// открытые списки, которые эти изменения затрагивают.
type MutationListenerAdapter struct {
	consumer  *rabbitmq_consumer.Consumer
	refresher SessionRefresher
	logger    port.LoggerPort
}

func NewMutationListenerAdapter(
	cfg rabbitmq_consumer.ConsumerConfig,
	refresher SessionRefresher,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*MutationListenerAdapter, error) {
	if refresher == nil {
		return nil, fmt.Errorf("rabbitmq adapter: session refresher cannot be nil")
	}
	adapter := &MutationListenerAdapter{refresher: refresher, logger: logger.WithFields(port.Fields{"component": "MutationListenerAdapter"})}

	cfg.Logger = NewLoggerBridge(logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "consumer_tag": cfg.ConsumerTag}))
	consumer, err := rabbitmq_consumer.NewConsumer(cfg, adapter.handleMessage, connManager)
	if err != nil {
		return nil, err
	}
	adapter.consumer = consumer
	return adapter, nil
}

func (a *MutationListenerAdapter) handleMessage(ctx context.Context, d amqp.Delivery) error {
	traceID, ok := d.Headers["x-trace-id"].(string)
	if !ok || traceID == "" {
		traceID = uuid.NewString()
	}
	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"delivery_tag": d.DeliveryTag,
	})

	var event domain.MutationEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		msgLogger.Error("Failed to unmarshal mutation event, dropping message.", err, nil)
		return nil
	}
	if event.Kind == "" {
		msgLogger.Warn("Mutation event without kind, dropping message.", nil)
		return nil
	}

	handlerLogger := msgLogger.WithFields(port.Fields{
		"kind":        string(event.Kind),
		"property_id": event.PropertyID,
		"source":      d.AppId,
	})
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)
	ctx = contextkeys.ContextWithLogger(ctx, handlerLogger)

	refreshed := a.refresher.RefreshAffected(ctx, event)
	handlerLogger.Debug("Mutation event applied to open sessions", port.Fields{"refreshed": refreshed})
	return nil
}

// Start блокируется до отмены ctx.
func (a *MutationListenerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

func (a *MutationListenerAdapter) Close() error { return a.consumer.Close() }

package rabbitmq_consumer

import (
	"context"
	"fmt"
	"sync"

	"rental-listing-client/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler обрабатывает одно сообщение. Ошибка приводит к Nack без повторной доставки.
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

// ConsumerConfig - очередь, ее привязка к обменнику и QoS.
type ConsumerConfig struct {
	// Пустое имя - очередь с именем от брокера (по одной на экземпляр)
	QueueName       string
	DurableQueue    bool
	ExclusiveQueue  bool
	AutoDeleteQueue bool
	QueueArgs       amqp.Table

	ExchangeName    string
	ExchangeType    string
	DeclareExchange bool
	DurableExchange bool
	RoutingKey      string

	PrefetchCount int
	ConsumerTag   string

	Logger rabbitmq_common.Logger
}

func (c ConsumerConfig) Validate() error {
	if c.ExchangeName == "" {
		return fmt.Errorf("consumer: exchange name is required")
	}
	if c.DeclareExchange && c.ExchangeType == "" {
		return fmt.Errorf("consumer: exchange type is required when DeclareExchange is true")
	}
	if c.QueueName == "" && c.DurableQueue {
		return fmt.Errorf("consumer: a durable queue needs an explicit name")
	}
	if c.PrefetchCount < 0 {
		return fmt.Errorf("consumer: prefetch count cannot be negative, got %d", c.PrefetchCount)
	}
	return nil
}

// Consumer читает очередь и раздает сообщения обработчику, каждое в своей горутине.
type Consumer struct {
	config    ConsumerConfig
	handler   MessageHandler
	queueName string

	connection *amqp.Connection
	channel    *amqp.Channel
	wg         sync.WaitGroup

	Logger rabbitmq_common.Logger
}

func NewConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*Consumer, error) {
	if connManager == nil {
		return nil, fmt.Errorf("consumer: connection manager cannot be nil")
	}
	if handler == nil {
		return nil, fmt.Errorf("consumer: message handler is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("consumer: failed to get channel from manager: %w", err)
	}

	c := &Consumer{
		config:     cfg,
		handler:    handler,
		connection: conn,
		channel:    ch,
		Logger:     logger,
	}
	if err := c.setup(); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consumer: setup failed: %w", err)
	}
	return c, nil
}

// setup объявляет обменник и очередь и связывает их.
func (c *Consumer) setup() error {
	if c.config.PrefetchCount > 0 {
		if err := c.channel.Qos(c.config.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	if c.config.DeclareExchange {
		c.Logger.Debug("Declaring exchange", "name", c.config.ExchangeName, "type", c.config.ExchangeType)
		err := c.channel.ExchangeDeclare(
			c.config.ExchangeName,
			c.config.ExchangeType,
			c.config.DurableExchange,
			false, // auto-deleted
			false, // internal
			false, // no-wait
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to declare exchange '%s': %w", c.config.ExchangeName, err)
		}
	}

	q, err := c.channel.QueueDeclare(
		c.config.QueueName,
		c.config.DurableQueue,
		c.config.AutoDeleteQueue,
		c.config.ExclusiveQueue,
		false, // no-wait
		c.config.QueueArgs,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", c.config.QueueName, err)
	}
	c.queueName = q.Name

	c.Logger.Debug("Binding queue to exchange",
		"queue_name", c.queueName,
		"exchange_name", c.config.ExchangeName,
		"routing_key", c.config.RoutingKey,
	)
	if err := c.channel.QueueBind(c.queueName, c.config.RoutingKey, c.config.ExchangeName, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue '%s' to exchange '%s': %w", c.queueName, c.config.ExchangeName, err)
	}
	return nil
}

// StartConsuming блокируется, пока не отменен ctx или не закрыто соединение.
func (c *Consumer) StartConsuming(ctx context.Context) error {
	if c.channel == nil || c.connection == nil || c.connection.IsClosed() {
		return fmt.Errorf("consumer: not connected")
	}

	msgs, err := c.channel.Consume(
		c.queueName,
		c.config.ConsumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consumer: failed to register on queue '%s': %w", c.queueName, err)
	}
	c.Logger.Info("[*] Waiting for messages on queue", "queue_name", c.queueName)

	c.dispatch(ctx, msgs)

	notifyClose := c.connection.NotifyClose(make(chan *amqp.Error, 1))
	select {
	case <-ctx.Done():
		c.Logger.Info("Context cancelled. Shutting down consumer.", "queue_name", c.queueName)
		return nil
	case amqpErr, ok := <-notifyClose:
		if !ok || amqpErr == nil {
			return nil
		}
		c.Logger.Error(amqpErr, "Connection closed for consumer", "queue_name", c.queueName)
		return amqpErr
	}
}

// dispatch запускает цикл раздачи сообщений. Цикл учитывается в wg до старта
// горутины, поэтому Close не вернется раньше, чем цикл завершится.
func (c *Consumer) dispatch(ctx context.Context, msgs <-chan amqp.Delivery) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					c.Logger.Info("Deliveries channel closed by RabbitMQ. Exiting loop.", "queue_name", c.queueName)
					return
				}
				c.wg.Add(1)
				go func(delivery amqp.Delivery) {
					defer c.wg.Done()
					c.process(ctx, delivery)
				}(d)
			}
		}
	}()
}

func (c *Consumer) process(ctx context.Context, delivery amqp.Delivery) {
	if err := c.handler(ctx, delivery); err != nil {
		c.Logger.Error(err, "Handler error for message", "delivery_tag", delivery.DeliveryTag)
		_ = delivery.Nack(false, false)
		return
	}
	_ = delivery.Ack(false)
	c.Logger.Debug("[+] Message Ack'd", "delivery_tag", delivery.DeliveryTag)
}

// Close дожидается обработчиков и закрывает канал. Соединение принадлежит ConnectionManager.
func (c *Consumer) Close() error {
	c.wg.Wait()
	if c.channel == nil {
		return nil
	}
	err := c.channel.Close()
	c.channel = nil
	c.Logger.Info("Consumer closed")
	return err
}

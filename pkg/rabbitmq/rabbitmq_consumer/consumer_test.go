package rabbitmq_consumer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"rental-listing-client/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ConsumerConfig
		wantErr string
	}{
		{"server-named queue", ConsumerConfig{ExchangeName: "listing_exchange", ExclusiveQueue: true, AutoDeleteQueue: true}, ""},
		{"declared topic exchange", ConsumerConfig{ExchangeName: "listing_exchange", ExchangeType: "topic", DeclareExchange: true}, ""},
		{"no exchange", ConsumerConfig{}, "exchange name is required"},
		{"declare without type", ConsumerConfig{ExchangeName: "x", DeclareExchange: true}, "exchange type is required"},
		{"durable without name", ConsumerConfig{ExchangeName: "x", DurableQueue: true}, "explicit name"},
		{"negative prefetch", ConsumerConfig{ExchangeName: "x", PrefetchCount: -1}, "prefetch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewConsumer_RequiresDependencies(t *testing.T) {
	handler := func(context.Context, amqp.Delivery) error { return nil }

	_, err := NewConsumer(ConsumerConfig{ExchangeName: "x"}, handler, nil)
	assert.ErrorContains(t, err, "connection manager")
}

type recordingAcknowledger struct {
	mu     sync.Mutex
	acked  []uint64
	nacked []uint64
}

func (a *recordingAcknowledger) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *recordingAcknowledger) Nack(tag uint64, _ bool, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked = append(a.nacked, tag)
	return nil
}

func (a *recordingAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestClose_WaitsForDispatchLoop(t *testing.T) {
	var handled atomic.Int32
	handler := func(_ context.Context, d amqp.Delivery) error {
		time.Sleep(10 * time.Millisecond)
		handled.Add(1)
		if d.DeliveryTag == 3 {
			return errors.New("malformed event")
		}
		return nil
	}
	c := &Consumer{handler: handler, Logger: rabbitmq_common.NewNoopLogger()}

	ack := &recordingAcknowledger{}
	msgs := make(chan amqp.Delivery, 3)
	for tag := uint64(1); tag <= 3; tag++ {
		msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: tag}
	}
	close(msgs)

	c.dispatch(context.Background(), msgs)
	require.NoError(t, c.Close())

	assert.Equal(t, int32(3), handled.Load())
	assert.ElementsMatch(t, []uint64{1, 2}, ack.acked)
	assert.Equal(t, []uint64{3}, ack.nacked)
}

func TestDispatch_StopsOnContextCancel(t *testing.T) {
	c := &Consumer{
		handler: func(context.Context, amqp.Delivery) error { return nil },
		Logger:  rabbitmq_common.NewNoopLogger(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	msgs := make(chan amqp.Delivery)

	c.dispatch(ctx, msgs)
	cancel()

	done := make(chan struct{})
	go func() {
		_ = c.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not return after context cancel")
	}
}

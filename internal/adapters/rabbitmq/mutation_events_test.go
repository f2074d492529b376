package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"rental-listing-client/internal/contextkeys"
	"rental-listing-client/internal/core/domain"
	"rental-listing-client/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ port.MutationEventsPort = (*MutationEventsAdapter)(nil)
	_ port.MutationEventsPort = NoopMutationEvents{}
)

type fakePublisher struct {
	routingKey  string
	msg         amqp.Publishing
	hasDeadline bool
	err         error
}

func (f *fakePublisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	f.routingKey = routingKey
	f.msg = msg
	_, f.hasDeadline = ctx.Deadline()
	return f.err
}

func TestPublishMutation(t *testing.T) {
	pub := &fakePublisher{}
	adapter, err := NewMutationEventsAdapter(pub, "property.mutated", "rental-listing-client")
	require.NoError(t, err)

	availability := 0
	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-42")
	err = adapter.PublishMutation(ctx, domain.MutationEvent{
		Kind:         domain.MutationSetAvailability,
		PropertyID:   5,
		LandlordID:   2,
		Availability: &availability,
	})
	require.NoError(t, err)

	assert.Equal(t, "property.mutated", pub.routingKey)
	assert.True(t, pub.hasDeadline)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, "property.set_availability", pub.msg.Type)
	assert.Equal(t, "trace-42", pub.msg.Headers["x-trace-id"])

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(pub.msg.Body, &body))
	assert.Equal(t, "set_availability", body["kind"])
	assert.Equal(t, 5.0, body["property_id"])
	assert.Equal(t, 0.0, body["availability"])
}

func TestPublishMutation_Error(t *testing.T) {
	adapter, err := NewMutationEventsAdapter(&fakePublisher{err: errors.New("channel closed")}, "property.mutated", "")
	require.NoError(t, err)

	err = adapter.PublishMutation(context.Background(), domain.MutationEvent{Kind: domain.MutationDelete, PropertyID: 1})
	assert.ErrorContains(t, err, "channel closed")
}

func TestNewMutationEventsAdapter_Validation(t *testing.T) {
	_, err := NewMutationEventsAdapter(nil, "key", "")
	assert.Error(t, err)
	_, err = NewMutationEventsAdapter(&fakePublisher{}, "", "")
	assert.Error(t, err)
}

func TestToFields(t *testing.T) {
	assert.Nil(t, toFields(nil))
	assert.Equal(t, port.Fields{"name": "listing", "type": "topic"}, toFields([]interface{}{"name", "listing", "type", "topic"}))
	assert.Equal(t, port.Fields{"dangling": "(missing)"}, toFields([]interface{}{"dangling"}))
}

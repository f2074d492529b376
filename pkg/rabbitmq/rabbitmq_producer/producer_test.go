package rabbitmq_producer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublisherConfigValidate(t *testing.T) {
	assert.NoError(t, PublisherConfig{}.Validate())
	assert.NoError(t, PublisherConfig{ExchangeName: "listing.events", ExchangeType: "topic", DeclareExchangeIfMissing: true}.Validate())

	assert.Error(t, PublisherConfig{ExchangeType: "topic", DeclareExchangeIfMissing: true}.Validate())
	assert.Error(t, PublisherConfig{ExchangeName: "listing.events", DeclareExchangeIfMissing: true}.Validate())
}

func TestNewPublisher_RequiresManager(t *testing.T) {
	_, err := NewPublisher(PublisherConfig{}, nil)
	assert.Error(t, err)
}

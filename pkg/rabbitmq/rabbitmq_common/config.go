package rabbitmq_common

import (
	"fmt"
	"net/url"
	"time"
)

const DefaultReconnectInterval = 10 * time.Second

// Config - общие параметры подключения.
type Config struct {
	URL string
	// ReconnectInterval - как часто проверять, живо ли соединение.
	ReconnectInterval time.Duration
}

func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("rabbitmq: URL is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq: invalid URL: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return fmt.Errorf("rabbitmq: unsupported URL scheme %q", u.Scheme)
	}
	if c.ReconnectInterval < 0 {
		return fmt.Errorf("rabbitmq: reconnect interval cannot be negative")
	}
	return nil
}

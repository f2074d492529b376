package rabbitmq

import (
	"fmt"

	"rental-listing-client/internal/core/port"
	"rental-listing-client/pkg/rabbitmq/rabbitmq_common"
)

// loggerBridge направляет логи пакета rabbitmq в логгер приложения.
type loggerBridge struct {
	logger port.LoggerPort
}

func NewLoggerBridge(logger port.LoggerPort) rabbitmq_common.Logger {
	return &loggerBridge{logger: logger.WithFields(port.Fields{"component": "rabbitmq"})}
}

func toFields(keysAndValues []interface{}) port.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}
	fields := make(port.Fields, len(keysAndValues)/2+1)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 < len(keysAndValues) {
			fields[key] = keysAndValues[i+1]
		} else {
			fields[key] = "(missing)"
		}
	}
	return fields
}

func (b *loggerBridge) Debug(msg string, keysAndValues ...interface{}) {
	b.logger.Debug(msg, toFields(keysAndValues))
}

func (b *loggerBridge) Info(msg string, keysAndValues ...interface{}) {
	b.logger.Info(msg, toFields(keysAndValues))
}

func (b *loggerBridge) Warn(msg string, keysAndValues ...interface{}) {
	b.logger.Warn(msg, toFields(keysAndValues))
}

func (b *loggerBridge) Error(err error, msg string, keysAndValues ...interface{}) {
	b.logger.Error(msg, err, toFields(keysAndValues))
}

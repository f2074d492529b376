package logger_adapter

import (
	"fmt"
	"rental-listing-client/internal/core/port"
)

// MultiLoggerAdapter пишет каждую запись во все вложенные логгеры.
type MultiLoggerAdapter struct {
	loggers []port.LoggerPort
}

func NewMultiloggerAdapter(loggers ...port.LoggerPort) (port.LoggerPort, error) {
	active := make([]port.LoggerPort, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			active = append(active, l)
		}
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("multilogger: at least one logger is required")
	}
	if len(active) == 1 {
		return active[0], nil
	}
	return &MultiLoggerAdapter{loggers: active}, nil
}

// each вызывает f для каждого вложенного логгера по порядку.
func (m *MultiLoggerAdapter) each(f func(port.LoggerPort)) {
	for _, l := range m.loggers {
		f(l)
	}
}

func (m *MultiLoggerAdapter) Info(msg string, fields port.Fields) {
	m.each(func(l port.LoggerPort) { l.Info(msg, fields) })
}

func (m *MultiLoggerAdapter) Warn(msg string, fields port.Fields) {
	m.each(func(l port.LoggerPort) { l.Warn(msg, fields) })
}

func (m *MultiLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	m.each(func(l port.LoggerPort) { l.Error(msg, err, fields) })
}

func (m *MultiLoggerAdapter) Debug(msg string, fields port.Fields) {
	m.each(func(l port.LoggerPort) { l.Debug(msg, fields) })
}

// WithFields возвращает новый набор, поля добавляются в каждый логгер.
func (m *MultiLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	enriched := &MultiLoggerAdapter{loggers: make([]port.LoggerPort, 0, len(m.loggers))}
	m.each(func(l port.LoggerPort) { enriched.loggers = append(enriched.loggers, l.WithFields(fields)) })
	return enriched
}

package logger_adapter

import (
	"errors"

	"catalog-service/internal/core/port"
)

var errNoLoggers = errors.New("multilogger: at least one logger is required")

// MultiLoggerAdapter рассылает каждую запись во все вложенные логгеры (stdout, fluent)
type MultiLoggerAdapter struct {
	sinks []port.LoggerPort
}

// NewMultiloggerAdapter пропускает nil; если не осталось ни одного логгера - ошибка
func NewMultiloggerAdapter(loggers ...port.LoggerPort) (port.LoggerPort, error) {
	sinks := make([]port.LoggerPort, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			sinks = append(sinks, l)
		}
	}
	if len(sinks) == 0 {
		return nil, errNoLoggers
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return &MultiLoggerAdapter{sinks: sinks}, nil
}

func (m *MultiLoggerAdapter) each(fn func(port.LoggerPort)) {
	for _, sink := range m.sinks {
		fn(sink)
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

func (m *MultiLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	enriched := make([]port.LoggerPort, len(m.sinks))
	for i, sink := range m.sinks {
		enriched[i] = sink.WithFields(fields)
	}
	return &MultiLoggerAdapter{sinks: enriched}
}

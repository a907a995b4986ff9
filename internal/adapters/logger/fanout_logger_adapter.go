package logger_adapter

import (
	"errors"

	"listing-service/internal/core/port"
)

var errNoLoggers = errors.New("fan-out logger: no loggers configured")

// FanOutLogger дублирует каждую запись во все подключенные логгеры (stdout, Fluent Bit)
type FanOutLogger struct {
	sinks []port.LoggerPort
}

// NewFanOutLogger пропускает nil. Если остался один логгер, он возвращается как есть.
func NewFanOutLogger(loggers ...port.LoggerPort) (port.LoggerPort, error) {
	sinks := make([]port.LoggerPort, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			sinks = append(sinks, l)
		}
	}

	switch len(sinks) {
	case 0:
		return nil, errNoLoggers
	case 1:
		return sinks[0], nil
	}
	return &FanOutLogger{sinks: sinks}, nil
}

func (f *FanOutLogger) each(write func(port.LoggerPort)) {
	for _, sink := range f.sinks {
		write(sink)
	}
}

func (f *FanOutLogger) Debug(msg string, fields port.Fields) {
	f.each(func(l port.LoggerPort) { l.Debug(msg, fields) })
}

func (f *FanOutLogger) Info(msg string, fields port.Fields) {
	f.each(func(l port.LoggerPort) { l.Info(msg, fields) })
}

func (f *FanOutLogger) Warn(msg string, fields port.Fields) {
	f.each(func(l port.LoggerPort) { l.Warn(msg, fields) })
}

func (f *FanOutLogger) Error(msg string, err error, fields port.Fields) {
	f.each(func(l port.LoggerPort) { l.Error(msg, err, fields) })
}

func (f *FanOutLogger) WithFields(fields port.Fields) port.LoggerPort {
	child := &FanOutLogger{sinks: make([]port.LoggerPort, 0, len(f.sinks))}
	f.each(func(l port.LoggerPort) { child.sinks = append(child.sinks, l.WithFields(fields)) })
	return child
}

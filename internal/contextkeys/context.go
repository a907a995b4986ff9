package contextkeys

import (
	"context"

	"listing-service/internal/core/port"
)

// ctxKey - приватный тип ключей пакета, чужие пакеты не могут их перезаписать
type ctxKey int

const (
	loggerKey ctxKey = iota
	traceIDKey
)

// WithScope кладет в контекст логгер запроса и его trace_id одним вызовом.
// Пустой traceID не записывается.
func WithScope(ctx context.Context, logger port.LoggerPort, traceID string) context.Context {
	if logger != nil {
		ctx = context.WithValue(ctx, loggerKey, logger)
	}
	if traceID != "" {
		ctx = context.WithValue(ctx, traceIDKey, traceID)
	}
	return ctx
}

func ContextWithLogger(ctx context.Context, logger port.LoggerPort) context.Context {
	return WithScope(ctx, logger, "")
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return WithScope(ctx, nil, traceID)
}

// LoggerFromContext никогда не возвращает nil: без логгера в контексте отдается no-op
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if logger, ok := ctx.Value(loggerKey).(port.LoggerPort); ok {
		return logger
	}
	return discard
}

func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey).(string)
	return traceID
}

var discard port.LoggerPort = &noopLogger{}

type noopLogger struct{}

func (*noopLogger) Info(string, port.Fields)                 {}
func (*noopLogger) Warn(string, port.Fields)                 {}
func (*noopLogger) Error(string, error, port.Fields)         {}
func (*noopLogger) Debug(string, port.Fields)                {}
func (n *noopLogger) WithFields(port.Fields) port.LoggerPort { return n }

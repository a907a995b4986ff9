package rabbitmq_consumer

import (
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RetryCountHeader - сколько раз сообщение уже возвращалось в очередь
const RetryCountHeader = "x-retry-count"

// ErrPermanent помечает ошибки, повтор которых ничего не изменит (битое сообщение)
var ErrPermanent = errors.New("permanent message error")

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() []error {
	return []error{e.err, ErrPermanent}
}

// Permanent оборачивает ошибку так, что консьюмер отклонит сообщение без повтора
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

type outcome int

const (
	outcomeAck outcome = iota
	outcomeRetry
	outcomeReject
)

// decide выбирает судьбу сообщения по результату обработчика
func decide(handlerErr error, retries, maxRetries int) outcome {
	switch {
	case handlerErr == nil:
		return outcomeAck
	case errors.Is(handlerErr, ErrPermanent):
		return outcomeReject
	case retries < maxRetries:
		return outcomeRetry
	default:
		return outcomeReject
	}
}

// retryCount читает счетчик из заголовка. amqp отдает целые числа разных типов.
func retryCount(headers amqp.Table) int {
	if headers == nil {
		return 0
	}
	switch v := headers[RetryCountHeader].(type) {
	case int:
		return v
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		return 0
	}
}

// withRetryCount копирует заголовки и выставляет новый счетчик
func withRetryCount(headers amqp.Table, count int) amqp.Table {
	out := make(amqp.Table, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	out[RetryCountHeader] = int32(count)
	return out
}

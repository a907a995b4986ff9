package rabbitmq_producer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"listing-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

var errPublisherClosed = errors.New("producer: publisher is closed")

// PublisherConfig конфигурация для производителя
type PublisherConfig struct {
	ExchangeName    string // пустая строка - default exchange
	ExchangeType    string // direct, fanout, topic, headers
	DurableExchange bool
	ExchangeArgs    amqp.Table

	// если false, обменник должен уже существовать
	DeclareExchangeIfMissing bool

	Logger rabbitmq_common.Logger
}

func (c PublisherConfig) validate() error {
	if c.DeclareExchangeIfMissing && (c.ExchangeName == "" || c.ExchangeType == "") {
		return fmt.Errorf("producer: exchange name and type are required when DeclareExchangeIfMissing is true")
	}
	return nil
}

// amqpChannel - часть *amqp.Channel, которой пользуется производитель
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	IsClosed() bool
	Close() error
}

// channelOpener открывает новый канал на текущем соединении менеджера
type channelOpener func() (amqpChannel, error)

// Publisher публикует сообщения в один обменник через свой канал.
// Если брокер закрыл канал (например, после рестарта), следующий Publish
// берет у менеджера новый.
type Publisher struct {
	config  PublisherConfig
	open    channelOpener
	channel amqpChannel
	closed  bool
	mu      sync.Mutex

	Logger rabbitmq_common.Logger
}

// NewPublisher берет канал у менеджера и при необходимости объявляет обменник
func NewPublisher(cfg PublisherConfig, connManager *rabbitmq_common.ConnectionManager) (*Publisher, error) {
	if connManager == nil {
		return nil, fmt.Errorf("producer: connection manager is required")
	}
	return newPublisher(cfg, func() (amqpChannel, error) {
		_, ch, err := connManager.GetChannel()
		if err != nil {
			return nil, err
		}
		return ch, nil
	})
}

func newPublisher(cfg PublisherConfig, open channelOpener) (*Publisher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	p := &Publisher{config: cfg, open: open, Logger: logger}
	if err := p.reopen(); err != nil {
		return nil, err
	}
	logger.Debug("Producer ready", "exchange", cfg.ExchangeName)
	return p, nil
}

// reopen открывает канал и объявляет обменник. Вызывается под p.mu или из конструктора.
func (p *Publisher) reopen() error {
	ch, err := p.open()
	if err != nil {
		return fmt.Errorf("producer: failed to get channel from manager: %w", err)
	}

	if p.config.DeclareExchangeIfMissing {
		p.Logger.Debug("Declaring exchange", "name", p.config.ExchangeName, "type", p.config.ExchangeType)
		err = ch.ExchangeDeclare(
			p.config.ExchangeName,
			p.config.ExchangeType,
			p.config.DurableExchange,
			false, // auto-delete
			false, // internal
			false, // no-wait
			p.config.ExchangeArgs,
		)
		if err != nil {
			_ = ch.Close()
			return fmt.Errorf("producer: failed to declare exchange '%s': %w", p.config.ExchangeName, err)
		}
	}

	p.channel = ch
	return nil
}

// Publish публикует сообщение. Канал amqp не потокобезопасен для публикации,
// поэтому вызовы сериализуются.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errPublisherClosed
	}

	if p.channel == nil || p.channel.IsClosed() {
		p.Logger.Warn("Producer channel is closed, opening a new one", "exchange", p.config.ExchangeName)
		p.channel = nil
		if err := p.reopen(); err != nil {
			return fmt.Errorf("producer: not connected: %w", err)
		}
	}

	err := p.channel.PublishWithContext(ctx, p.config.ExchangeName, routingKey, false, false, msg)
	if err != nil {
		if p.channel.IsClosed() {
			// следующий Publish откроет новый канал
			p.channel = nil
		}
		return fmt.Errorf("producer: failed to publish message: %w", err)
	}
	return nil
}

// Close закрывает канал производителя, соединение остается у менеджера
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.channel == nil {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	if err != nil {
		p.Logger.Error(err, "Error closing producer channel")
		return err
	}
	p.Logger.Info("Producer closed")
	return nil
}

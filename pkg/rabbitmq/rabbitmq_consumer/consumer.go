package rabbitmq_consumer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"listing-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler обрабатывает одно сообщение. Пакет сам решает, делать ack,
// повтор или reject: nil - ack, Permanent(err) - reject, прочие ошибки - повтор.
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

// ConsumerConfig конфигурация для потребителя
type ConsumerConfig struct {
	QueueName    string
	DurableQueue bool

	// обменник, к которому привязывается очередь; объявляется, если задан тип
	ExchangeName string
	ExchangeType string
	RoutingKeys  []string

	// сообщения после reject уходят сюда, если задано
	DeadLetterExchange string

	PrefetchCount int
	ConsumerTag   string
	MaxRetries    int

	// Sequential - обрабатывать сообщения по одному в порядке доставки.
	// Нужен, когда порядок событий важен (upsert и remove одного объекта).
	Sequential bool

	Logger rabbitmq_common.Logger
}

func (c ConsumerConfig) validate() error {
	if c.QueueName == "" {
		return fmt.Errorf("consumer: queue name is required")
	}
	if c.ExchangeName != "" && len(c.RoutingKeys) == 0 {
		return fmt.Errorf("consumer: at least one routing key is required to bind to exchange '%s'", c.ExchangeName)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("consumer: MaxRetries must not be negative")
	}
	return nil
}

// Consumer читает очередь и раздает сообщения обработчику в отдельных горутинах,
// либо по одному, если включен Sequential
type Consumer struct {
	config     ConsumerConfig
	connection *amqp.Connection
	channel    *amqp.Channel
	handler    MessageHandler
	publishMu  sync.Mutex
	wg         sync.WaitGroup

	Logger rabbitmq_common.Logger
}

// NewConsumer объявляет очередь и привязки, канал берется у менеджера
func NewConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*Consumer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, fmt.Errorf("consumer: message handler is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("consumer: failed to get channel from manager: %w", err)
	}

	c := &Consumer{
		config:     cfg,
		connection: conn,
		channel:    ch,
		handler:    handler,
		Logger:     logger,
	}
	if err := c.setup(); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consumer: setup failed: %w", err)
	}
	return c, nil
}

func (c *Consumer) setup() error {
	if c.config.PrefetchCount > 0 {
		c.Logger.Debug("Setting QoS", "prefetch_count", c.config.PrefetchCount)
		if err := c.channel.Qos(c.config.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	var queueArgs amqp.Table
	if c.config.DeadLetterExchange != "" {
		queueArgs = amqp.Table{"x-dead-letter-exchange": c.config.DeadLetterExchange}
	}

	c.Logger.Debug("Declaring queue", "name", c.config.QueueName, "durable", c.config.DurableQueue)
	if _, err := c.channel.QueueDeclare(c.config.QueueName, c.config.DurableQueue, false, false, false, queueArgs); err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", c.config.QueueName, err)
	}

	if c.config.ExchangeName == "" {
		return nil
	}

	if c.config.ExchangeType != "" {
		c.Logger.Debug("Declaring exchange", "name", c.config.ExchangeName, "type", c.config.ExchangeType)
		err := c.channel.ExchangeDeclare(c.config.ExchangeName, c.config.ExchangeType, true, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("failed to declare exchange '%s': %w", c.config.ExchangeName, err)
		}
	}

	for _, key := range c.config.RoutingKeys {
		c.Logger.Debug("Binding queue to exchange",
			"queue_name", c.config.QueueName,
			"exchange_name", c.config.ExchangeName,
			"routing_key", key,
		)
		if err := c.channel.QueueBind(c.config.QueueName, key, c.config.ExchangeName, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue '%s' with key '%s': %w", c.config.QueueName, key, err)
		}
	}
	return nil
}

// StartConsuming блокируется до отмены контекста или закрытия соединения брокером
func (c *Consumer) StartConsuming(ctx context.Context) error {
	if c.channel == nil || c.connection == nil || c.connection.IsClosed() {
		return fmt.Errorf("consumer: not connected")
	}

	msgs, err := c.channel.Consume(c.config.QueueName, c.config.ConsumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consumer: failed to register on queue '%s': %w", c.config.QueueName, err)
	}
	c.Logger.Info("[*] Waiting for messages on queue", "queue_name", c.config.QueueName)

	notifyClose := c.connection.NotifyClose(make(chan *amqp.Error, 1))
	return c.consume(ctx, msgs, notifyClose)
}

func (c *Consumer) consume(ctx context.Context, msgs <-chan amqp.Delivery, notifyClose <-chan *amqp.Error) error {
	for {
		// отмена проверяется первой, чтобы не брать новую работу после сигнала
		select {
		case <-ctx.Done():
			c.Logger.Info("Context cancelled. Stopping consumer.", "consumer_tag", c.config.ConsumerTag)
			return nil
		default:
		}

		select {
		case <-ctx.Done():
			c.Logger.Info("Context cancelled. Stopping consumer.", "consumer_tag", c.config.ConsumerTag)
			return nil
		case amqpErr := <-notifyClose:
			if amqpErr == nil {
				return nil
			}
			c.Logger.Error(amqpErr, "Connection closed for consumer", "consumer_tag", c.config.ConsumerTag)
			return amqpErr
		case d, ok := <-msgs:
			if !ok {
				c.Logger.Info("Deliveries channel closed by broker", "consumer_tag", c.config.ConsumerTag)
				return nil
			}
			if c.config.Sequential {
				c.process(ctx, d)
				continue
			}
			c.wg.Add(1)
			go func(delivery amqp.Delivery) {
				defer c.wg.Done()
				c.process(ctx, delivery)
			}(d)
		}
	}
}

func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	retries := retryCount(d.Headers)
	handlerErr := c.handler(ctx, d)

	switch decide(handlerErr, retries, c.config.MaxRetries) {
	case outcomeAck:
		_ = d.Ack(false)
		c.Logger.Debug("[+] Message Ack'd", "delivery_tag", d.DeliveryTag)

	case outcomeRetry:
		c.Logger.Warn("Handler failed, scheduling retry",
			"delivery_tag", d.DeliveryTag,
			"retry", retries+1,
			"max_retries", c.config.MaxRetries,
			"error", handlerErr.Error(),
		)
		if err := c.republish(ctx, d, retries+1); err != nil {
			// не смогли переотправить - возвращаем оригинал брокеру
			c.Logger.Error(err, "Failed to republish for retry, requeueing original", "delivery_tag", d.DeliveryTag)
			_ = d.Nack(false, true)
			return
		}
		_ = d.Ack(false)

	case outcomeReject:
		c.Logger.Error(handlerErr, "Rejecting message without requeue",
			"delivery_tag", d.DeliveryTag,
			"retries", retries,
		)
		_ = d.Nack(false, false)
	}
}

// republish кладет копию сообщения обратно в очередь через default exchange
func (c *Consumer) republish(ctx context.Context, d amqp.Delivery, retry int) error {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	return c.channel.PublishWithContext(pubCtx, "", c.config.QueueName, false, false, amqp.Publishing{
		ContentType:  d.ContentType,
		Type:         d.Type,
		MessageId:    d.MessageId,
		Headers:      withRetryCount(d.Headers, retry),
		Body:         d.Body,
		Timestamp:    time.Now(),
		DeliveryMode: amqp.Persistent,
	})
}

// Close ждет обработчиков и закрывает канал
func (c *Consumer) Close() error {
	c.Logger.Debug("Waiting for message handlers to finish...")
	c.wg.Wait()

	if c.channel == nil {
		return nil
	}
	err := c.channel.Close()
	c.channel = nil
	if err != nil {
		c.Logger.Error(err, "Error closing consumer channel")
		return err
	}
	c.Logger.Info("Consumer closed")
	return nil
}

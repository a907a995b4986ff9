package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"listing-service/internal/constants"
	"listing-service/internal/contextkeys"
	"listing-service/internal/contracts"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	usecases_port "listing-service/internal/core/port/usecases_port"
	"listing-service/pkg/rabbitmq/rabbitmq_common"
	"listing-service/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ListingEventsConsumerAdapter - входящий адаптер: слушает listing_events
// и применяет события к каталогу через use case
type ListingEventsConsumerAdapter struct {
	consumer *rabbitmq_consumer.Consumer
	useCase  usecases_port.ApplyListingEventUseCase
	logger   port.LoggerPort
}

var _ port.EventListenerPort = (*ListingEventsConsumerAdapter)(nil)

// DefaultConsumerConfig - топология очереди событий каталога.
// События одного объявления должны применяться в порядке публикации, поэтому обработка последовательная.
func DefaultConsumerConfig(consumerTag string) rabbitmq_consumer.ConsumerConfig {
	return rabbitmq_consumer.ConsumerConfig{
		QueueName:    constants.ListingEventsQueue,
		DurableQueue: true,
		ExchangeName: constants.ListingsExchange,
		ExchangeType: constants.ListingsExchangeType,
		RoutingKeys: []string{
			constants.RoutingKeyListingUpserted,
			constants.RoutingKeyListingRemoved,
		},
		PrefetchCount: 1,
		ConsumerTag:   consumerTag,
		MaxRetries:    constants.ListingEventsMaxRetries,
		Sequential:    true,
	}
}

func NewListingEventsConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.ApplyListingEventUseCase,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*ListingEventsConsumerAdapter, error) {
	adapter := newListingEventsHandler(useCase, logger)

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewConsumer(consumerCfg, adapter.handleDelivery, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for listing events: %w", err)
	}
	adapter.consumer = consumer
	return adapter, nil
}

func newListingEventsHandler(useCase usecases_port.ApplyListingEventUseCase, logger port.LoggerPort) *ListingEventsConsumerAdapter {
	return &ListingEventsConsumerAdapter{useCase: useCase, logger: logger}
}

// handleDelivery разбирает одно сообщение. Все, что не пройдет контракт,
// помечается Permanent и уходит без повторов.
func (a *ListingEventsConsumerAdapter) handleDelivery(ctx context.Context, d amqp.Delivery) error {
	traceID, _ := d.Headers[constants.HeaderTraceID].(string)
	if traceID == "" {
		traceID = uuid.NewString()
	}
	eventType, _ := d.Headers[constants.HeaderEventType].(string)
	eventVersion, _ := d.Headers[constants.HeaderEventVersion].(string)

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":      traceID,
		"message_id":    d.MessageId,
		"event_type":    eventType,
		"event_version": eventVersion,
		"adapter_name":  "ListingEventsConsumerAdapter",
	})
	ctx = contextkeys.WithScope(ctx, msgLogger, traceID)

	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		msgLogger.Error("Message failed schema validation. Rejecting.", err, nil)
		return rabbitmq_consumer.Permanent(err)
	}

	var err error
	switch eventType {
	case constants.EventTypeListingUpserted:
		err = a.applyUpserted(ctx, d.Body)
	case constants.EventTypeListingRemoved:
		err = a.applyRemoved(ctx, d.Body)
	default:
		err = rabbitmq_consumer.Permanent(fmt.Errorf("unsupported event type %q", eventType))
	}

	if err != nil {
		msgLogger.Error("Failed to apply listing event", err, nil)
		return err
	}
	msgLogger.Info("Listing event applied", nil)
	return nil
}

func (a *ListingEventsConsumerAdapter) applyUpserted(ctx context.Context, body []byte) error {
	var event ListingUpsertedEventDTO
	if err := json.Unmarshal(body, &event); err != nil {
		return rabbitmq_consumer.Permanent(fmt.Errorf("failed to unmarshal upserted event: %w", err))
	}
	record, err := event.Listing.ToDomain()
	if err != nil {
		return rabbitmq_consumer.Permanent(err)
	}
	return classify(a.useCase.Upsert(ctx, record))
}

func (a *ListingEventsConsumerAdapter) applyRemoved(ctx context.Context, body []byte) error {
	var event ListingRemovedEventDTO
	if err := json.Unmarshal(body, &event); err != nil {
		return rabbitmq_consumer.Permanent(fmt.Errorf("failed to unmarshal removed event: %w", err))
	}
	return classify(a.useCase.Remove(ctx, event.ListingID))
}

// classify: нарушение контракта каталога не исправится повтором
func classify(err error) error {
	if errors.Is(err, domain.ErrInvalidListing) {
		return rabbitmq_consumer.Permanent(err)
	}
	return err
}

// Start реализует EventListenerPort
func (a *ListingEventsConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close реализует EventListenerPort
func (a *ListingEventsConsumerAdapter) Close() error {
	return a.consumer.Close()
}

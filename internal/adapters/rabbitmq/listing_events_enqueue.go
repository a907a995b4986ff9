package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"listing-service/internal/adapters/catalog"
	"listing-service/internal/constants"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// messagePublisher - то, что адаптеру нужно от rabbitmq_producer.Publisher
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// ListingEventsPublisherAdapter публикует изменения каталога в listings_exchange
type ListingEventsPublisherAdapter struct {
	producer messagePublisher
	now      func() time.Time
}

var _ port.ListingEventsPublisherPort = (*ListingEventsPublisherAdapter)(nil)

func NewListingEventsPublisherAdapter(producer messagePublisher) (*ListingEventsPublisherAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	return &ListingEventsPublisherAdapter{producer: producer, now: time.Now}, nil
}

// PublishUpserted отправляет ListingUpsertedEvent
func (a *ListingEventsPublisherAdapter) PublishUpserted(ctx context.Context, record domain.ListingRecord) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "ListingEventsPublisherAdapter",
		"routing_key": constants.RoutingKeyListingUpserted,
		"listing_id":  record.Listing.ID,
	})

	event := ListingUpsertedEventDTO{
		EventID:    uuid.NewString(),
		OccurredAt: a.now().UTC(),
		Listing:    catalog.FromDomain(record),
	}
	body, err := json.Marshal(event)
	if err != nil {
		adapterLogger.Error("Failed to marshal listing event", err, nil)
		return fmt.Errorf("failed to marshal listing event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    event.EventID,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Headers: amqp.Table{
			constants.HeaderEventType:    constants.EventTypeListingUpserted,
			constants.HeaderEventVersion: constants.EventVersionV1,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers[constants.HeaderTraceID] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.producer.Publish(publishCtx, constants.RoutingKeyListingUpserted, msg); err != nil {
		adapterLogger.Error("Failed to publish listing event", err, nil)
		return err
	}

	adapterLogger.Info("Successfully published listing event", port.Fields{"event_id": event.EventID})
	return nil
}

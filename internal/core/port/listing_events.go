package port

import (
	"context"

	"listing-service/internal/core/domain"
)

// ListingEventsPublisherPort - исходящий порт для публикации изменений каталога
type ListingEventsPublisherPort interface {
	PublishUpserted(ctx context.Context, record domain.ListingRecord) error
}

// EventListenerPort - входящий адаптер, который слушает очередь до отмены контекста
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}

package rabbitmq

import (
	"time"

	"listing-service/internal/adapters/catalog"
)

// ListingUpsertedEventDTO - events/listing-upserted/v1.json
type ListingUpsertedEventDTO struct {
	EventID    string                   `json:"event_id"`
	OccurredAt time.Time                `json:"occurred_at"`
	Listing    catalog.ListingRecordDTO `json:"listing"`
}

// ListingRemovedEventDTO - events/listing-removed/v1.json
type ListingRemovedEventDTO struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
	ListingID  string    `json:"listing_id"`
}

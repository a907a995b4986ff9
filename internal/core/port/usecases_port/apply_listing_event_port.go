package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

// ApplyListingEventUseCase применяет к каталогу изменения, пришедшие из брокера
type ApplyListingEventUseCase interface {
	Upsert(ctx context.Context, record domain.ListingRecord) error
	Remove(ctx context.Context, listingID string) error
}

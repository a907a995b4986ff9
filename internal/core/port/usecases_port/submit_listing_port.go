package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type SubmitListingUseCase interface {
	Execute(ctx context.Context, req domain.SubmitListingRequest) (*domain.ListingRecord, error)
}

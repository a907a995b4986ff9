package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type FindListingsUseCase interface {
	Execute(ctx context.Context, state domain.FilterState, limit, offset int) (*domain.PaginatedListings, error)
}

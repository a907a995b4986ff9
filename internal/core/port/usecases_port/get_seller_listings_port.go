package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

// GetSellerListingsUseCase - экран управления объявлениями. Пустой статус - все.
type GetSellerListingsUseCase interface {
	Execute(ctx context.Context, status domain.ListingStatus) ([]domain.ListingRecord, error)
}

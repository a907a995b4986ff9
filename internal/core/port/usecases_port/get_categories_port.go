package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type GetCategoriesUseCase interface {
	Execute(ctx context.Context) ([]domain.DictionaryItem, error)
}

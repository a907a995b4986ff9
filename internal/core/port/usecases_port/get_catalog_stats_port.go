package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type GetCatalogStatsUseCase interface {
	Execute(ctx context.Context) (*domain.CatalogStats, error)
}

package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type GetMapMarkersUseCase interface {
	Execute(ctx context.Context, state domain.FilterState) (*domain.MapView, error)
}

type GetMarkerClustersUseCase interface {
	Execute(ctx context.Context, state domain.FilterState, precision uint) ([]domain.MarkerCluster, error)
}

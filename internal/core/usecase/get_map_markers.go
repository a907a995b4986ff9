package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/engine"
	"listing-service/internal/core/port"
)

type GetMapMarkersUseCase struct {
	catalog       port.CatalogReaderPort
	defaultRegion domain.MapRegion
}

// NewGetMapMarkersUseCase - defaultRegion показывается, когда маркеров нет
func NewGetMapMarkersUseCase(catalog port.CatalogReaderPort, defaultRegion domain.MapRegion) *GetMapMarkersUseCase {
	return &GetMapMarkersUseCase{catalog: catalog, defaultRegion: defaultRegion}
}

func (uc *GetMapMarkersUseCase) Execute(ctx context.Context, state domain.FilterState) (*domain.MapView, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetMapMarkers",
		"category": state.ActiveCategory.String(),
		"query":    state.SearchQuery,
	})

	ucLogger.Info("Use case started", nil)

	if !uc.catalog.Loaded() {
		return nil, domain.ErrCatalogNotLoaded
	}

	markers := engine.ToMapMarkers(engine.ComputeVisible(uc.catalog.Published(), state))
	view := &domain.MapView{
		Region:  engine.RegionFor(markers, uc.defaultRegion),
		Markers: markers,
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"markers": len(markers)})
	return view, nil
}

type GetMarkerClustersUseCase struct {
	catalog port.CatalogReaderPort
}

func NewGetMarkerClustersUseCase(catalog port.CatalogReaderPort) *GetMarkerClustersUseCase {
	return &GetMarkerClustersUseCase{catalog: catalog}
}

func (uc *GetMarkerClustersUseCase) Execute(ctx context.Context, state domain.FilterState, precision uint) ([]domain.MarkerCluster, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "GetMarkerClusters",
		"category":  state.ActiveCategory.String(),
		"query":     state.SearchQuery,
		"precision": precision,
	})

	ucLogger.Info("Use case started", nil)

	if !uc.catalog.Loaded() {
		return nil, domain.ErrCatalogNotLoaded
	}

	markers := engine.ToMapMarkers(engine.ComputeVisible(uc.catalog.Published(), state))
	clusters := engine.ClusterMarkers(markers, precision)

	ucLogger.Info("Use case finished successfully", port.Fields{"markers": len(markers), "clusters": len(clusters)})
	return clusters, nil
}

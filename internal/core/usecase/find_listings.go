package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/engine"
	"listing-service/internal/core/port"
)

const defaultPageSize = 20

type FindListingsUseCase struct {
	catalog port.CatalogReaderPort
}

func NewFindListingsUseCase(catalog port.CatalogReaderPort) *FindListingsUseCase {
	return &FindListingsUseCase{catalog: catalog}
}

// Execute прогоняет каталог покупателя через фильтр и отдает одну страницу результата
func (uc *FindListingsUseCase) Execute(ctx context.Context, state domain.FilterState, limit, offset int) (*domain.PaginatedListings, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "FindListings",
		"category": state.ActiveCategory.String(),
		"query":    state.SearchQuery,
		"limit":    limit,
		"offset":   offset,
	})

	ucLogger.Info("Use case started", nil)

	if !uc.catalog.Loaded() {
		ucLogger.Warn("Catalog is not loaded yet", nil)
		return nil, domain.ErrCatalogNotLoaded
	}

	visible := engine.ComputeVisible(uc.catalog.Published(), state)
	result := paginate(visible, limit, offset)

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Listings),
	})
	return result, nil
}

func paginate(visible []domain.Listing, limit, offset int) *domain.PaginatedListings {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	page := []domain.Listing{}
	if offset < len(visible) {
		end := offset + limit
		if end > len(visible) {
			end = len(visible)
		}
		page = visible[offset:end]
	}

	return &domain.PaginatedListings{
		Listings:     page,
		TotalCount:   len(visible),
		CurrentPage:  offset/limit + 1,
		ItemsPerPage: limit,
	}
}

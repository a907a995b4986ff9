package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type GetSellerListingsUseCase struct {
	catalog port.CatalogReaderPort
}

func NewGetSellerListingsUseCase(catalog port.CatalogReaderPort) *GetSellerListingsUseCase {
	return &GetSellerListingsUseCase{catalog: catalog}
}

func (uc *GetSellerListingsUseCase) Execute(ctx context.Context, status domain.ListingStatus) ([]domain.ListingRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetSellerListings",
		"status":   string(status),
	})

	ucLogger.Info("Use case started", nil)

	if !uc.catalog.Loaded() {
		return nil, domain.ErrCatalogNotLoaded
	}

	all := uc.catalog.All()
	out := make([]domain.ListingRecord, 0, len(all))
	for _, r := range all {
		current := r.Details.Status
		if current == "" {
			current = domain.StatusActive
		}
		if status == "" || current == status {
			out = append(out, r)
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"count": len(out)})
	return out, nil
}

package usecase

import (
	"context"
	"fmt"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type GetListingDetailsUseCase struct {
	catalog port.CatalogReaderPort
}

func NewGetListingDetailsUseCase(catalog port.CatalogReaderPort) *GetListingDetailsUseCase {
	return &GetListingDetailsUseCase{catalog: catalog}
}

// Execute ищет карточку по id среди всех записей, включая неопубликованные:
// продавец открывает детали своих pending-объявлений тем же маршрутом.
func (uc *GetListingDetailsUseCase) Execute(ctx context.Context, listingID string) (*domain.ListingRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "GetListingDetails",
		"listing_id": listingID,
	})

	ucLogger.Info("Use case started", nil)

	record, ok := uc.catalog.Get(listingID)
	if !ok {
		ucLogger.Info("Listing not found", nil)
		return nil, fmt.Errorf("%w: %s", domain.ErrListingNotFound, listingID)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return &record, nil
}

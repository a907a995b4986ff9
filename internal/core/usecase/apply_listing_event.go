package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type ApplyListingEventUseCase struct {
	writer port.CatalogWriterPort
}

func NewApplyListingEventUseCase(writer port.CatalogWriterPort) *ApplyListingEventUseCase {
	return &ApplyListingEventUseCase{writer: writer}
}

// Upsert проверяет запись тем же контрактом, что и загрузка каталога
func (uc *ApplyListingEventUseCase) Upsert(ctx context.Context, record domain.ListingRecord) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "ApplyListingUpserted",
		"listing_id": record.Listing.ID,
	})

	ucLogger.Info("Use case started", nil)

	if err := record.Listing.Validate(); err != nil {
		ucLogger.Warn("Listing from event violates catalog contract", port.Fields{"error": err.Error()})
		return err
	}

	created := uc.writer.Upsert(record.WithDerivedPrice())

	ucLogger.Info("Use case finished successfully", port.Fields{"created": created})
	return nil
}

// Remove идемпотентен: удаление неизвестного id не ошибка
func (uc *ApplyListingEventUseCase) Remove(ctx context.Context, listingID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "ApplyListingRemoved",
		"listing_id": listingID,
	})

	ucLogger.Info("Use case started", nil)

	if listingID == "" {
		return domain.NewValidationError("id", "must not be empty")
	}
	removed := uc.writer.Remove(listingID)

	ucLogger.Info("Use case finished successfully", port.Fields{"removed": removed})
	return nil
}

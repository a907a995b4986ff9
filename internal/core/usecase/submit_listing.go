package usecase

import (
	"context"
	"fmt"
	"strings"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/google/uuid"
)

// SubmitListingUseCase принимает новое объявление от продавца.
// Объявление попадает в каталог со статусом pending и не видно покупателям до проверки.
type SubmitListingUseCase struct {
	writer    port.CatalogWriterPort
	publisher port.ListingEventsPublisherPort // nil - пишем в каталог напрямую
	geocoder  port.GeocoderPort               // nil - координаты обязательны
}

func NewSubmitListingUseCase(writer port.CatalogWriterPort, publisher port.ListingEventsPublisherPort, geocoder port.GeocoderPort) *SubmitListingUseCase {
	return &SubmitListingUseCase{writer: writer, publisher: publisher, geocoder: geocoder}
}

func (uc *SubmitListingUseCase) Execute(ctx context.Context, req domain.SubmitListingRequest) (*domain.ListingRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SubmitListing",
		"title":    req.Title,
	})

	ucLogger.Info("Use case started", nil)

	record, err := uc.buildRecord(ctx, req)
	if err != nil {
		ucLogger.Warn("Submitted listing rejected", port.Fields{"error": err.Error()})
		return nil, err
	}
	ucLogger = ucLogger.WithFields(port.Fields{"listing_id": record.Listing.ID})

	if uc.publisher != nil {
		if err := uc.publisher.PublishUpserted(ctx, record); err != nil {
			ucLogger.Error("Failed to publish submitted listing", err, nil)
			return nil, fmt.Errorf("failed to publish listing: %w", err)
		}
		ucLogger.Info("Use case finished successfully, listing published", nil)
		return &record, nil
	}

	uc.writer.Upsert(record)
	ucLogger.Info("Use case finished successfully, listing stored", nil)
	return &record, nil
}

func (uc *SubmitListingUseCase) buildRecord(ctx context.Context, req domain.SubmitListingRequest) (domain.ListingRecord, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.ListingRecord{}, domain.NewValidationError("title", "is required")
	}
	price := strings.TrimSpace(req.Price)
	if price == "" {
		return domain.ListingRecord{}, domain.NewValidationError("price", "is required")
	}

	category := domain.CategoryLand
	if strings.TrimSpace(req.Category) != "" {
		parsed, err := domain.ParseCategory(req.Category)
		if err != nil || parsed.IsAll() {
			return domain.ListingRecord{}, domain.NewValidationError("category", fmt.Sprintf("unknown category %q", req.Category))
		}
		category = parsed
	}

	coords, err := uc.resolveCoordinates(ctx, req)
	if err != nil {
		return domain.ListingRecord{}, err
	}

	record := domain.ListingRecord{
		Listing: domain.Listing{
			ID:          uuid.NewString(),
			Title:       title,
			Price:       price,
			Location:    strings.TrimSpace(req.Location),
			Category:    category,
			Coordinates: coords,
		},
		Details: domain.ListingDetails{
			Description: req.Description,
			Amenities:   req.Amenities,
			Images:      req.Images,
			Seller:      req.Seller,
			Status:      domain.StatusPending,
		},
	}
	if len(req.Images) > 0 {
		record.Listing.ImageURL = req.Images[0]
	}

	if err := record.Listing.Validate(); err != nil {
		return domain.ListingRecord{}, err
	}
	return record.WithDerivedPrice(), nil
}

func (uc *SubmitListingUseCase) resolveCoordinates(ctx context.Context, req domain.SubmitListingRequest) (domain.Coordinates, error) {
	if req.Coordinates != nil {
		return *req.Coordinates, nil
	}
	if uc.geocoder == nil {
		return domain.Coordinates{}, domain.NewValidationError("coordinates", "are required")
	}
	if strings.TrimSpace(req.Location) == "" {
		return domain.Coordinates{}, domain.NewValidationError("location", "is required when coordinates are omitted")
	}

	coords, err := uc.geocoder.Geocode(ctx, req.Location)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("failed to geocode location: %w", err)
	}
	if coords == nil {
		return domain.Coordinates{}, domain.NewValidationError("location", "could not be found on the map")
	}
	return *coords, nil
}

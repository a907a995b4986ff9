package catalog

import (
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

// Sanitize отбрасывает записи, нарушающие контракт каталога (пустой или
// повторный id, координаты вне диапазона, неизвестная категория), и пишет
// каждую в лог. Загрузка целиком из-за одной плохой записи не падает.
// Заодно дополняет цену (строку из суммы или сумму из строки) и чистит
// HTML в описании.
func Sanitize(records []domain.ListingRecord, logger port.LoggerPort) []domain.ListingRecord {
	out := make([]domain.ListingRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for i, r := range records {
		if err := r.Listing.Validate(); err != nil {
			logger.Warn("Skipping invalid catalog entry", port.Fields{
				"position":   i,
				"listing_id": r.Listing.ID,
				"error":      err.Error(),
			})
			continue
		}
		if _, dup := seen[r.Listing.ID]; dup {
			logger.Warn("Skipping duplicate catalog entry", port.Fields{
				"position":   i,
				"listing_id": r.Listing.ID,
			})
			continue
		}
		seen[r.Listing.ID] = struct{}{}

		if text, err := plainDescription(r.Details.Description); err != nil {
			logger.Warn("Could not parse listing description markup", port.Fields{
				"listing_id": r.Listing.ID,
				"error":      err.Error(),
			})
		} else {
			r.Details.Description = text
		}

		out = append(out, fillPrice(r, logger))
	}

	if dropped := len(records) - len(out); dropped > 0 {
		logger.Warn("Catalog entries dropped during sanitizing", port.Fields{"dropped": dropped, "kept": len(out)})
	}
	return out
}

func fillPrice(r domain.ListingRecord, logger port.LoggerPort) domain.ListingRecord {
	filled := r.WithDerivedPrice()
	if r.Details.Money != nil && filled.Details.Money == nil {
		logger.Warn("Dropping price amount with unknown currency", port.Fields{
			"listing_id": r.Listing.ID,
			"currency":   r.Details.Money.Currency,
		})
	}
	if filled.Details.Money == nil && filled.Listing.Price != "" {
		logger.Debug("Price string has no amount", port.Fields{"listing_id": r.Listing.ID, "price": r.Listing.Price})
	}
	return filled
}

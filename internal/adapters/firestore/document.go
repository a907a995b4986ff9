package firestore

import (
	"fmt"
	"sort"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

// listingDocument - документ коллекции объявлений
type listingDocument struct {
	Position    *int64         `firestore:"position"`
	Title       string         `firestore:"title"`
	Price       string         `firestore:"price"`
	PriceAmount *int64         `firestore:"price_amount"`
	Currency    string         `firestore:"currency"`
	Location    string         `firestore:"location"`
	Category    string         `firestore:"category"`
	Latitude    float64        `firestore:"latitude"`
	Longitude   float64        `firestore:"longitude"`
	ImageURL    string         `firestore:"image_url"`
	Description string         `firestore:"description"`
	Amenities   []string       `firestore:"amenities"`
	Images      []string       `firestore:"images"`
	Status      string         `firestore:"status"`
	Seller      sellerDocument `firestore:"seller"`
}

type sellerDocument struct {
	ID        string `firestore:"id"`
	Name      string `firestore:"name"`
	Firm      string `firestore:"firm"`
	AvatarURL string `firestore:"avatar"`
}

func (d listingDocument) toDomain(id string) (domain.ListingRecord, error) {
	status, ok := domain.ParseListingStatus(d.Status)
	if !ok {
		return domain.ListingRecord{}, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", d.Status))
	}

	record := domain.ListingRecord{
		Listing: domain.Listing{
			ID:          id,
			Title:       d.Title,
			Price:       d.Price,
			Location:    d.Location,
			Category:    domain.Category(d.Category),
			Coordinates: domain.Coordinates{Latitude: d.Latitude, Longitude: d.Longitude},
			ImageURL:    d.ImageURL,
		},
		Details: domain.ListingDetails{
			Description: d.Description,
			Amenities:   d.Amenities,
			Images:      d.Images,
			Status:      status,
			Seller: domain.Seller{
				ID:        d.Seller.ID,
				Name:      d.Seller.Name,
				Firm:      d.Seller.Firm,
				AvatarURL: d.Seller.AvatarURL,
			},
		},
	}
	if d.PriceAmount != nil {
		currency := d.Currency
		if currency == "" {
			currency = domain.DefaultCurrency
		}
		record.Details.Money = &domain.Money{Amount: *d.PriceAmount, Currency: currency}
	}
	if record.Listing.ImageURL == "" && len(d.Images) > 0 {
		record.Listing.ImageURL = d.Images[0]
	}
	return record, nil
}

// positionedRecord - запись вместе с позицией документа, nil - поля position нет
type positionedRecord struct {
	record   domain.ListingRecord
	position *int64
}

// orderByPosition упорядочивает записи по position устойчивой сортировкой.
// Документы без position уходят в конец в порядке чтения, о каждом пишется предупреждение.
func orderByPosition(items []positionedRecord, logger port.LoggerPort) []domain.ListingRecord {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].position, items[j].position
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})

	out := make([]domain.ListingRecord, 0, len(items))
	for _, item := range items {
		if item.position == nil {
			logger.Warn("Listing document has no position, appending to the end", port.Fields{
				"listing_id": item.record.Listing.ID,
			})
		}
		out = append(out, item.record)
	}
	return out
}

package catalog

import (
	"fmt"

	"listing-service/internal/core/domain"
)

// ListingRecordDTO - JSON-представление записи каталога. Тот же формат
// используют сид, события брокера и схема listing/v1.json.
type ListingRecordDTO struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Price       string         `json:"price"`
	PriceAmount *MoneyDTO      `json:"price_amount,omitempty"`
	Location    string         `json:"location"`
	Category    string         `json:"category"`
	Coordinates CoordinatesDTO `json:"coordinates"`
	ImageURL    string         `json:"image_url,omitempty"`
	Description string         `json:"description,omitempty"`
	Amenities   []string       `json:"amenities,omitempty"`
	Images      []string       `json:"images,omitempty"`
	Status      string         `json:"status,omitempty"`
	Seller      *SellerDTO     `json:"seller,omitempty"`
}

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type CoordinatesDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type SellerDTO struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Firm      string `json:"firm,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ToDomain переводит DTO в доменную запись. Категория переносится как есть,
// ее проверяет Sanitize.
func (d ListingRecordDTO) ToDomain() (domain.ListingRecord, error) {
	status, ok := domain.ParseListingStatus(d.Status)
	if !ok {
		return domain.ListingRecord{}, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", d.Status))
	}

	record := domain.ListingRecord{
		Listing: domain.Listing{
			ID:       d.ID,
			Title:    d.Title,
			Price:    d.Price,
			Location: d.Location,
			Category: domain.Category(d.Category),
			Coordinates: domain.Coordinates{
				Latitude:  d.Coordinates.Latitude,
				Longitude: d.Coordinates.Longitude,
			},
			ImageURL: d.ImageURL,
		},
		Details: domain.ListingDetails{
			Description: d.Description,
			Amenities:   d.Amenities,
			Images:      d.Images,
			Status:      status,
		},
	}
	if d.Seller != nil {
		record.Details.Seller = domain.Seller{
			ID:        d.Seller.ID,
			Name:      d.Seller.Name,
			Firm:      d.Seller.Firm,
			AvatarURL: d.Seller.AvatarURL,
		}
	}
	if d.PriceAmount != nil {
		record.Details.Money = &domain.Money{Amount: d.PriceAmount.Amount, Currency: d.PriceAmount.Currency}
	}
	return record, nil
}

// FromDomain - обратное преобразование для публикации событий
func FromDomain(r domain.ListingRecord) ListingRecordDTO {
	dto := ListingRecordDTO{
		ID:       r.Listing.ID,
		Title:    r.Listing.Title,
		Price:    r.Listing.Price,
		Location: r.Listing.Location,
		Category: string(r.Listing.Category),
		Coordinates: CoordinatesDTO{
			Latitude:  r.Listing.Coordinates.Latitude,
			Longitude: r.Listing.Coordinates.Longitude,
		},
		ImageURL:    r.Listing.ImageURL,
		Description: r.Details.Description,
		Amenities:   r.Details.Amenities,
		Images:      r.Details.Images,
		Status:      string(r.Details.Status),
	}
	if r.Details.Seller != (domain.Seller{}) {
		dto.Seller = &SellerDTO{
			ID:        r.Details.Seller.ID,
			Name:      r.Details.Seller.Name,
			Firm:      r.Details.Seller.Firm,
			AvatarURL: r.Details.Seller.AvatarURL,
		}
	}
	if r.Details.Money != nil {
		dto.PriceAmount = &MoneyDTO{Amount: r.Details.Money.Amount, Currency: r.Details.Money.Currency}
	}
	return dto
}

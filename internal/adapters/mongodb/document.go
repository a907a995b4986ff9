package mongodb

import (
	"fmt"

	"listing-service/internal/core/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type listingDocument struct {
	ID            bson.RawValue  `bson:"_id"`
	Position      int64          `bson:"position"`
	Title         string         `bson:"title"`
	Price         string         `bson:"price"`
	PriceAmount   *int64         `bson:"price_amount,omitempty"`
	PriceCurrency string         `bson:"price_currency,omitempty"`
	Location      string         `bson:"location"`
	Category      string         `bson:"category"`
	Coordinates   coordinatesDoc `bson:"coordinates"`
	ImageURL      string         `bson:"image_url,omitempty"`
	Description   string         `bson:"description,omitempty"`
	Amenities     []string       `bson:"amenities,omitempty"`
	Images        []string       `bson:"images,omitempty"`
	Status        string         `bson:"status,omitempty"`
	Seller        sellerDocument `bson:"seller"`
}

type coordinatesDoc struct {
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
}

type sellerDocument struct {
	ID        string `bson:"id,omitempty"`
	Name      string `bson:"name,omitempty"`
	Firm      string `bson:"firm,omitempty"`
	AvatarURL string `bson:"avatar_url,omitempty"`
}

// idString - _id бывает строкой, ObjectID или числом
func idString(raw bson.RawValue) (string, error) {
	switch raw.Type {
	case bsontype.String:
		return raw.StringValue(), nil
	case bsontype.ObjectID:
		return raw.ObjectID().Hex(), nil
	case bsontype.Int32:
		return fmt.Sprintf("%d", raw.Int32()), nil
	case bsontype.Int64:
		return fmt.Sprintf("%d", raw.Int64()), nil
	default:
		return "", fmt.Errorf("unsupported _id type %s", raw.Type)
	}
}

func (d listingDocument) toDomain() (domain.ListingRecord, error) {
	id, err := idString(d.ID)
	if err != nil {
		return domain.ListingRecord{}, domain.NewValidationError("id", err.Error())
	}

	status, ok := domain.ParseListingStatus(d.Status)
	if !ok {
		return domain.ListingRecord{}, domain.NewValidationError("status", "unknown status "+d.Status)
	}

	record := domain.ListingRecord{
		Listing: domain.Listing{
			ID:       id,
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
			Seller: domain.Seller{
				ID:        d.Seller.ID,
				Name:      d.Seller.Name,
				Firm:      d.Seller.Firm,
				AvatarURL: d.Seller.AvatarURL,
			},
		},
	}
	if record.Listing.ImageURL == "" && len(d.Images) > 0 {
		record.Listing.ImageURL = d.Images[0]
	}
	if d.PriceAmount != nil {
		currency := d.PriceCurrency
		if currency == "" {
			currency = domain.DefaultCurrency
		}
		record.Details.Money = &domain.Money{Amount: *d.PriceAmount, Currency: currency}
	}
	return record, nil
}

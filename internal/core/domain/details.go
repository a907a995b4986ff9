package domain

import "strings"

// ListingStatus - стадия жизни объявления у продавца
type ListingStatus string

const (
	StatusPending ListingStatus = "pending"
	StatusActive  ListingStatus = "active"
	StatusSold    ListingStatus = "sold"
)

// ParseListingStatus разбирает статус без учета регистра, пустая строка -> active
func ParseListingStatus(raw string) (ListingStatus, bool) {
	switch ListingStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StatusActive:
		return StatusActive, true
	case StatusPending:
		return StatusPending, true
	case StatusSold:
		return StatusSold, true
	default:
		return "", false
	}
}

// Seller - продавец / агент, разместивший объявление
type Seller struct {
	ID        string
	Name      string
	Firm      string
	AvatarURL string
}

// ListingDetails - полная карточка объекта для экрана деталей
type ListingDetails struct {
	Description string
	Amenities   []string
	Images      []string
	Seller      Seller
	Status      ListingStatus
	Money       *Money
}

// ListingRecord - элемент хранилища каталога: объявление и его детали
type ListingRecord struct {
	Listing Listing
	Details ListingDetails
}

// IsPublished - попадает ли объект в каталог покупателя
func (r ListingRecord) IsPublished() bool {
	return r.Details.Status == StatusActive || r.Details.Status == ""
}

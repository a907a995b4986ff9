package domain

// PriceRange - минимальная и максимальная цена в одной валюте
type PriceRange struct {
	Currency string
	Min      int64
	Max      int64
}

// CatalogStats - сводка по каталогу для дашборда продавца
type CatalogStats struct {
	Total       int
	Published   int
	ByCategory  map[Category]int
	ByStatus    map[ListingStatus]int
	PriceRanges []PriceRange
}

// DictionaryItem - универсальная структура для элемента справочника
type DictionaryItem struct {
	SystemName  string
	DisplayName string
}

// PaginatedListings - страница отфильтрованного каталога
type PaginatedListings struct {
	Listings     []Listing
	TotalCount   int
	CurrentPage  int
	ItemsPerPage int
}

// SubmitListingRequest - то, что продавец отправляет на проверку
type SubmitListingRequest struct {
	Title       string
	Price       string
	Location    string
	Category    string
	Description string
	Coordinates *Coordinates
	Images      []string
	Amenities   []string
	Seller      Seller
}

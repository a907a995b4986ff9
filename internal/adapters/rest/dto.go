package rest

import "listing-service/internal/core/domain"

// ErrorResponse - стандартная структура для ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type CoordinatesDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ListingCardResponse - карточка объекта в списке
type ListingCardResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Price       string         `json:"price"`
	Location    string         `json:"location"`
	Category    string         `json:"category"`
	Coordinates CoordinatesDTO `json:"coordinates"`
	ImageURL    string         `json:"image_url,omitempty"`
}

// PaginatedListingsResponse - ответ со списком карточек.
// EmptyMessage заполняется только когда фильтр ничего не нашел.
type PaginatedListingsResponse struct {
	Total        int                   `json:"total"`
	Page         int                   `json:"page"`
	PerPage      int                   `json:"perPage"`
	Data         []ListingCardResponse `json:"data"`
	EmptyMessage string                `json:"emptyMessage,omitempty"`
}

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type SellerDTO struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Firm      string `json:"firm,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ListingDetailsResponse - экран деталей объекта
type ListingDetailsResponse struct {
	ListingCardResponse
	PriceAmount *MoneyDTO `json:"price_amount,omitempty"`
	Description string    `json:"description,omitempty"`
	Amenities   []string  `json:"amenities"`
	Images      []string  `json:"images"`
	Status      string    `json:"status"`
	Seller      SellerDTO `json:"seller"`
}

type MapMarkerResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Price     string  `json:"price"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type MapRegionResponse struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitudeDelta"`
	LongitudeDelta float64 `json:"longitudeDelta"`
}

type MapMarkersResponse struct {
	Region       MapRegionResponse   `json:"region"`
	Markers      []MapMarkerResponse `json:"markers"`
	EmptyMessage string              `json:"emptyMessage,omitempty"`
}

type MarkerClusterResponse struct {
	Geohash   string   `json:"geohash"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Count     int      `json:"count"`
	MarkerIDs []string `json:"marker_ids"`
}

type MarkerClustersResponse struct {
	Precision uint                    `json:"precision"`
	Clusters  []MarkerClusterResponse `json:"clusters"`
}

// DictionaryItemResponse - элемент справочника
type DictionaryItemResponse struct {
	SystemName  string `json:"system_name"`
	DisplayName string `json:"display_name"`
}

type PriceRangeResponse struct {
	Currency string `json:"currency"`
	Min      int64  `json:"min"`
	Max      int64  `json:"max"`
}

type CatalogStatsResponse struct {
	Total       int                  `json:"total"`
	Published   int                  `json:"published"`
	ByCategory  map[string]int       `json:"by_category"`
	ByStatus    map[string]int       `json:"by_status"`
	PriceRanges []PriceRangeResponse `json:"price_ranges"`
}

// SubmitListingRequest - тело POST /listings
type SubmitListingRequest struct {
	Title       string          `json:"title"`
	Price       string          `json:"price"`
	Location    string          `json:"location"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Coordinates *CoordinatesDTO `json:"coordinates"`
	Images      []string        `json:"images"`
	Amenities   []string        `json:"amenities"`
	Seller      SellerDTO       `json:"seller"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	CatalogReady bool   `json:"catalog_ready"`
	CatalogSize  int    `json:"catalog_size"`
}

func (req SubmitListingRequest) toDomain() domain.SubmitListingRequest {
	out := domain.SubmitListingRequest{
		Title:       req.Title,
		Price:       req.Price,
		Location:    req.Location,
		Category:    req.Category,
		Description: req.Description,
		Images:      req.Images,
		Amenities:   req.Amenities,
		Seller: domain.Seller{
			ID:        req.Seller.ID,
			Name:      req.Seller.Name,
			Firm:      req.Seller.Firm,
			AvatarURL: req.Seller.AvatarURL,
		},
	}
	if req.Coordinates != nil {
		out.Coordinates = &domain.Coordinates{
			Latitude:  req.Coordinates.Latitude,
			Longitude: req.Coordinates.Longitude,
		}
	}
	return out
}

func toCardResponse(l domain.Listing) ListingCardResponse {
	return ListingCardResponse{
		ID:       l.ID,
		Title:    l.Title,
		Price:    l.Price,
		Location: l.Location,
		Category: l.Category.String(),
		Coordinates: CoordinatesDTO{
			Latitude:  l.Coordinates.Latitude,
			Longitude: l.Coordinates.Longitude,
		},
		ImageURL: l.ImageURL,
	}
}

func toDetailsResponse(r domain.ListingRecord) ListingDetailsResponse {
	status := r.Details.Status
	if status == "" {
		status = domain.StatusActive
	}

	resp := ListingDetailsResponse{
		ListingCardResponse: toCardResponse(r.Listing),
		Description:         r.Details.Description,
		Amenities:           nonNil(r.Details.Amenities),
		Images:              nonNil(r.Details.Images),
		Status:              string(status),
		Seller: SellerDTO{
			ID:        r.Details.Seller.ID,
			Name:      r.Details.Seller.Name,
			Firm:      r.Details.Seller.Firm,
			AvatarURL: r.Details.Seller.AvatarURL,
		},
	}
	if m := r.Details.Money; m != nil {
		resp.PriceAmount = &MoneyDTO{Amount: m.Amount, Currency: m.Currency}
	}
	return resp
}

func toMarkerResponses(markers []domain.MapMarker) []MapMarkerResponse {
	out := make([]MapMarkerResponse, len(markers))
	for i, m := range markers {
		out[i] = MapMarkerResponse{
			ID:        m.ID,
			Title:     m.Title,
			Price:     m.Price,
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
		}
	}
	return out
}

func toClusterResponses(clusters []domain.MarkerCluster) []MarkerClusterResponse {
	out := make([]MarkerClusterResponse, len(clusters))
	for i, c := range clusters {
		out[i] = MarkerClusterResponse{
			Geohash:   c.Geohash,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			Count:     c.Count,
			MarkerIDs: c.MarkerIDs,
		}
	}
	return out
}

func toStatsResponse(stats *domain.CatalogStats) CatalogStatsResponse {
	resp := CatalogStatsResponse{
		Total:       stats.Total,
		Published:   stats.Published,
		ByCategory:  make(map[string]int, len(stats.ByCategory)),
		ByStatus:    make(map[string]int, len(stats.ByStatus)),
		PriceRanges: make([]PriceRangeResponse, len(stats.PriceRanges)),
	}
	for category, count := range stats.ByCategory {
		resp.ByCategory[category.String()] = count
	}
	for status, count := range stats.ByStatus {
		resp.ByStatus[string(status)] = count
	}
	for i, pr := range stats.PriceRanges {
		resp.PriceRanges[i] = PriceRangeResponse{Currency: pr.Currency, Min: pr.Min, Max: pr.Max}
	}
	return resp
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

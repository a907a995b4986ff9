package rest

import (
	"net/http"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

// CatalogHealth - то, что нужно /health от хранилища каталога
type CatalogHealth interface {
	Loaded() bool
	Len() int
}

type CatalogInfoHandler struct {
	getCategoriesUC     usecases_port.GetCategoriesUseCase
	getCatalogStatsUC   usecases_port.GetCatalogStatsUseCase
	getSellerListingsUC usecases_port.GetSellerListingsUseCase
	health              CatalogHealth
}

func NewCatalogInfoHandler(getCategoriesUC usecases_port.GetCategoriesUseCase,
	getCatalogStatsUC usecases_port.GetCatalogStatsUseCase,
	getSellerListingsUC usecases_port.GetSellerListingsUseCase,
	health CatalogHealth) *CatalogInfoHandler {
	return &CatalogInfoHandler{
		getCategoriesUC:     getCategoriesUC,
		getCatalogStatsUC:   getCatalogStatsUC,
		getSellerListingsUC: getSellerListingsUC,
		health:              health,
	}
}

// GetCategories обрабатывает GET /api/v1/dictionaries/categories
func (h *CatalogInfoHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetCategories"})

	items, err := h.getCategoriesUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, handlerLogger, err, "Failed to retrieve categories")
		return
	}

	response := make([]DictionaryItemResponse, len(items))
	for i, item := range items {
		response[i] = DictionaryItemResponse{SystemName: item.SystemName, DisplayName: item.DisplayName}
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// GetStats обрабатывает GET /api/v1/stats
func (h *CatalogInfoHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetStats"})

	stats, err := h.getCatalogStatsUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, handlerLogger, err, "Failed to retrieve catalog stats")
		return
	}
	RespondWithJSON(w, http.StatusOK, toStatsResponse(stats))
}

// GetSellerListings обрабатывает GET /api/v1/seller/listings?status=
func (h *CatalogInfoHandler) GetSellerListings(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetSellerListings"})

	// без status отдаем все объявления
	var status domain.ListingStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, ok := domain.ParseListingStatus(raw)
		if !ok {
			handlerLogger.Warn("Unknown listing status", port.Fields{"status": raw})
			WriteJSONError(w, http.StatusBadRequest, "status must be one of pending, active, sold")
			return
		}
		status = parsed
	}

	records, err := h.getSellerListingsUC.Execute(r.Context(), status)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err, "Failed to retrieve seller listings")
		return
	}

	response := make([]ListingDetailsResponse, len(records))
	for i, record := range records {
		response[i] = toDetailsResponse(record)
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// Health обрабатывает GET /health
func (h *CatalogInfoHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       "ok",
		CatalogReady: h.health.Loaded(),
		CatalogSize:  h.health.Len(),
	}
	code := http.StatusOK
	if !response.CatalogReady {
		response.Status = "loading"
		code = http.StatusServiceUnavailable
	}
	RespondWithJSON(w, code, response)
}

package rest

import (
	"encoding/json"
	"net/http"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

const maxSubmitBodyBytes = 1 << 20

type ListingsHandler struct {
	findListingsUC      usecases_port.FindListingsUseCase
	getListingDetailsUC usecases_port.GetListingDetailsUseCase
	submitListingUC     usecases_port.SubmitListingUseCase
}

func NewListingsHandler(findListingsUC usecases_port.FindListingsUseCase,
	getListingDetailsUC usecases_port.GetListingDetailsUseCase,
	submitListingUC usecases_port.SubmitListingUseCase) *ListingsHandler {
	return &ListingsHandler{
		findListingsUC:      findListingsUC,
		getListingDetailsUC: getListingDetailsUC,
		submitListingUC:     submitListingUC,
	}
}

// FindListings обрабатывает GET /api/v1/listings
func (h *ListingsHandler) FindListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "FindListings"})

	query := r.URL.Query()
	state, err := parseFilterState(query)
	if err != nil {
		writeUseCaseError(w, logger, err, "")
		return
	}
	page, perPage := parsePagination(query)

	handlerLogger := logger.WithFields(port.Fields{
		"page":     page,
		"per_page": perPage,
	})
	handlerLogger.Debug("Processing request to find listings", nil)

	result, err := h.findListingsUC.Execute(r.Context(), state, perPage, (page-1)*perPage)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err, "Failed to retrieve listings")
		return
	}

	response := PaginatedListingsResponse{
		Total:   result.TotalCount,
		Page:    result.CurrentPage,
		PerPage: result.ItemsPerPage,
		Data:    make([]ListingCardResponse, len(result.Listings)),
	}
	for i, l := range result.Listings {
		response.Data[i] = toCardResponse(l)
	}
	if result.TotalCount == 0 {
		response.EmptyMessage = domain.EmptyResultMessage
	}

	RespondWithJSON(w, http.StatusOK, response)
}

// GetListingDetails обрабатывает GET /api/v1/listings/{listingID}
func (h *ListingsHandler) GetListingDetails(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingID")
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":    "GetListingDetails",
		"listing_id": listingID,
	})
	handlerLogger.Debug("Processing request to get listing details", nil)

	record, err := h.getListingDetailsUC.Execute(r.Context(), listingID)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err, "Failed to retrieve listing")
		return
	}

	RespondWithJSON(w, http.StatusOK, toDetailsResponse(*record))
}

// SubmitListing обрабатывает POST /api/v1/listings
func (h *ListingsHandler) SubmitListing(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubmitListing"})

	var req SubmitListingRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmitBodyBytes)).Decode(&req); err != nil {
		handlerLogger.Warn("Invalid request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.submitListingUC.Execute(r.Context(), req.toDomain())
	if err != nil {
		writeUseCaseError(w, handlerLogger, err, "Failed to submit listing")
		return
	}

	handlerLogger.Info("Listing submitted for verification", port.Fields{"listing_id": record.Listing.ID})
	RespondWithJSON(w, http.StatusCreated, toDetailsResponse(*record))
}

package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
	// maxPage * maxPerPage помещается в int даже на 32-битных платформах
	maxPage = 1_000_000
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}

// parsePagination читает page/perPage. Кривые значения заменяются дефолтами,
// слишком большой номер страницы прижимается к maxPage.
func parsePagination(query url.Values) (page, perPage int) {
	page, err := strconv.Atoi(query.Get("page"))
	switch {
	case errors.Is(err, strconv.ErrRange) && page > 0, err == nil && page > maxPage:
		page = maxPage
	case err != nil || page < 1:
		page = 1
	}
	perPage, err = strconv.Atoi(query.Get("perPage"))
	if err != nil || perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}
	return page, perPage
}

// parseFilterState собирает состояние фильтра из query. Запрос q не триммится,
// пустая строка и одни пробелы фильтр не включают.
func parseFilterState(query url.Values) (domain.FilterState, error) {
	category, err := domain.ParseCategory(query.Get("category"))
	if err != nil {
		return domain.FilterState{}, err
	}
	return domain.FilterState{
		ActiveCategory: category,
		SearchQuery:    query.Get("q"),
	}, nil
}

// writeUseCaseError переводит доменные ошибки в HTTP-статус
func writeUseCaseError(w http.ResponseWriter, logger port.LoggerPort, err error, fallbackMessage string) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		logger.Warn("Request rejected by validation", port.Fields{"field": vErr.Field, "reason": vErr.Reason})
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: vErr.Error(), Field: vErr.Field})
	case errors.Is(err, domain.ErrUnknownCategory):
		logger.Warn("Unknown category requested", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidListing):
		logger.Warn("Invalid listing", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrListingNotFound):
		logger.Info("Listing not found", nil)
		WriteJSONError(w, http.StatusNotFound, "Listing not found")
	case errors.Is(err, domain.ErrCatalogNotLoaded):
		logger.Warn("Catalog is not loaded yet", nil)
		WriteJSONError(w, http.StatusServiceUnavailable, "Catalog is not loaded yet")
	default:
		logger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, fallbackMessage)
	}
}

// Package engine - движок фильтрации каталога (ListingFilterEngine).
// Чистые функции над срезами: без I/O, без логирования, без общего состояния.
// Каталог на входе никогда не изменяется.
package engine

import (
	"strings"

	"listing-service/internal/core/domain"
)

// ComputeVisible возвращает упорядоченное подмножество каталога под текущий FilterState.
//
// Сначала фильтр по категории (точное совпадение enum, All пропускает все),
// затем текстовый поиск: запрос в нижнем регистре ищется подстрокой в title или location.
// Относительный порядок каталога сохраняется. Пустой результат - это непустой
// (не nil) срез нулевой длины, чтобы вызывающий мог отличить его от "еще не считали".
func ComputeVisible(catalog []domain.Listing, state domain.FilterState) []domain.Listing {
	query, hasQuery := normalizeQuery(state.SearchQuery)

	visible := make([]domain.Listing, 0, len(catalog))
	for _, listing := range catalog {
		if !matchesCategory(listing, state.ActiveCategory) {
			continue
		}
		if hasQuery && !matchesQuery(listing, query) {
			continue
		}
		visible = append(visible, listing)
	}
	return visible
}

// normalizeQuery: пустой запрос и запрос из одних пробелов - no-op.
// Сам запрос не обрезается, только переводится в нижний регистр.
func normalizeQuery(raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	return strings.ToLower(raw), true
}

func matchesCategory(listing domain.Listing, active domain.Category) bool {
	if active.IsAll() {
		return true
	}
	return listing.Category == active
}

func matchesQuery(listing domain.Listing, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(listing.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(listing.Location), lowerQuery)
}

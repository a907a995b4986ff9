package usecase

import (
	"context"
	"sort"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type GetCatalogStatsUseCase struct {
	catalog port.CatalogReaderPort
}

func NewGetCatalogStatsUseCase(catalog port.CatalogReaderPort) *GetCatalogStatsUseCase {
	return &GetCatalogStatsUseCase{catalog: catalog}
}

// Execute считает сводку по всем записям каталога, не только опубликованным
func (uc *GetCatalogStatsUseCase) Execute(ctx context.Context) (*domain.CatalogStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetCatalogStats",
	})

	ucLogger.Info("Use case started", nil)

	if !uc.catalog.Loaded() {
		return nil, domain.ErrCatalogNotLoaded
	}

	records := uc.catalog.All()
	stats := &domain.CatalogStats{
		Total:       len(records),
		ByCategory:  make(map[domain.Category]int),
		ByStatus:    make(map[domain.ListingStatus]int),
		PriceRanges: []domain.PriceRange{},
	}

	ranges := make(map[string]*domain.PriceRange)
	for _, r := range records {
		if r.IsPublished() {
			stats.Published++
		}
		stats.ByCategory[r.Listing.Category]++

		status := r.Details.Status
		if status == "" {
			status = domain.StatusActive
		}
		stats.ByStatus[status]++

		m := r.Details.Money
		if m == nil {
			continue
		}
		pr, ok := ranges[m.Currency]
		if !ok {
			ranges[m.Currency] = &domain.PriceRange{Currency: m.Currency, Min: m.Amount, Max: m.Amount}
			continue
		}
		if m.Amount < pr.Min {
			pr.Min = m.Amount
		}
		if m.Amount > pr.Max {
			pr.Max = m.Amount
		}
	}

	for _, pr := range ranges {
		stats.PriceRanges = append(stats.PriceRanges, *pr)
	}
	sort.Slice(stats.PriceRanges, func(i, j int) bool {
		return stats.PriceRanges[i].Currency < stats.PriceRanges[j].Currency
	})

	ucLogger.Info("Use case finished successfully", port.Fields{"total": stats.Total, "published": stats.Published})
	return stats, nil
}

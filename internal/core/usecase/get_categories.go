package usecase

import (
	"context"
	"strings"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type GetCategoriesUseCase struct{}

func NewGetCategoriesUseCase() *GetCategoriesUseCase {
	return &GetCategoriesUseCase{}
}

// Execute отдает справочник категорий для чипов фильтра, All всегда первый
func (uc *GetCategoriesUseCase) Execute(ctx context.Context) ([]domain.DictionaryItem, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetCategories",
	})

	ucLogger.Info("Use case started", nil)

	caser := cases.Title(language.English)
	categories := append([]domain.Category{domain.CategoryAll}, domain.KnownCategories()...)

	items := make([]domain.DictionaryItem, 0, len(categories))
	for _, c := range categories {
		systemName := strings.ToLower(c.String())
		items = append(items, domain.DictionaryItem{
			SystemName:  systemName,
			DisplayName: caser.String(systemName),
		})
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"count": len(items)})
	return items, nil
}

package port

import (
	"context"

	"listing-service/internal/core/domain"
)

// CatalogLoaderPort - источник каталога. Возвращает записи в порядке загрузки,
// проверку контракта (id, координаты, категория) делает вызывающий.
type CatalogLoaderPort interface {
	Load(ctx context.Context) ([]domain.ListingRecord, error)
	Name() string
}

// CatalogReaderPort - то, что use case'ы читают из хранилища каталога
type CatalogReaderPort interface {
	// Published возвращает каталог покупателя (active) в порядке загрузки
	Published() []domain.Listing
	// All возвращает все записи, включая pending и sold
	All() []domain.ListingRecord
	Get(id string) (domain.ListingRecord, bool)
	Loaded() bool
}

// CatalogWriterPort - изменения каталога, приходящие извне (события, новые объявления)
type CatalogWriterPort interface {
	Upsert(record domain.ListingRecord) (created bool)
	Remove(id string) (removed bool)
}

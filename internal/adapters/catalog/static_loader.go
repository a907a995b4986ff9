package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"listing-service/internal/contextkeys"
	"listing-service/internal/contracts"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

//go:embed seed/listings.json
var seedListings []byte

// StaticLoader отдает каталог из JSON, по умолчанию из вшитого сида
type StaticLoader struct {
	data []byte
}

var _ port.CatalogLoaderPort = (*StaticLoader)(nil)

func NewStaticLoader() *StaticLoader {
	return &StaticLoader{data: seedListings}
}

// NewStaticLoaderFromJSON - загрузчик поверх произвольного JSON-массива записей
func NewStaticLoaderFromJSON(data []byte) *StaticLoader {
	return &StaticLoader{data: data}
}

func (l *StaticLoader) Name() string { return "static" }

// Load проверяет каждую запись по схеме listing/v1.json.
// Записи, не прошедшие схему, пропускаются с предупреждением.
func (l *StaticLoader) Load(ctx context.Context) ([]domain.ListingRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "StaticLoader",
	})

	var raw []json.RawMessage
	if err := json.Unmarshal(l.data, &raw); err != nil {
		return nil, fmt.Errorf("static catalog is not a JSON array: %w", err)
	}

	records := make([]domain.ListingRecord, 0, len(raw))
	for i, item := range raw {
		if err := contracts.Validate(contracts.ListingSchemaKey, item); err != nil {
			logger.Warn("Static catalog entry failed schema validation", port.Fields{"position": i, "error": err.Error()})
			continue
		}

		var dto ListingRecordDTO
		if err := json.Unmarshal(item, &dto); err != nil {
			logger.Warn("Static catalog entry could not be decoded", port.Fields{"position": i, "error": err.Error()})
			continue
		}
		record, err := dto.ToDomain()
		if err != nil {
			logger.Warn("Static catalog entry could not be mapped", port.Fields{"position": i, "error": err.Error()})
			continue
		}
		records = append(records, record)
	}

	logger.Info("Static catalog loaded", port.Fields{"count": len(records)})
	return records, nil
}

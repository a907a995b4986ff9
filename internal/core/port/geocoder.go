package port

import (
	"context"

	"listing-service/internal/core/domain"
)

// GeocoderPort превращает текстовый адрес в координаты.
// Если адрес не найден, возвращает nil без ошибки.
type GeocoderPort interface {
	Geocode(ctx context.Context, location string) (*domain.Coordinates, error)
}

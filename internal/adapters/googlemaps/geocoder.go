package googlemaps

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"googlemaps.github.io/maps"
)

// geocodingClient - то, что адаптеру нужно от maps.Client
type geocodingClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

var _ geocodingClient = (*maps.Client)(nil)

// Geocoder - адаптер GeocoderPort поверх Google Geocoding API
type Geocoder struct {
	client     geocodingClient
	region     string
	maxRetries int
	backoff    time.Duration
}

var _ port.GeocoderPort = (*Geocoder)(nil)

// NewGeocoder создает клиент Google Maps. region - ccTLD для приоритета результатов ("ng").
func NewGeocoder(apiKey, region string) (*Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Maps client: %w", err)
	}
	return newGeocoder(client, region), nil
}

func newGeocoder(client geocodingClient, region string) *Geocoder {
	return &Geocoder{
		client:     client,
		region:     region,
		maxRetries: 3,
		backoff:    time.Second,
	}
}

// Geocode возвращает координаты первого результата или nil, если адрес не найден
func (g *Geocoder) Geocode(ctx context.Context, location string) (*domain.Coordinates, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "GoogleMapsGeocoder",
		"location":  location,
	})

	if strings.TrimSpace(location) == "" {
		return nil, nil
	}

	var results []maps.GeocodingResult
	err := g.retry(ctx, func() error {
		r, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
			Address: location,
			Region:  g.region,
		})
		if err != nil {
			return err
		}
		results = r
		return nil
	})
	if err != nil {
		logger.Error("Geocoding failed", err, nil)
		return nil, fmt.Errorf("geocoding %q failed: %w", location, err)
	}

	if len(results) == 0 {
		logger.Info("Location not found", nil)
		return nil, nil
	}

	point := results[0].Geometry.Location
	logger.Debug("Location resolved", port.Fields{"lat": point.Lat, "lng": point.Lng})
	return &domain.Coordinates{Latitude: point.Lat, Longitude: point.Lng}, nil
}

// Статусы Geocoding API, после которых имеет смысл повторить запрос.
// REQUEST_DENIED (в том числе неверный ключ) и INVALID_REQUEST повтором не лечатся.
var transientStatuses = []string{"OVER_QUERY_LIMIT", "UNKNOWN_ERROR"}

// isTransient: сетевые сбои и временные статусы API. Ошибки контекста не повторяются.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	for _, status := range transientStatuses {
		if strings.Contains(msg, status) {
			return true
		}
	}
	return false
}

// retry повторяет операцию с линейной паузой, пока ошибка временная.
// Отмена контекста прерывает ожидание.
func (g *Geocoder) retry(ctx context.Context, operation func() error) error {
	var err error
	for i := 0; i < g.maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if !isTransient(err) || i == g.maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i+1) * g.backoff):
		}
	}
	return err
}

package engine

import (
	"math"

	"listing-service/internal/core/domain"
)

const (
	regionPadding  = 1.2
	minRegionDelta = 0.01
)

// ToMapMarkers проецирует видимые объявления в маркеры: один к одному, тот же порядок,
// без дедупликации (совпадающие координаты дают перекрывающиеся маркеры).
func ToMapMarkers(visible []domain.Listing) []domain.MapMarker {
	markers := make([]domain.MapMarker, len(visible))
	for i, listing := range visible {
		markers[i] = domain.MapMarker{
			ID:        listing.ID,
			Title:     listing.Title,
			Price:     listing.Price,
			Latitude:  listing.Coordinates.Latitude,
			Longitude: listing.Coordinates.Longitude,
		}
	}
	return markers
}

// RegionFor подбирает область карты, в которую помещаются все маркеры.
// Без маркеров возвращается fallback.
func RegionFor(markers []domain.MapMarker, fallback domain.MapRegion) domain.MapRegion {
	if len(markers) == 0 {
		return fallback
	}

	minLat, maxLat := markers[0].Latitude, markers[0].Latitude
	minLon, maxLon := markers[0].Longitude, markers[0].Longitude
	for _, m := range markers[1:] {
		minLat = math.Min(minLat, m.Latitude)
		maxLat = math.Max(maxLat, m.Latitude)
		minLon = math.Min(minLon, m.Longitude)
		maxLon = math.Max(maxLon, m.Longitude)
	}

	return domain.MapRegion{
		Latitude:       (minLat + maxLat) / 2,
		Longitude:      (minLon + maxLon) / 2,
		LatitudeDelta:  math.Max((maxLat-minLat)*regionPadding, minRegionDelta),
		LongitudeDelta: math.Max((maxLon-minLon)*regionPadding, minRegionDelta),
	}
}

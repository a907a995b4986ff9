package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-service/internal/core/domain"
)

func TestToMapMarkers(t *testing.T) {
	visible := scenarioCatalog()

	markers := ToMapMarkers(visible)

	require.Len(t, markers, len(visible))
	for i := range visible {
		assert.Equal(t, visible[i].ID, markers[i].ID)
	}
	assert.Equal(t, domain.MapMarker{
		ID: "1", Title: "Modern Villa", Price: "₦120,000,000", Latitude: 6.45, Longitude: 3.45,
	}, markers[0])
}

func TestToMapMarkers_KeepsDuplicateCoordinates(t *testing.T) {
	same := domain.Coordinates{Latitude: 6.6, Longitude: 3.35}
	visible := []domain.Listing{
		{ID: "a", Coordinates: same},
		{ID: "b", Coordinates: same},
	}

	markers := ToMapMarkers(visible)
	assert.Len(t, markers, 2)
	assert.Equal(t, "a", markers[0].ID)
	assert.Equal(t, "b", markers[1].ID)
}

func TestToMapMarkers_Empty(t *testing.T) {
	markers := ToMapMarkers([]domain.Listing{})
	require.NotNil(t, markers)
	assert.Empty(t, markers)
}

func TestRegionFor(t *testing.T) {
	assert.Equal(t, domain.DefaultMapRegion, RegionFor(nil, domain.DefaultMapRegion))

	region := RegionFor(ToMapMarkers(scenarioCatalog()), domain.DefaultMapRegion)
	assert.InDelta(t, 6.46, region.Latitude, 1e-9)
	assert.InDelta(t, 3.525, region.Longitude, 1e-9)
	assert.InDelta(t, 0.024, region.LatitudeDelta, 1e-9)
	assert.InDelta(t, 0.18, region.LongitudeDelta, 1e-9)

	single := RegionFor([]domain.MapMarker{{Latitude: 6.6, Longitude: 3.35}}, domain.DefaultMapRegion)
	assert.Equal(t, minRegionDelta, single.LatitudeDelta)
	assert.Equal(t, minRegionDelta, single.LongitudeDelta)
}

func TestClusterMarkers(t *testing.T) {
	markers := []domain.MapMarker{
		{ID: "1", Latitude: 6.4500, Longitude: 3.4500},
		{ID: "2", Latitude: 6.4700, Longitude: 3.6000},
		{ID: "3", Latitude: 6.4501, Longitude: 3.4501},
	}

	clusters := ClusterMarkers(markers, 5)

	require.Len(t, clusters, 2)
	assert.Equal(t, []string{"1", "3"}, clusters[0].MarkerIDs)
	assert.Equal(t, 2, clusters[0].Count)
	assert.Len(t, clusters[0].Geohash, 5)
	assert.InDelta(t, 6.45005, clusters[0].Latitude, 1e-9)
	assert.Equal(t, []string{"2"}, clusters[1].MarkerIDs)
}

func TestClusterMarkers_PrecisionIsClamped(t *testing.T) {
	markers := []domain.MapMarker{{ID: "1", Latitude: 6.45, Longitude: 3.45}}

	assert.Len(t, ClusterMarkers(markers, 0)[0].Geohash, int(MinClusterPrecision))
	assert.Len(t, ClusterMarkers(markers, 40)[0].Geohash, int(MaxClusterPrecision))
}

func TestClusterMarkers_Empty(t *testing.T) {
	clusters := ClusterMarkers(nil, DefaultClusterPrecision)
	require.NotNil(t, clusters)
	assert.Empty(t, clusters)
}

package engine

import (
	"github.com/mmcloughlin/geohash"

	"listing-service/internal/core/domain"
)

const (
	MinClusterPrecision     uint = 1
	MaxClusterPrecision     uint = 12
	DefaultClusterPrecision uint = 6 // ячейка ~1.2 x 0.6 км
)

// ClusterMarkers группирует маркеры по ячейке geohash заданной точности.
// Порядок кластеров - порядок первого появления ячейки во входном срезе,
// центр кластера - среднее координат его маркеров. Обычный линейный проход, без индекса.
func ClusterMarkers(markers []domain.MapMarker, precision uint) []domain.MarkerCluster {
	precision = clampPrecision(precision)

	clusters := make([]domain.MarkerCluster, 0)
	byCell := make(map[string]int)
	sums := make([][2]float64, 0)

	for _, m := range markers {
		cell := geohash.EncodeWithPrecision(m.Latitude, m.Longitude, precision)

		idx, ok := byCell[cell]
		if !ok {
			idx = len(clusters)
			byCell[cell] = idx
			clusters = append(clusters, domain.MarkerCluster{Geohash: cell})
			sums = append(sums, [2]float64{})
		}

		clusters[idx].Count++
		clusters[idx].MarkerIDs = append(clusters[idx].MarkerIDs, m.ID)
		sums[idx][0] += m.Latitude
		sums[idx][1] += m.Longitude
	}

	for i := range clusters {
		n := float64(clusters[i].Count)
		clusters[i].Latitude = sums[i][0] / n
		clusters[i].Longitude = sums[i][1] / n
	}
	return clusters
}

func clampPrecision(p uint) uint {
	if p < MinClusterPrecision {
		return MinClusterPrecision
	}
	if p > MaxClusterPrecision {
		return MaxClusterPrecision
	}
	return p
}

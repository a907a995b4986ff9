package domain

// MapMarker - урезанная проекция объявления для карты
type MapMarker struct {
	ID        string
	Title     string
	Price     string
	Latitude  float64
	Longitude float64
}

// MarkerCluster - группа маркеров, попавших в одну ячейку geohash
type MarkerCluster struct {
	Geohash   string
	Latitude  float64
	Longitude float64
	Count     int
	MarkerIDs []string
}

// MapRegion - видимая область карты: центр и размах по осям
type MapRegion struct {
	Latitude       float64
	Longitude      float64
	LatitudeDelta  float64
	LongitudeDelta float64
}

// DefaultMapRegion - Лагос, стартовая область карты
var DefaultMapRegion = MapRegion{
	Latitude:       6.5244,
	Longitude:      3.3792,
	LatitudeDelta:  0.0922,
	LongitudeDelta: 0.0421,
}

// MapView - то, что получает рендерер карты
type MapView struct {
	Region  MapRegion
	Markers []MapMarker
}

package domain

// Coordinates - точка в градусах WGS 84
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Valid проверяет диапазоны широты и долготы
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Listing - один объект в каталоге. Это то, что видит движок фильтрации.
type Listing struct {
	ID          string
	Title       string
	Price       string // Строка для отображения, в вычислениях не участвует
	Location    string
	Category    Category
	Coordinates Coordinates
	ImageURL    string
}

// Validate проверяет контракт загрузчика каталога.
// Неизвестная категория тоже считается ошибкой: такой объект не найдется ни одним фильтром, кроме All.
func (l Listing) Validate() error {
	if l.ID == "" {
		return NewValidationError("id", "must not be empty")
	}
	if !l.Coordinates.Valid() {
		return NewValidationError("coordinates", "latitude must be in -90..90 and longitude in -180..180")
	}
	if !l.Category.IsKnown() {
		return NewValidationError("category", "unknown category "+string(l.Category))
	}
	return nil
}

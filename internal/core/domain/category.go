package domain

import (
	"fmt"
	"strings"
)

// Category - тип объекта недвижимости. Закрытый набор значений,
// строки извне превращаются в Category только через ParseCategory.
type Category string

const (
	// CategoryAll - сентинел "без фильтра по категории"
	CategoryAll        Category = "All"
	CategoryHouse      Category = "House"
	CategoryLand       Category = "Land"
	CategoryShortlet   Category = "Shortlet"
	CategoryCommercial Category = "Commercial"
)

var knownCategories = []Category{
	CategoryHouse,
	CategoryLand,
	CategoryShortlet,
	CategoryCommercial,
}

// KnownCategories возвращает копию списка категорий в порядке отображения
func KnownCategories() []Category {
	out := make([]Category, len(knownCategories))
	copy(out, knownCategories)
	return out
}

// IsKnown сообщает, входит ли категория в закрытый набор (сентинел All не входит)
func (c Category) IsKnown() bool {
	for _, known := range knownCategories {
		if c == known {
			return true
		}
	}
	return false
}

// IsAll - true для сентинела All и для нулевого значения
func (c Category) IsAll() bool {
	return c == CategoryAll || c == ""
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory разбирает имя категории без учета регистра.
// Пустая строка и "all" дают CategoryAll.
func ParseCategory(raw string) (Category, error) {
	name := strings.TrimSpace(raw)
	if name == "" || strings.EqualFold(name, string(CategoryAll)) {
		return CategoryAll, nil
	}
	for _, known := range knownCategories {
		if strings.EqualFold(name, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
}

package domain

// FilterState - текущий выбор пользователя. Живет один запрос, передается по значению.
type FilterState struct {
	ActiveCategory Category
	SearchQuery    string
}

// NoFilter - состояние, при котором движок возвращает каталог как есть
func NoFilter() FilterState {
	return FilterState{ActiveCategory: CategoryAll}
}

// EmptyResultMessage показывается клиенту, когда фильтр ничего не нашел
const EmptyResultMessage = "No properties found matching your search."

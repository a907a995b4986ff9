package catalog

import (
	"sync"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

// Store - хранилище каталога в памяти. Снимок никогда не меняется на месте:
// каждая запись строит новый срез и подменяет его под мьютексом.
type Store struct {
	mu      sync.RWMutex
	records []domain.ListingRecord
	index   map[string]int
	loaded  bool
}

var (
	_ port.CatalogReaderPort = (*Store)(nil)
	_ port.CatalogWriterPort = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{index: map[string]int{}}
}

// Replace подменяет весь каталог. Записи должны быть уже очищены Sanitize.
func (s *Store) Replace(records []domain.ListingRecord) {
	snapshot := make([]domain.ListingRecord, len(records))
	copy(snapshot, records)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = snapshot
	s.index = buildIndex(snapshot)
	s.loaded = true
}

// Upsert заменяет запись с тем же id на ее месте или добавляет новую в конец
func (s *Store) Upsert(record domain.ListingRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[record.Listing.ID]; ok {
		snapshot := make([]domain.ListingRecord, len(s.records))
		copy(snapshot, s.records)
		snapshot[i] = record
		s.records = snapshot
		return false
	}

	snapshot := make([]domain.ListingRecord, len(s.records), len(s.records)+1)
	copy(snapshot, s.records)
	snapshot = append(snapshot, record)
	s.records = snapshot
	s.index[record.Listing.ID] = len(snapshot) - 1
	return true
}

// Remove удаляет запись, порядок остальных сохраняется
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	snapshot := make([]domain.ListingRecord, 0, len(s.records)-1)
	snapshot = append(snapshot, s.records[:i]...)
	snapshot = append(snapshot, s.records[i+1:]...)
	s.records = snapshot
	s.index = buildIndex(snapshot)
	return true
}

// Published - каталог покупателя: только опубликованные объекты, в порядке загрузки
func (s *Store) Published() []domain.Listing {
	s.mu.RLock()
	records := s.records
	s.mu.RUnlock()

	out := make([]domain.Listing, 0, len(records))
	for _, r := range records {
		if r.IsPublished() {
			out = append(out, r.Listing)
		}
	}
	return out
}

func (s *Store) All() []domain.ListingRecord {
	s.mu.RLock()
	records := s.records
	s.mu.RUnlock()

	out := make([]domain.ListingRecord, len(records))
	copy(out, records)
	return out
}

func (s *Store) Get(id string) (domain.ListingRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.ListingRecord{}, false
	}
	return s.records[i], true
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func buildIndex(records []domain.ListingRecord) map[string]int {
	index := make(map[string]int, len(records))
	for i, r := range records {
		index[r.Listing.ID] = i
	}
	return index
}

package usecase

import (
	"context"
	"errors"

	"listing-service/internal/core/domain"
)

// fakeCatalog - упрощенное хранилище для тестов use case'ов
type fakeCatalog struct {
	records []domain.ListingRecord
	loaded  bool
}

func newFakeCatalog(records ...domain.ListingRecord) *fakeCatalog {
	return &fakeCatalog{records: records, loaded: true}
}

func (f *fakeCatalog) Published() []domain.Listing {
	out := []domain.Listing{}
	for _, r := range f.records {
		if r.IsPublished() {
			out = append(out, r.Listing)
		}
	}
	return out
}

func (f *fakeCatalog) All() []domain.ListingRecord { return f.records }

func (f *fakeCatalog) Get(id string) (domain.ListingRecord, bool) {
	for _, r := range f.records {
		if r.Listing.ID == id {
			return r, true
		}
	}
	return domain.ListingRecord{}, false
}

func (f *fakeCatalog) Loaded() bool { return f.loaded }

func (f *fakeCatalog) Upsert(record domain.ListingRecord) bool {
	for i, r := range f.records {
		if r.Listing.ID == record.Listing.ID {
			f.records[i] = record
			return false
		}
	}
	f.records = append(f.records, record)
	return true
}

func (f *fakeCatalog) Remove(id string) bool {
	for i, r := range f.records {
		if r.Listing.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return true
		}
	}
	return false
}

type fakePublisher struct {
	published []domain.ListingRecord
	err       error
}

func (f *fakePublisher) PublishUpserted(_ context.Context, record domain.ListingRecord) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, record)
	return nil
}

type fakeGeocoder struct {
	coords *domain.Coordinates
	err    error
	calls  int
}

func (f *fakeGeocoder) Geocode(context.Context, string) (*domain.Coordinates, error) {
	f.calls++
	return f.coords, f.err
}

var errBroker = errors.New("broker unavailable")

func seedRecords() []domain.ListingRecord {
	return []domain.ListingRecord{
		{
			Listing: domain.Listing{ID: "1", Title: "Modern 4-Bedroom Villa", Price: "₦120,000,000",
				Location: "Lekki Phase 1, Lagos", Category: domain.CategoryHouse,
				Coordinates: domain.Coordinates{Latitude: 6.45, Longitude: 3.45}},
			Details: domain.ListingDetails{Status: domain.StatusActive,
				Money: &domain.Money{Amount: 120000000, Currency: "NGN"}},
		},
		{
			Listing: domain.Listing{ID: "2", Title: "Premium 600sqm Land", Price: "₦45,000,000",
				Location: "Sangotedo, Ajah", Category: domain.CategoryLand,
				Coordinates: domain.Coordinates{Latitude: 6.47, Longitude: 3.60}},
			Details: domain.ListingDetails{Status: domain.StatusActive,
				Money: &domain.Money{Amount: 45000000, Currency: "NGN"}},
		},
		{
			Listing: domain.Listing{ID: "3", Title: "Serviced Apartment", Price: "₦2,500,000 /yr",
				Location: "Ikeja Gra, Lagos", Category: domain.CategoryShortlet,
				Coordinates: domain.Coordinates{Latitude: 6.60, Longitude: 3.35}},
			Details: domain.ListingDetails{
				Money: &domain.Money{Amount: 2500000, Currency: "NGN"}},
		},
		{
			Listing: domain.Listing{ID: "4", Title: "Corner Piece Land", Price: "$30,000",
				Location: "Sangotedo, Ajah", Category: domain.CategoryLand,
				Coordinates: domain.Coordinates{Latitude: 6.4685, Longitude: 3.5921}},
			Details: domain.ListingDetails{Status: domain.StatusPending,
				Money: &domain.Money{Amount: 30000, Currency: "USD"}},
		},
	}
}

func ids(listings []domain.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-service/internal/core/domain"
)

func TestFindListings(t *testing.T) {
	uc := NewFindListingsUseCase(newFakeCatalog(seedRecords()...))
	ctx := context.Background()

	res, err := uc.Execute(ctx, domain.FilterState{ActiveCategory: domain.CategoryLand}, 20, 0)
	require.NoError(t, err)
	// pending "4" в каталог покупателя не попадает
	assert.Equal(t, []string{"2"}, ids(res.Listings))
	assert.Equal(t, 1, res.TotalCount)

	res, err = uc.Execute(ctx, domain.FilterState{ActiveCategory: domain.CategoryHouse, SearchQuery: "ajah"}, 20, 0)
	require.NoError(t, err)
	require.NotNil(t, res.Listings)
	assert.Empty(t, res.Listings)
	assert.Equal(t, 0, res.TotalCount)
}

func TestFindListings_Pagination(t *testing.T) {
	uc := NewFindListingsUseCase(newFakeCatalog(seedRecords()...))
	ctx := context.Background()

	res, err := uc.Execute(ctx, domain.NoFilter(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(res.Listings))
	assert.Equal(t, 3, res.TotalCount)
	assert.Equal(t, 2, res.CurrentPage)
	assert.Equal(t, 2, res.ItemsPerPage)

	res, err = uc.Execute(ctx, domain.NoFilter(), 2, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Listings)
	assert.Equal(t, 3, res.TotalCount)
}

func TestFindListings_NotLoaded(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.loaded = false

	_, err := NewFindListingsUseCase(catalog).Execute(context.Background(), domain.NoFilter(), 20, 0)
	assert.ErrorIs(t, err, domain.ErrCatalogNotLoaded)
}

func TestGetMapMarkers(t *testing.T) {
	uc := NewGetMapMarkersUseCase(newFakeCatalog(seedRecords()...), domain.DefaultMapRegion)

	view, err := uc.Execute(context.Background(), domain.FilterState{ActiveCategory: domain.CategoryAll, SearchQuery: "lagos"})
	require.NoError(t, err)
	require.Len(t, view.Markers, 2)
	assert.Equal(t, "1", view.Markers[0].ID)
	assert.Equal(t, "3", view.Markers[1].ID)
	assert.InDelta(t, 6.525, view.Region.Latitude, 1e-9)

	view, err = uc.Execute(context.Background(), domain.FilterState{SearchQuery: "nowhere"})
	require.NoError(t, err)
	assert.Empty(t, view.Markers)
	assert.Equal(t, domain.DefaultMapRegion, view.Region)
}

func TestGetMarkerClusters(t *testing.T) {
	uc := NewGetMarkerClustersUseCase(newFakeCatalog(seedRecords()...))

	clusters, err := uc.Execute(context.Background(), domain.NoFilter(), 1)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, 3, clusters[0].Count)
	assert.Equal(t, []string{"1", "2", "3"}, clusters[0].MarkerIDs)
}

func TestGetListingDetails(t *testing.T) {
	uc := NewGetListingDetailsUseCase(newFakeCatalog(seedRecords()...))

	record, err := uc.Execute(context.Background(), "4")
	require.NoError(t, err)
	assert.Equal(t, "Corner Piece Land", record.Listing.Title)

	_, err = uc.Execute(context.Background(), "404")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestGetCategories(t *testing.T) {
	items, err := NewGetCategoriesUseCase().Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 5)
	assert.Equal(t, domain.DictionaryItem{SystemName: "all", DisplayName: "All"}, items[0])
	assert.Equal(t, domain.DictionaryItem{SystemName: "shortlet", DisplayName: "Shortlet"}, items[3])
}

func TestGetCatalogStats(t *testing.T) {
	stats, err := NewGetCatalogStatsUseCase(newFakeCatalog(seedRecords()...)).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Published)
	assert.Equal(t, 2, stats.ByCategory[domain.CategoryLand])
	assert.Equal(t, 3, stats.ByStatus[domain.StatusActive])
	assert.Equal(t, 1, stats.ByStatus[domain.StatusPending])
	assert.Equal(t, []domain.PriceRange{
		{Currency: "NGN", Min: 2500000, Max: 120000000},
		{Currency: "USD", Min: 30000, Max: 30000},
	}, stats.PriceRanges)
}

func TestGetSellerListings(t *testing.T) {
	uc := NewGetSellerListingsUseCase(newFakeCatalog(seedRecords()...))

	all, err := uc.Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	pending, err := uc.Execute(context.Background(), domain.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "4", pending[0].Listing.ID)

	active, err := uc.Execute(context.Background(), domain.StatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 3)

	sold, err := uc.Execute(context.Background(), domain.StatusSold)
	require.NoError(t, err)
	assert.Empty(t, sold)
}

func validSubmission() domain.SubmitListingRequest {
	return domain.SubmitListingRequest{
		Title:       "  Duplex in Ikoyi ",
		Price:       "₦250M",
		Location:    "Ikoyi, Lagos",
		Category:    "house",
		Coordinates: &domain.Coordinates{Latitude: 6.45, Longitude: 3.43},
		Images:      []string{"https://images.example/duplex.jpg"},
	}
}

func TestSubmitListing_StoresDirectlyWithoutBroker(t *testing.T) {
	catalog := newFakeCatalog()
	uc := NewSubmitListingUseCase(catalog, nil, nil)

	record, err := uc.Execute(context.Background(), validSubmission())
	require.NoError(t, err)

	assert.NotEmpty(t, record.Listing.ID)
	assert.Equal(t, "Duplex in Ikoyi", record.Listing.Title)
	assert.Equal(t, domain.CategoryHouse, record.Listing.Category)
	assert.Equal(t, domain.StatusPending, record.Details.Status)
	assert.Equal(t, "https://images.example/duplex.jpg", record.Listing.ImageURL)
	require.NotNil(t, record.Details.Money)
	assert.Equal(t, int64(250000000), record.Details.Money.Amount)

	require.Len(t, catalog.records, 1)
	assert.Empty(t, catalog.Published())
}

func TestSubmitListing_PublishesWhenBrokerEnabled(t *testing.T) {
	catalog := newFakeCatalog()
	publisher := &fakePublisher{}
	uc := NewSubmitListingUseCase(catalog, publisher, nil)

	_, err := uc.Execute(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Len(t, publisher.published, 1)
	assert.Empty(t, catalog.records)

	publisher.err = errBroker
	_, err = uc.Execute(context.Background(), validSubmission())
	assert.ErrorIs(t, err, errBroker)
}

func TestSubmitListing_DefaultsAndValidation(t *testing.T) {
	uc := NewSubmitListingUseCase(newFakeCatalog(), nil, nil)
	ctx := context.Background()

	req := validSubmission()
	req.Category = ""
	record, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryLand, record.Listing.Category)

	cases := map[string]func(*domain.SubmitListingRequest){
		"title":       func(r *domain.SubmitListingRequest) { r.Title = " " },
		"price":       func(r *domain.SubmitListingRequest) { r.Price = "" },
		"category":    func(r *domain.SubmitListingRequest) { r.Category = "All" },
		"coordinates": func(r *domain.SubmitListingRequest) { r.Coordinates = nil },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			req := validSubmission()
			mutate(&req)

			_, err := uc.Execute(ctx, req)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, field, vErr.Field)
		})
	}

	req = validSubmission()
	req.Coordinates = &domain.Coordinates{Latitude: 91, Longitude: 3}
	_, err = uc.Execute(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidListing)
}

func TestSubmitListing_Geocoding(t *testing.T) {
	geocoder := &fakeGeocoder{coords: &domain.Coordinates{Latitude: 6.44, Longitude: 3.42}}
	uc := NewSubmitListingUseCase(newFakeCatalog(), nil, geocoder)

	req := validSubmission()
	req.Coordinates = nil
	record, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 6.44, record.Listing.Coordinates.Latitude)
	assert.Equal(t, 1, geocoder.calls)

	geocoder.coords = nil
	_, err = uc.Execute(context.Background(), req)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "location", vErr.Field)
}

func TestApplyListingEvent(t *testing.T) {
	catalog := newFakeCatalog(seedRecords()...)
	uc := NewApplyListingEventUseCase(catalog)
	ctx := context.Background()

	updated := seedRecords()[3]
	updated.Details.Status = domain.StatusActive
	require.NoError(t, uc.Upsert(ctx, updated))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(catalog.Published()))

	broken := seedRecords()[0]
	broken.Listing.Category = "Castle"
	assert.ErrorIs(t, uc.Upsert(ctx, broken), domain.ErrInvalidListing)

	require.NoError(t, uc.Remove(ctx, "2"))
	require.NoError(t, uc.Remove(ctx, "2"))
	assert.Equal(t, []string{"1", "3", "4"}, ids(catalog.Published()))

	assert.Error(t, uc.Remove(ctx, ""))
}

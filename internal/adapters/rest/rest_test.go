package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-service/internal/adapters/catalog"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/usecase"
)

type nopLogger struct{}

func (nopLogger) Info(string, port.Fields)                 {}
func (nopLogger) Warn(string, port.Fields)                 {}
func (nopLogger) Error(string, error, port.Fields)         {}
func (nopLogger) Debug(string, port.Fields)                {}
func (l nopLogger) WithFields(port.Fields) port.LoggerPort { return l }

type failingFindListings struct{}

func (failingFindListings) Execute(context.Context, domain.FilterState, int, int) (*domain.PaginatedListings, error) {
	return nil, errors.New("boom")
}

// seededStore - встроенный каталог: 1 House, 2 Land, 3 Shortlet опубликованы, 4 Land на проверке
func seededStore(t *testing.T) *catalog.Store {
	t.Helper()
	records, err := catalog.NewStaticLoader().Load(context.Background())
	require.NoError(t, err)

	store := catalog.NewStore()
	store.Replace(catalog.Sanitize(records, nopLogger{}))
	require.Equal(t, 4, store.Len())
	return store
}

func newTestServer(store *catalog.Store) *Server {
	listings := NewListingsHandler(
		usecase.NewFindListingsUseCase(store),
		usecase.NewGetListingDetailsUseCase(store),
		usecase.NewSubmitListingUseCase(store, nil, nil),
	)
	maps := NewMapHandler(
		usecase.NewGetMapMarkersUseCase(store, domain.DefaultMapRegion),
		usecase.NewGetMarkerClustersUseCase(store),
	)
	info := NewCatalogInfoHandler(
		usecase.NewGetCategoriesUseCase(),
		usecase.NewGetCatalogStatsUseCase(store),
		usecase.NewGetSellerListingsUseCase(store),
		store,
	)
	return NewServer("0", []string{"*"}, listings, maps, info, nopLogger{})
}

func doRequest(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func cardIDs(cards []ListingCardResponse) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestFindListings(t *testing.T) {
	srv := newTestServer(seededStore(t))

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"no filter keeps buyer catalog order", "/api/v1/listings", []string{"1", "2", "3"}},
		{"category only, pending is hidden", "/api/v1/listings?category=Land", []string{"2"}},
		{"category is case-insensitive at the boundary", "/api/v1/listings?category=land", []string{"2"}},
		{"search only", "/api/v1/listings?q=ajah", []string{"2"}},
		{"search by title", "/api/v1/listings?category=All&q=VILLA", []string{"1"}},
		{"whitespace query is a no-op", "/api/v1/listings?q=%20%20", []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			resp := decode[PaginatedListingsResponse](t, rec)
			assert.Equal(t, tt.want, cardIDs(resp.Data))
			assert.Equal(t, len(tt.want), resp.Total)
			assert.Empty(t, resp.EmptyMessage)
		})
	}
}

func TestFindListings_EmptyResult(t *testing.T) {
	srv := newTestServer(seededStore(t))

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/listings?category=House&q=ajah", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, rec.Body.String(), `"data":[]`)
	resp := decode[PaginatedListingsResponse](t, rec)
	assert.Equal(t, 0, resp.Total)
	assert.Equal(t, domain.EmptyResultMessage, resp.EmptyMessage)
}

func TestFindListings_Pagination(t *testing.T) {
	srv := newTestServer(seededStore(t))

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/listings?page=2&perPage=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[PaginatedListingsResponse](t, rec)
	assert.Equal(t, []string{"3"}, cardIDs(resp.Data))
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 2, resp.PerPage)
	assert.Equal(t, 3, resp.Total)

	// кривые значения заменяются дефолтами
	rec = doRequest(t, srv, http.MethodGet, "/api/v1/listings?page=-1&perPage=500", "")
	resp = decode[PaginatedListingsResponse](t, rec)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, defaultPerPage, resp.PerPage)

	// страница за концом списка пуста, но фильтр что-то нашел
	rec = doRequest(t, srv, http.MethodGet, "/api/v1/listings?page=9", "")
	resp = decode[PaginatedListingsResponse](t, rec)
	assert.Empty(t, resp.Data)
	assert.Equal(t, 3, resp.Total)
	assert.Empty(t, resp.EmptyMessage)
}

func TestFindListings_HugePageIsEmptyNotFirst(t *testing.T) {
	srv := newTestServer(seededStore(t))

	for _, page := range []string{"9223372036854775807", "99999999999999999999999", "4611686018427387904"} {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/listings?perPage=100&page="+page, "")
		require.Equal(t, http.StatusOK, rec.Code, page)

		resp := decode[PaginatedListingsResponse](t, rec)
		assert.Empty(t, resp.Data, page)
		assert.Equal(t, maxPage, resp.Page, page)
		assert.Equal(t, 3, resp.Total, page)
	}
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		raw      string
		wantPage int
		wantPer  int
	}{
		{raw: "", wantPage: 1, wantPer: defaultPerPage},
		{raw: "page=3&perPage=10", wantPage: 3, wantPer: 10},
		{raw: "page=abc&perPage=0", wantPage: 1, wantPer: defaultPerPage},
		{raw: "page=-99999999999999999999", wantPage: 1, wantPer: defaultPerPage},
		{raw: "page=1000001", wantPage: maxPage, wantPer: defaultPerPage},
		{raw: "page=99999999999999999999", wantPage: maxPage, wantPer: defaultPerPage},
	}
	for _, tc := range cases {
		query, err := url.ParseQuery(tc.raw)
		require.NoError(t, err)

		page, perPage := parsePagination(query)
		assert.Equal(t, tc.wantPage, page, tc.raw)
		assert.Equal(t, tc.wantPer, perPage, tc.raw)
	}
}

func TestFindListings_UnknownCategory(t *testing.T) {
	srv := newTestServer(seededStore(t))

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/listings?category=Hosue", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Error, "unknown category")
}

func TestFindListings_CatalogNotLoaded(t *testing.T) {
	srv := newTestServer(catalog.NewStore())

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/listings", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestFindListings_UseCaseFailure(t *testing.T) {
	store := seededStore(t)
	srv := NewServer("0", nil,
		NewListingsHandler(failingFindListings{}, usecase.NewGetListingDetailsUseCase(store), usecase.NewSubmitListingUseCase(store, nil, nil)),
		NewMapHandler(usecase.NewGetMapMarkersUseCase(store, domain.DefaultMapRegion), usecase.NewGetMarkerClustersUseCase(store)),
		NewCatalogInfoHandler(usecase.NewGetCategoriesUseCase(), usecase.NewGetCatalogStatsUseCase(store), usecase.NewGetSellerListingsUseCase(store), store),
		nopLogger{},
	)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/listings", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to retrieve listings", decode[ErrorResponse](t, rec).Error)
}

func TestGetListingDetails(t *testing.T) {
	srv := newTestServer(seededStore(t))

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/listings/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	details := decode[ListingDetailsResponse](t, rec)
	assert.Equal(t, "1", details.ID)
	assert.Equal(t, "House", details.Category)
	assert.Equal(t, "active", details.Status)
	require.NotNil(t, details.PriceAmount)
	assert.Equal(t, MoneyDTO{Amount: 120000000, Currency: "NGN"}, *details.PriceAmount)

	// детали доступны и для объявления на проверке
	rec = doRequest(t, srv, http.MethodGet, "/api/v1/listings/4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pending", decode[ListingDetailsResponse](t, rec).Status)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/listings/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Listing not found", decode[ErrorResponse](t, rec).Error)
}

func TestGetMarkers(t *testing.T) {
	srv := newTestServer(seededStore(t))

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/map/markers?q=lagos", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[MapMarkersResponse](t, rec)
	require.Len(t, resp.Markers, 2)
	assert.Equal(t, "1", resp.Markers[0].ID)
	assert.Equal(t, "3", resp.Markers[1].ID)
	assert.Equal(t, 6.45, resp.Markers[0].Latitude)
	assert.InDelta(t, 6.525, resp.Region.Latitude, 1e-9)
	assert.Empty(t, resp.EmptyMessage)
}

func TestGetMarkers_EmptyFallsBackToDefaultRegion(t *testing.T) {
	srv := newTestServer(seededStore(t))

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/map/markers?category=Commercial", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, rec.Body.String(), `"markers":[]`)
	resp := decode[MapMarkersResponse](t, rec)
	assert.Equal(t, domain.DefaultMapRegion.Latitude, resp.Region.Latitude)
	assert.Equal(t, domain.DefaultMapRegion.LatitudeDelta, resp.Region.LatitudeDelta)
	assert.Equal(t, domain.EmptyResultMessage, resp.EmptyMessage)
}

func TestGetClusters(t *testing.T) {
	srv := newTestServer(seededStore(t))

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/map/clusters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[MarkerClustersResponse](t, rec)
	assert.Equal(t, uint(6), resp.Precision)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/map/clusters?precision=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[MarkerClustersResponse](t, rec)
	total := 0
	for _, c := range resp.Clusters {
		total += c.Count
		assert.Len(t, c.Geohash, 1)
	}
	assert.Equal(t, 3, total)

	for _, bad := range []string{"0", "13", "abc", "-1"} {
		rec = doRequest(t, srv, http.MethodGet, "/api/v1/map/clusters?precision="+bad, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestGetCategories(t *testing.T) {
	srv := newTestServer(seededStore(t))

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/dictionaries/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	items := decode[[]DictionaryItemResponse](t, rec)
	require.Len(t, items, 5)
	assert.Equal(t, DictionaryItemResponse{SystemName: "all", DisplayName: "All"}, items[0])
	assert.Equal(t, "Shortlet", items[3].DisplayName)
}

func TestGetStats(t *testing.T) {
	srv := newTestServer(seededStore(t))

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decode[CatalogStatsResponse](t, rec)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Published)
	assert.Equal(t, 2, stats.ByCategory["Land"])
	assert.Equal(t, 1, stats.ByStatus["pending"])
	require.NotEmpty(t, stats.PriceRanges)
	assert.Equal(t, "NGN", stats.PriceRanges[0].Currency)
}

func TestGetSellerListings(t *testing.T) {
	srv := newTestServer(seededStore(t))

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/seller/listings?status=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decode[[]ListingDetailsResponse](t, rec)
	require.Len(t, pending, 1)
	assert.Equal(t, "4", pending[0].ID)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/seller/listings", "")
	assert.Len(t, decode[[]ListingDetailsResponse](t, rec), 4)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/seller/listings?status=archived", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitListing(t *testing.T) {
	store := seededStore(t)
	srv := newTestServer(store)

	body := `{
		"title": "Waterfront Duplex",
		"price": "₦80,000,000",
		"location": "Ikoyi, Lagos",
		"category": "house",
		"coordinates": {"latitude": 6.45, "longitude": 3.43},
		"images": ["https://img.example/duplex.jpg"],
		"seller": {"name": "Ada Obi"}
	}`
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/listings", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[ListingDetailsResponse](t, rec)
	_, err := uuid.Parse(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "House", created.Category)
	assert.Equal(t, "https://img.example/duplex.jpg", created.ImageURL)
	assert.Equal(t, "Ada Obi", created.Seller.Name)
	require.NotNil(t, created.PriceAmount)
	assert.Equal(t, int64(80000000), created.PriceAmount.Amount)

	// новое объявление не видно покупателю до проверки
	rec = doRequest(t, srv, http.MethodGet, "/api/v1/listings?q=duplex", "")
	assert.Equal(t, 0, decode[PaginatedListingsResponse](t, rec).Total)

	_, ok := store.Get(created.ID)
	assert.True(t, ok)
}

func TestSubmitListing_Rejected(t *testing.T) {
	srv := newTestServer(seededStore(t))

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/listings", `{"title": "No coords", "price": "₦1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "coordinates", decode[ErrorResponse](t, rec).Field)

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/listings",
		`{"title": "Castle", "price": "₦1", "category": "Castle", "coordinates": {"latitude": 1, "longitude": 1}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "category", decode[ErrorResponse](t, rec).Field)

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/listings", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode[ErrorResponse](t, rec).Error)
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, newTestServer(seededStore(t)), http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[HealthResponse](t, rec)
	assert.True(t, health.CatalogReady)
	assert.Equal(t, 4, health.CatalogSize)

	rec = doRequest(t, newTestServer(catalog.NewStore()), http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "loading", decode[HealthResponse](t, rec).Status)
}

func TestLoggerMiddleware_TraceID(t *testing.T) {
	srv := newTestServer(seededStore(t))

	traceID := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dictionaries/categories", nil)
	req.Header.Set(traceIDHeader, traceID)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, traceID, rec.Header().Get(traceIDHeader))

	// невалидный trace id заменяется новым
	req = httptest.NewRequest(http.MethodGet, "/api/v1/dictionaries/categories", nil)
	req.Header.Set(traceIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	generated := rec.Header().Get(traceIDHeader)
	assert.NotEqual(t, "not-a-uuid", generated)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
}

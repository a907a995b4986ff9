package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-service/internal/core/domain"
)

func sampleRecords() []domain.ListingRecord {
	return []domain.ListingRecord{
		{
			Listing: domain.Listing{
				ID: "b", Title: "Modern Villa", Price: "₦120,000,000", Location: "Lekki Phase 1, Lagos",
				Category: domain.CategoryHouse, Coordinates: domain.Coordinates{Latitude: 6.45, Longitude: 3.45},
			},
			Details: domain.ListingDetails{
				Description: "Four bedrooms",
				Amenities:   []string{"Pool", "Gym"},
				Images:      []string{"https://img.example/villa.jpg"},
				Status:      domain.StatusActive,
				Seller:      domain.Seller{ID: "s1", Name: "John Doe"},
				Money:       &domain.Money{Amount: 120000000, Currency: "NGN"},
			},
		},
		{
			Listing: domain.Listing{
				ID: "a", Title: "Corner Piece", Price: "₦30M", Location: "Sangotedo, Ajah",
				Category: domain.CategoryLand, Coordinates: domain.Coordinates{Latitude: 6.4685, Longitude: 3.5921},
			},
			Details: domain.ListingDetails{Status: domain.StatusPending},
		},
	}
}

func openMemory(t *testing.T) *CatalogLoader {
	t.Helper()
	loader, err := Open(context.Background(), memoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { loader.Close() })
	return loader
}

func TestSaveAndLoad_KeepsPositionOrder(t *testing.T) {
	loader := openMemory(t)
	assert.Equal(t, "sqlite", loader.Name())

	require.NoError(t, loader.Save(context.Background(), sampleRecords()))

	records, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	// порядок по position, а не по id
	assert.Equal(t, "b", records[0].Listing.ID)
	assert.Equal(t, "a", records[1].Listing.ID)

	villa := records[0]
	assert.Equal(t, domain.CategoryHouse, villa.Listing.Category)
	assert.Equal(t, "https://img.example/villa.jpg", villa.Listing.ImageURL)
	assert.Equal(t, []string{"Pool", "Gym"}, villa.Details.Amenities)
	assert.Equal(t, "John Doe", villa.Details.Seller.Name)
	require.NotNil(t, villa.Details.Money)
	assert.Equal(t, int64(120000000), villa.Details.Money.Amount)

	land := records[1]
	assert.Equal(t, domain.StatusPending, land.Details.Status)
	assert.Nil(t, land.Details.Money)
	assert.Empty(t, land.Details.Amenities)
}

func TestLoad_SkipsBrokenRows(t *testing.T) {
	loader := openMemory(t)
	ctx := context.Background()

	_, err := loader.db.ExecContext(ctx, `INSERT INTO listings (id, position, title, category, latitude, longitude, status)
		VALUES ('1', 0, 'ok', 'Land', 6.5, 3.4, 'active'),
		       ('2', 1, 'bad status', 'Land', 6.5, 3.4, 'archived')`)
	require.NoError(t, err)
	_, err = loader.db.ExecContext(ctx, `INSERT INTO listings (id, position, title, category, latitude, longitude, amenities)
		VALUES ('3', 2, 'bad amenities', 'Land', 6.5, 3.4, 'pool, gym')`)
	require.NoError(t, err)

	records, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].Listing.ID)
	assert.Equal(t, domain.StatusActive, records[0].Details.Status)
}

func TestSave_ReplacesExistingID(t *testing.T) {
	loader := openMemory(t)
	ctx := context.Background()
	require.NoError(t, loader.Save(ctx, sampleRecords()))

	updated := sampleRecords()[0]
	updated.Listing.Title = "Modern Villa (reduced)"
	require.NoError(t, loader.Save(ctx, []domain.ListingRecord{updated}))

	records, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Modern Villa (reduced)", records[0].Listing.Title)
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "listings.db")

	loader, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, loader.Save(context.Background(), sampleRecords()[:1]))
	require.NoError(t, loader.Close())

	reopened, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectCatalogQuery = `
	SELECT id, title, price, price_amount, price_currency, location, category,
	       latitude, longitude, image_url, description, amenities, images, status,
	       seller_id, seller_name, seller_firm, seller_avatar_url
	FROM listings
	ORDER BY position ASC, id ASC`

// undefinedTableCode - SQLSTATE 42P01, таблица listings еще не создана
const undefinedTableCode = "42P01"

// ErrSchemaMissing - миграции не применены
var ErrSchemaMissing = errors.New("listings table does not exist, apply migrations first")

// Querier - часть пула, нужная загрузчику
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ Querier = (*pgxpool.Pool)(nil)

// CatalogLoader читает каталог из таблицы listings в порядке колонки position
type CatalogLoader struct {
	db Querier
}

var _ port.CatalogLoaderPort = (*CatalogLoader)(nil)

func NewCatalogLoader(db Querier) *CatalogLoader {
	return &CatalogLoader{db: db}
}

func (a *CatalogLoader) Name() string { return "postgres" }

// listingRow - строка таблицы, nullable-колонки через указатели
type listingRow struct {
	ID              string
	Title           string
	Price           *string
	PriceAmount     *int64
	PriceCurrency   *string
	Location        *string
	Category        string
	Latitude        float64
	Longitude       float64
	ImageURL        *string
	Description     *string
	Amenities       []string
	Images          []string
	Status          *string
	SellerID        *string
	SellerName      *string
	SellerFirm      *string
	SellerAvatarURL *string
}

func (a *CatalogLoader) Load(ctx context.Context) ([]domain.ListingRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresCatalogLoader",
		"method":    "Load",
	})

	rows, err := a.db.Query(ctx, selectCatalogQuery)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode {
			repoLogger.Error("Listings table is missing", err, nil)
			return nil, fmt.Errorf("%w: %s", ErrSchemaMissing, pgErr.Message)
		}
		repoLogger.Error("Failed to query listings", err, nil)
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	records := make([]domain.ListingRecord, 0)
	for rows.Next() {
		var row listingRow
		if err := rows.Scan(
			&row.ID, &row.Title, &row.Price, &row.PriceAmount, &row.PriceCurrency, &row.Location, &row.Category,
			&row.Latitude, &row.Longitude, &row.ImageURL, &row.Description, &row.Amenities, &row.Images, &row.Status,
			&row.SellerID, &row.SellerName, &row.SellerFirm, &row.SellerAvatarURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}

		record, err := row.toDomain()
		if err != nil {
			repoLogger.Warn("Skipping listing row", port.Fields{"listing_id": row.ID, "error": err.Error()})
			continue
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}

	repoLogger.Info("Listings loaded from database", port.Fields{"count": len(records)})
	return records, nil
}

func (r listingRow) toDomain() (domain.ListingRecord, error) {
	status, ok := domain.ParseListingStatus(deref(r.Status))
	if !ok {
		return domain.ListingRecord{}, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", deref(r.Status)))
	}

	record := domain.ListingRecord{
		Listing: domain.Listing{
			ID:          r.ID,
			Title:       r.Title,
			Price:       deref(r.Price),
			Location:    deref(r.Location),
			Category:    domain.Category(r.Category),
			Coordinates: domain.Coordinates{Latitude: r.Latitude, Longitude: r.Longitude},
			ImageURL:    deref(r.ImageURL),
		},
		Details: domain.ListingDetails{
			Description: deref(r.Description),
			Amenities:   r.Amenities,
			Images:      r.Images,
			Status:      status,
			Seller: domain.Seller{
				ID:        deref(r.SellerID),
				Name:      deref(r.SellerName),
				Firm:      deref(r.SellerFirm),
				AvatarURL: deref(r.SellerAvatarURL),
			},
		},
	}
	if r.PriceAmount != nil {
		currency := deref(r.PriceCurrency)
		if currency == "" {
			currency = domain.DefaultCurrency
		}
		record.Details.Money = &domain.Money{Amount: *r.PriceAmount, Currency: currency}
	}
	return record, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

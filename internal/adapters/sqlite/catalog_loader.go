package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

const createListingsTable = `
CREATE TABLE IF NOT EXISTS listings (
	id                TEXT PRIMARY KEY,
	position          INTEGER NOT NULL DEFAULT 0,
	title             TEXT NOT NULL,
	price             TEXT NOT NULL DEFAULT '',
	price_amount      INTEGER,
	price_currency    TEXT,
	location          TEXT NOT NULL DEFAULT '',
	category          TEXT NOT NULL,
	latitude          REAL NOT NULL,
	longitude         REAL NOT NULL,
	image_url         TEXT,
	description       TEXT,
	amenities         TEXT,
	images            TEXT,
	status            TEXT NOT NULL DEFAULT 'active',
	seller_id         TEXT,
	seller_name       TEXT,
	seller_firm       TEXT,
	seller_avatar_url TEXT
);`

const selectCatalogQuery = `
	SELECT id, title, price, price_amount, price_currency, location, category,
	       latitude, longitude, image_url, description, amenities, images, status,
	       seller_id, seller_name, seller_firm, seller_avatar_url
	FROM listings
	ORDER BY position ASC, id ASC`

// CatalogLoader читает каталог из локального файла SQLite.
// amenities и images хранятся JSON-массивами в текстовых колонках.
type CatalogLoader struct {
	db *sql.DB
}

var _ port.CatalogLoaderPort = (*CatalogLoader)(nil)

// Open открывает базу (создавая каталог под файл) и создает таблицу, если ее нет
func Open(ctx context.Context, path string) (*CatalogLoader, error) {
	dsn := memoryPath
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// одно соединение, иначе у :memory: у каждого соединения своя база
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if _, err := db.ExecContext(ctx, createListingsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &CatalogLoader{db: db}, nil
}

func (a *CatalogLoader) Name() string { return "sqlite" }

type listingRow struct {
	ID              string
	Title           string
	Price           string
	PriceAmount     sql.NullInt64
	PriceCurrency   sql.NullString
	Location        string
	Category        string
	Latitude        float64
	Longitude       float64
	ImageURL        sql.NullString
	Description     sql.NullString
	Amenities       sql.NullString
	Images          sql.NullString
	Status          string
	SellerID        sql.NullString
	SellerName      sql.NullString
	SellerFirm      sql.NullString
	SellerAvatarURL sql.NullString
}

func (a *CatalogLoader) Load(ctx context.Context) ([]domain.ListingRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "SQLiteCatalogLoader",
		"method":    "Load",
	})

	rows, err := a.db.QueryContext(ctx, selectCatalogQuery)
	if err != nil {
		logger.Error("Failed to query listings", err, nil)
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
			logger.Warn("Skipping listing row", port.Fields{"listing_id": row.ID, "error": err.Error()})
			continue
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}

	logger.Info("Listings loaded from sqlite", port.Fields{"count": len(records)})
	return records, nil
}

// Save пишет записи в таблицу в порядке среза, существующие id перезаписываются.
// Нужен, чтобы выгрузить в файл каталог из другого источника.
func (a *CatalogLoader) Save(ctx context.Context, records []domain.ListingRecord) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO listings (id, position, title, price, price_amount, price_currency, location, category,
			latitude, longitude, image_url, description, amenities, images, status,
			seller_id, seller_name, seller_firm, seller_avatar_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		amenities, err := json.Marshal(nonNil(r.Details.Amenities))
		if err != nil {
			return fmt.Errorf("marshal amenities of %s: %w", r.Listing.ID, err)
		}
		images, err := json.Marshal(nonNil(r.Details.Images))
		if err != nil {
			return fmt.Errorf("marshal images of %s: %w", r.Listing.ID, err)
		}

		var amount sql.NullInt64
		var currency sql.NullString
		if m := r.Details.Money; m != nil {
			amount = sql.NullInt64{Int64: m.Amount, Valid: true}
			currency = sql.NullString{String: m.Currency, Valid: true}
		}
		status := r.Details.Status
		if status == "" {
			status = domain.StatusActive
		}

		if _, err := stmt.ExecContext(ctx,
			r.Listing.ID, i, r.Listing.Title, r.Listing.Price, amount, currency, r.Listing.Location,
			r.Listing.Category.String(), r.Listing.Coordinates.Latitude, r.Listing.Coordinates.Longitude,
			r.Listing.ImageURL, r.Details.Description, string(amenities), string(images), string(status),
			r.Details.Seller.ID, r.Details.Seller.Name, r.Details.Seller.Firm, r.Details.Seller.AvatarURL,
		); err != nil {
			return fmt.Errorf("insert listing %s: %w", r.Listing.ID, err)
		}
	}
	return tx.Commit()
}

func (a *CatalogLoader) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (r listingRow) toDomain() (domain.ListingRecord, error) {
	status, ok := domain.ParseListingStatus(r.Status)
	if !ok {
		return domain.ListingRecord{}, domain.NewValidationError("status", "unknown status "+r.Status)
	}

	record := domain.ListingRecord{
		Listing: domain.Listing{
			ID:       r.ID,
			Title:    r.Title,
			Price:    r.Price,
			Location: r.Location,
			Category: domain.Category(r.Category),
			Coordinates: domain.Coordinates{
				Latitude:  r.Latitude,
				Longitude: r.Longitude,
			},
			ImageURL: r.ImageURL.String,
		},
		Details: domain.ListingDetails{
			Description: r.Description.String,
			Status:      status,
			Seller: domain.Seller{
				ID:        r.SellerID.String,
				Name:      r.SellerName.String,
				Firm:      r.SellerFirm.String,
				AvatarURL: r.SellerAvatarURL.String,
			},
		},
	}

	var err error
	if record.Details.Amenities, err = decodeList(r.Amenities); err != nil {
		return domain.ListingRecord{}, domain.NewValidationError("amenities", err.Error())
	}
	if record.Details.Images, err = decodeList(r.Images); err != nil {
		return domain.ListingRecord{}, domain.NewValidationError("images", err.Error())
	}
	if record.Listing.ImageURL == "" && len(record.Details.Images) > 0 {
		record.Listing.ImageURL = record.Details.Images[0]
	}

	if r.PriceAmount.Valid {
		currency := domain.DefaultCurrency
		if r.PriceCurrency.Valid && r.PriceCurrency.String != "" {
			currency = r.PriceCurrency.String
		}
		record.Details.Money = &domain.Money{Amount: r.PriceAmount.Int64, Currency: currency}
	}
	return record, nil
}

func decodeList(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return nil, fmt.Errorf("not a JSON array of strings: %w", err)
	}
	return out, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

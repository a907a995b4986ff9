package gcs

import (
	"context"
	"fmt"
	"io"

	"listing-service/internal/adapters/catalog"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// maxSnapshotBytes ограничивает размер выгрузки каталога
const maxSnapshotBytes = 32 << 20

type Config struct {
	Bucket          string
	Object          string
	CredentialsFile string
}

// objectOpener открывает объект со снимком каталога
type objectOpener func(ctx context.Context) (io.ReadCloser, error)

// CatalogLoader читает JSON-снимок каталога (тот же формат, что и вшитый сид)
// из бакета Cloud Storage
type CatalogLoader struct {
	client *storage.Client
	open   objectOpener
	object string
}

var _ port.CatalogLoaderPort = (*CatalogLoader)(nil)

func NewCatalogLoader(ctx context.Context, cfg Config) (*CatalogLoader, error) {
	if cfg.Bucket == "" || cfg.Object == "" {
		return nil, fmt.Errorf("gcs bucket and object are required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing cloud storage client: %w", err)
	}

	handle := client.Bucket(cfg.Bucket).Object(cfg.Object)
	loader := newCatalogLoader(func(ctx context.Context) (io.ReadCloser, error) {
		return handle.NewReader(ctx)
	}, cfg.Bucket+"/"+cfg.Object)
	loader.client = client
	return loader, nil
}

func newCatalogLoader(open objectOpener, object string) *CatalogLoader {
	return &CatalogLoader{open: open, object: object}
}

func (a *CatalogLoader) Name() string { return "gcs" }

func (a *CatalogLoader) Load(ctx context.Context) ([]domain.ListingRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "GCSCatalogLoader",
		"object":    a.object,
	})

	rc, err := a.open(ctx)
	if err != nil {
		logger.Error("Failed to open catalog snapshot", err, nil)
		return nil, fmt.Errorf("error creating reader for %s: %w", a.object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxSnapshotBytes+1))
	if err != nil {
		return nil, fmt.Errorf("error downloading %s: %w", a.object, err)
	}
	if len(data) > maxSnapshotBytes {
		return nil, fmt.Errorf("catalog snapshot %s is larger than %d bytes", a.object, maxSnapshotBytes)
	}

	logger.Debug("Catalog snapshot downloaded", port.Fields{"bytes": len(data)})
	return catalog.NewStaticLoaderFromJSON(data).Load(ctx)
}

func (a *CatalogLoader) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

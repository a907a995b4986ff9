package firestore

import (
	"context"
	"errors"
	"fmt"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Config - подключение к проекту Firebase
type Config struct {
	ProjectID       string
	CredentialsFile string // пусто - Application Default Credentials
	Collection      string
}

// CatalogLoader читает коллекцию объявлений и упорядочивает ее по полю position.
// OrderBy в запросе не используется: Firestore молча отбрасывает документы без поля.
type CatalogLoader struct {
	client     *firestore.Client
	collection string
}

var _ port.CatalogLoaderPort = (*CatalogLoader)(nil)

// NewCatalogLoader поднимает приложение Firebase и клиент Firestore
func NewCatalogLoader(ctx context.Context, cfg Config) (*CatalogLoader, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("firestore collection name is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing firestore client: %w", err)
	}

	return &CatalogLoader{client: client, collection: cfg.Collection}, nil
}

func (a *CatalogLoader) Name() string { return "firestore" }

// Load читает все документы коллекции. id объявления - id документа.
func (a *CatalogLoader) Load(ctx context.Context) ([]domain.ListingRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "FirestoreCatalogLoader",
		"collection": a.collection,
	})

	iter := a.client.Collection(a.collection).Documents(ctx)
	defer iter.Stop()

	items := make([]positionedRecord, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			logger.Error("Failed to iterate listings collection", err, nil)
			return nil, fmt.Errorf("failed to read listings from firestore: %w", err)
		}

		var doc listingDocument
		if err := snap.DataTo(&doc); err != nil {
			logger.Warn("Skipping undecodable document", port.Fields{"document_id": snap.Ref.ID, "error": err.Error()})
			continue
		}
		record, err := doc.toDomain(snap.Ref.ID)
		if err != nil {
			logger.Warn("Skipping document", port.Fields{"document_id": snap.Ref.ID, "error": err.Error()})
			continue
		}
		items = append(items, positionedRecord{record: record, position: doc.Position})
	}

	records := orderByPosition(items, logger)
	logger.Info("Listings loaded from firestore", port.Fields{"count": len(records)})
	return records, nil
}

// Close закрывает клиент Firestore
func (a *CatalogLoader) Close() error {
	return a.client.Close()
}

package mongodb

import (
	"context"
	"fmt"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

type Config struct {
	URI        string
	Database   string
	Collection string
}

// CatalogLoader читает коллекцию listings из MongoDB в порядке поля position
type CatalogLoader struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ port.CatalogLoaderPort = (*CatalogLoader)(nil)

func NewCatalogLoader(ctx context.Context, cfg Config) (*CatalogLoader, error) {
	if cfg.URI == "" || cfg.Database == "" || cfg.Collection == "" {
		return nil, fmt.Errorf("mongodb uri, database and collection are required")
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("error pinging mongodb: %w", err)
	}

	return &CatalogLoader{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (a *CatalogLoader) Name() string { return "mongodb" }

func (a *CatalogLoader) Load(ctx context.Context) ([]domain.ListingRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "MongoCatalogLoader",
		"collection": a.collection.Name(),
	})

	findOpts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := a.collection.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		logger.Error("Failed to query listings", err, nil)
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]domain.ListingRecord, 0)
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			logger.Warn("Skipping undecodable document", port.Fields{"error": err.Error()})
			continue
		}
		record, err := doc.toDomain()
		if err != nil {
			logger.Warn("Skipping listing document", port.Fields{"error": err.Error()})
			continue
		}
		records = append(records, record)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}

	logger.Info("Listings loaded from mongodb", port.Fields{"count": len(records)})
	return records, nil
}

func (a *CatalogLoader) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return a.client.Disconnect(ctx)
}

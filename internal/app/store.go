package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"livestock/internal/changefeed"
	"livestock/internal/config"
	"livestock/internal/docstore"
	"livestock/internal/docstore/dynamo"
	"livestock/internal/docstore/memory"
	"livestock/internal/docstore/postgres"
	internalRedis "livestock/internal/redis"
)

// Storage bundles the document store with the change feed its writes
// publish to.
type Storage struct {
	Store docstore.Store
	Feed  changefeed.Feed

	db *sql.DB
}

// Close releases backend connections.
func (s *Storage) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// NewStorage opens the configured document store backend. Writes are
// published to Redis Pub/Sub when a Redis client is given, otherwise to an
// in-process feed.
func NewStorage(ctx context.Context, cfg *config.Config, redisClient *redis.Client, nrApp *newrelic.Application) (*Storage, error) {
	var feed changefeed.Feed
	if redisClient != nil {
		feed = internalRedis.NewChangeFeed(redisClient)
	} else {
		feed = changefeed.NewMemory()
	}

	storage := &Storage{Feed: feed}
	var backend docstore.Store

	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		db, err := NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ensure schema: %w", err)
		}
		storage.db = db
		backend = postgres.NewStore(db)
		log.Println("Connected to PostgreSQL")

	case config.StoreBackendDynamoDB:
		client, err := NewDynamoDBClient(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, err
		}
		backend = dynamo.NewStore(client, cfg.DynamoDB.TablePrefix, dynamo.DefaultIndexes)
		log.Printf("Using DynamoDB tables with prefix %q", cfg.DynamoDB.TablePrefix)

	case config.StoreBackendMemory:
		backend = memory.NewStore()
		log.Println("Using in-memory document store")

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	storage.Store = docstore.NewNotifying(backend, feed)
	return storage, nil
}

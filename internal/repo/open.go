package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shaiso/Mergington/internal/config"
)

// Backend — открытое хранилище вместе с ресурсами, которые нужно закрыть.
type Backend struct {
	Store ActivityStore

	// Pool — пул PostgreSQL; nil для остальных хранилищ.
	Pool *pgxpool.Pool

	mongoClient *mongo.Client
}

// Open открывает хранилище по cfg.StoreDriver.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Backend, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := NewMongoClient(ctx, cfg.MongoURL)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to MongoDB", "db", cfg.MongoDB, "collection", cfg.MongoCollection)
		return &Backend{
			Store:       NewMongoActivityStore(client, cfg.MongoDB, cfg.MongoCollection),
			mongoClient: client,
		}, nil

	case config.StorePostgres:
		pool, err := NewPool(ctx, cfg.PostgresURL, cfg.PostgresMaxConn)
		if err != nil {
			return nil, err
		}
		store := NewPostgresActivityStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("connected to PostgreSQL")
		return &Backend{Store: store, Pool: pool}, nil

	case config.StoreMemory:
		logger.Warn("using in-memory store, rosters are lost on restart")
		return &Backend{Store: NewMemoryActivityStore()}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Close освобождает соединения хранилища.
func (b *Backend) Close(ctx context.Context) error {
	if b.Pool != nil {
		b.Pool.Close()
	}
	if b.mongoClient != nil {
		if err := b.mongoClient.Disconnect(ctx); err != nil {
			return fmt.Errorf("disconnect mongo: %w", err)
		}
	}
	return nil
}

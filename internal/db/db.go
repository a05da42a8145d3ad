package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/geocoder89/usergraph/internal/config"
	"github.com/geocoder89/usergraph/internal/repo"
	"github.com/geocoder89/usergraph/internal/repo/badgerstore"
	"github.com/geocoder89/usergraph/internal/repo/memory"
	"github.com/geocoder89/usergraph/internal/repo/mongodb"
	"github.com/geocoder89/usergraph/internal/repo/postgres"
	"github.com/geocoder89/usergraph/internal/repo/redisstore"
	"github.com/jackc/pgx/v5/pgxpool"
)

const connectTimeout = 5 * time.Second

// NewPool builds a pgx pool without dialing. Connections are made on first use.
func NewPool(dbURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)

	if err != nil {
		return nil, err
	}

	cfg.MaxConns = 5

	return pgxpool.NewWithConfig(context.Background(), cfg)
}

// Open builds the store named by cfg.Store. It never fails: a store that
// cannot be constructed is replaced by one that reports the error on every
// call, and an unreachable store is only logged. Either way the process keeps
// serving.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) repo.Store {
	store, err := build(ctx, cfg, log)
	if err != nil {
		log.Error("store setup failed", "store", cfg.Store, "err", err)
		return repo.NewUnavailable(err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := store.Ping(pingCtx); err != nil {
		log.Error("store not reachable", "store", cfg.Store, "err", err)
		return store
	}

	log.Info("store connected", "store", cfg.Store)
	return store
}

func build(ctx context.Context, cfg config.Config, log *slog.Logger) (repo.Store, error) {
	switch cfg.Store {
	case config.StoreMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("mongo: no connection string, set MONGO_URI or CLUSTERMONGODB")
		}

		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}

		return mongodb.NewUsersRepo(client, cfg.MongoDatabase), nil

	case config.StorePostgres:
		pool, err := NewPool(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}

		r := postgres.NewUsersRepo(pool)

		schemaCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		if err := r.EnsureSchema(schemaCtx); err != nil {
			log.Error("postgres schema setup failed", "err", err)
		}

		return r, nil

	case config.StoreRedis:
		rdb := redisstore.NewClient(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		return redisstore.NewUsersRepo(rdb), nil

	case config.StoreBadger:
		bdb, err := badgerstore.Open(cfg.BadgerDir)
		if err != nil {
			return nil, err
		}

		return badgerstore.NewUsersRepo(bdb), nil

	case config.StoreMemory:
		return memory.NewUsersRepo(), nil
	}

	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

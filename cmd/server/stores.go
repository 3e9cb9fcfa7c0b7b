package main

import (
	"context"
	"fmt"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/config"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/db"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/store"
)

// openStores connects the backend named by cfg.StoreDriver.
func openStores(ctx context.Context, cfg *config.Config) (store.Set, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres, config.DriverSQLite:
		database, err := db.ConnectWithRetry(ctx, cfg)
		if err != nil {
			return store.Set{}, err
		}
		if err := store.AutoMigrate(database); err != nil {
			return store.Set{}, fmt.Errorf("migrate: %w", err)
		}
		return store.NewGormSet(database), nil

	case config.DriverRedis:
		client, err := db.ConnectRedisWithRetry(ctx, cfg)
		if err != nil {
			return store.Set{}, err
		}
		return store.NewRedisSet(client, store.DefaultRedisPrefix), nil

	case config.DriverMemory:
		return store.NewMemorySet(), nil
	}

	return store.Set{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

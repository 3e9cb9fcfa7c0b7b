package db

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultMaxAttempts     = 10
	defaultDelayBetweenTry = 2 * time.Second
)

// Retry calls fn until it succeeds or attempts run out, sleeping delay
// between tries. It returns the last error.
func Retry(ctx context.Context, what string, attempts int, delay time.Duration, fn func() error) error {
	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		slog.Warn(what+" not ready",
			"attempt", attempt,
			"max_attempts", attempts,
			"error", err,
		)

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("could not connect to %s after %d attempts: %w", what, attempts, err)
}

func newGormLogger() gormlogger.Interface {
	return gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

func dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("store driver %q is not relational", cfg.StoreDriver)
	}
}

// Open connects to the relational database selected by cfg.StoreDriver and
// pings it.
func Open(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: newGormLogger()})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// ConnectWithRetry opens the database, retrying while it comes up.
func ConnectWithRetry(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	var db *gorm.DB

	err := Retry(ctx, "db", defaultMaxAttempts, defaultDelayBetweenTry, func() error {
		var err error
		db, err = Open(ctx, cfg)
		return err
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// ConnectRedisWithRetry returns a client once the server answers PING.
func ConnectRedisWithRetry(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := NewRedisClient(cfg)

	err := Retry(ctx, "redis", defaultMaxAttempts, defaultDelayBetweenTry, func() error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

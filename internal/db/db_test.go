package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "thing", 5, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_GivesUp(t *testing.T) {
	calls := 0
	errDown := errors.New("down")

	err := Retry(context.Background(), "thing", 3, time.Millisecond, func() error {
		calls++
		return errDown
	})

	require.ErrorIs(t, err, errDown)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, "thing", 10, time.Hour, func() error {
		calls++
		return errors.New("down")
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{
		StoreDriver: config.DriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "catalog.db"),
	}

	db, err := Open(context.Background(), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.NoError(t, sqlDB.Ping())
}

func TestOpen_RejectsNonRelationalDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreDriver: config.DriverRedis})
	assert.Error(t, err)
}

func TestConnectRedisWithRetry(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := ConnectRedisWithRetry(context.Background(), &config.Config{RedisAddr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

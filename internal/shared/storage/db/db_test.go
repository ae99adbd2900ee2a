package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubOpen(t *testing.T, open func(driverName, dsn string) (*sql.DB, error)) {
	t.Helper()
	prev := openDB
	openDB = open
	t.Cleanup(func() { openDB = prev })
}

func resetShared(t *testing.T) {
	t.Helper()
	shared.mu.Lock()
	shared.db = nil
	shared.mu.Unlock()
	t.Cleanup(func() {
		shared.mu.Lock()
		shared.db = nil
		shared.mu.Unlock()
	})
}

func newPingMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	return conn, mock
}

func TestOptionsFromEnvOverlaysDefaults(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")

	opts := OptionsFromEnv(DefaultServerOptions())
	assert.Equal(t, 7, opts.MaxOpenConns)
	assert.Equal(t, 45*time.Second, opts.ConnMaxIdleTime)

	def := DefaultServerOptions()
	assert.Equal(t, def.MaxIdleConns, opts.MaxIdleConns, "unset fields keep defaults")
	assert.Equal(t, def.PingTimeout, opts.PingTimeout, "unset fields keep defaults")
}

func TestOptionsFromEnvInvalidValueKeepsDefaults(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	t.Setenv("DB_PING_TIMEOUT", "1s")

	assert.Equal(t, DefaultMigrateOptions(), OptionsFromEnv(DefaultMigrateOptions()))
}

func TestConnectAppliesPoolOptions(t *testing.T) {
	conn, mock := newPingMock(t)
	mock.ExpectPing()
	var driver string
	stubOpen(t, func(driverName, dsn string) (*sql.DB, error) {
		driver = driverName
		return conn, nil
	})

	got, err := Connect(context.Background(), "postgres://localhost/profiles", Options{MaxOpenConns: 4})
	require.NoError(t, err)
	defer got.Close()
	assert.Equal(t, "pgx", driver)
	assert.Equal(t, 4, got.Stats().MaxOpenConnections)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectClosesPoolWhenPingFails(t *testing.T) {
	conn, mock := newPingMock(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()
	stubOpen(t, func(string, string) (*sql.DB, error) { return conn, nil })

	_, err := Connect(context.Background(), "postgres://localhost/profiles", DefaultServerOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping database")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectRejectsEmptyURL(t *testing.T) {
	_, err := Connect(context.Background(), "  ", DefaultServerOptions())
	assert.Error(t, err)
}

func TestGetSingletonConnectsOnce(t *testing.T) {
	resetShared(t)
	conn, mock := newPingMock(t)
	mock.ExpectPing()
	opens := 0
	stubOpen(t, func(string, string) (*sql.DB, error) {
		opens++
		return conn, nil
	})

	first, err := GetSingleton(context.Background(), "postgres://localhost/profiles", DefaultLambdaOptions())
	require.NoError(t, err)
	second, err := GetSingleton(context.Background(), "postgres://localhost/profiles", DefaultLambdaOptions())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, opens)
}

func TestGetSingletonRetriesAfterFailure(t *testing.T) {
	resetShared(t)
	conn, mock := newPingMock(t)
	mock.ExpectPing()
	calls := 0
	stubOpen(t, func(string, string) (*sql.DB, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("dns lookup failed")
		}
		return conn, nil
	})

	_, err := GetSingleton(context.Background(), "postgres://localhost/profiles", DefaultLambdaOptions())
	require.Error(t, err)
	got, err := GetSingleton(context.Background(), "postgres://localhost/profiles", DefaultLambdaOptions())
	require.NoError(t, err)
	assert.Same(t, conn, got)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := migrationFiles.ReadDir("migrations")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(entries), 3)
	for _, e := range entries {
		data, err := migrationFiles.ReadFile("migrations/" + e.Name())
		require.NoError(t, err, e.Name())
		assert.Contains(t, string(data), "-- +goose Up", e.Name())
		assert.Contains(t, string(data), "-- +goose Down", e.Name())
	}
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver

	"profile-backend/internal/shared/telemetry"
)

// Options controls the pool. Fields left unset in the environment keep the
// value they had before parsing.
type Options struct {
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME"`
	PingTimeout     time.Duration `env:"DB_PING_TIMEOUT"`
}

var (
	openDB = sql.Open
	shared struct {
		mu sync.Mutex
		db *sql.DB
	}
)

// IsLambdaRuntime reports whether the process runs inside AWS Lambda, where
// each container keeps one small pool alive across invocations.
func IsLambdaRuntime() bool {
	return strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != ""
}

// DefaultLambdaOptions keeps the pool small; export requests hold a connection
// only while the profile and experiences are read.
func DefaultLambdaOptions() Options {
	return Options{
		MaxOpenConns:    3,
		MaxIdleConns:    2,
		ConnMaxIdleTime: 30 * time.Second,
		ConnMaxLifetime: 15 * time.Minute,
		PingTimeout:     3 * time.Second,
	}
}

// DefaultServerOptions sizes the pool for the API server. Each export opens two
// concurrent reads.
func DefaultServerOptions() Options {
	return Options{
		MaxOpenConns:    16,
		MaxIdleConns:    8,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     5 * time.Second,
	}
}

// DefaultMigrateOptions is a single connection for cmd/migrate.
func DefaultMigrateOptions() Options {
	return Options{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     10 * time.Second,
	}
}

// OptionsFromEnv overlays DB_* variables on defaults. A malformed value is
// logged and the defaults are returned untouched.
func OptionsFromEnv(defaults Options) Options {
	opts := defaults
	if err := env.Parse(&opts); err != nil {
		telemetry.Warn("db.env.invalid", map[string]any{"error": err.Error()})
		return defaults
	}
	return opts
}

// Connect opens a pgx-backed pool and pings it before returning.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	applyOptions(db, opts)

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = DefaultServerOptions().PingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	telemetry.Info("db.pool.init", PoolStats(db))
	return db, nil
}

// GetSingleton returns the pool shared by every invocation in this process.
// Concurrent callers wait for the first connect; a failed connect is retried
// by the next caller.
func GetSingleton(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	if shared.db != nil {
		telemetry.Debug("db.shared.reuse", nil)
		return shared.db, nil
	}
	db, err := Connect(ctx, databaseURL, opts)
	if err != nil {
		return nil, err
	}
	shared.db = db
	telemetry.Info("db.shared.init", nil)
	return db, nil
}

func applyOptions(db *sql.DB, opts Options) {
	def := DefaultServerOptions()
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = def.MaxOpenConns
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = def.MaxIdleConns
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = def.ConnMaxLifetime
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

// PoolStats summarizes the pool for logs and the health endpoint.
func PoolStats(db *sql.DB) map[string]any {
	stats := db.Stats()
	return map[string]any{
		"open":     stats.OpenConnections,
		"in_use":   stats.InUse,
		"idle":     stats.Idle,
		"wait":     stats.WaitCount,
		"max_open": stats.MaxOpenConnections,
	}
}

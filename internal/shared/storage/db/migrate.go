package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/pressly/goose/v3"

	"profile-backend/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies embedded SQL migrations via goose. If database is nil, it's a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	if err := prepareGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, database, "migrations"); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, database)
	if err == nil {
		telemetry.Info("db.migrations.applied", map[string]any{"version": version})
	}
	return nil
}

// MigrationStatus logs the applied state of every embedded migration.
func MigrationStatus(ctx context.Context, database *sql.DB) error {
	if err := prepareGoose(); err != nil {
		return err
	}
	return goose.StatusContext(ctx, database, "migrations")
}

// RollbackLast reverts the most recently applied migration.
func RollbackLast(ctx context.Context, database *sql.DB) error {
	if err := prepareGoose(); err != nil {
		return err
	}
	return goose.DownContext(ctx, database, "migrations")
}

func prepareGoose() error {
	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(gooseLogger{})
	return goose.SetDialect("postgres")
}

// gooseLogger routes goose output through telemetry.
type gooseLogger struct{}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	telemetry.Error("db.migrations", map[string]any{"detail": strings.TrimSpace(fmt.Sprintf(format, v...))})
	os.Exit(1)
}

func (gooseLogger) Printf(format string, v ...interface{}) {
	telemetry.Info("db.migrations", map[string]any{"detail": strings.TrimSpace(fmt.Sprintf(format, v...))})
}

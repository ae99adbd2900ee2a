package main

// Run database migrations:
//   go run ./cmd/migrate            apply pending migrations
//   go run ./cmd/migrate status     list migration state
//   go run ./cmd/migrate down       roll back the latest migration

import (
	"context"
	"database/sql"
	"os"

	"profile-backend/internal/shared/config"
	"profile-backend/internal/shared/storage/db"
	"profile-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)
	ctx := context.Background()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	var run func(context.Context, *sql.DB) error
	switch cmd {
	case "up":
		run = db.RunMigrations
	case "status":
		run = db.MigrationStatus
	case "down":
		run = db.RollbackLast
	default:
		telemetry.Error("migrate.unknown_command", map[string]any{"command": cmd})
		os.Exit(2)
	}

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := run(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": cmd, "error": err.Error()})
		os.Exit(1)
	}
}

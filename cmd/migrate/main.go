package main

// Run database migrations:
//   go run ./cmd/migrate            # up
//   go run ./cmd/migrate -cmd status
//   go run ./cmd/migrate -cmd down  # revert the latest migration

import (
	"context"
	"flag"
	"os"

	"bookstore-admin/internal/shared/config"
	"bookstore-admin/internal/shared/storage/db"
	"bookstore-admin/internal/shared/telemetry"
)

func main() {
	command := flag.String("cmd", "up", "migration command: up, down or status")
	flag.Parse()

	cfg := config.Load()
	telemetry.Configure(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		telemetry.Error("migrate.config_invalid", map[string]any{"error": "DATABASE_URL is required"})
		os.Exit(1)
	}

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	switch *command {
	case "up":
		err = db.RunMigrations(ctx, sqlDB)
	case "down":
		err = db.RollbackMigration(ctx, sqlDB)
	case "status":
		var version int64
		version, err = db.MigrationStatus(ctx, sqlDB)
		if err == nil {
			telemetry.Info("migrate.version", map[string]any{"version": version})
		}
	default:
		telemetry.Error("migrate.unknown_command", map[string]any{"cmd": *command})
		os.Exit(2)
	}
	if err != nil {
		telemetry.Error("migrate.failed", map[string]any{"cmd": *command, "error": err})
		os.Exit(1)
	}
	telemetry.Info("migrate.completed", map[string]any{"cmd": *command})
}

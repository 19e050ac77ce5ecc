package main

import (
	"context"
	"embed"
	"log/slog"
	"os"

	"github.com/ghuser/pantry/pkg/config"
	"github.com/ghuser/pantry/pkg/logger"
	"github.com/ghuser/pantry/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg)
	if err := migrator.RunMigrations(context.Background(), cfg.DatabaseURL, "item_goose_db_version", MigrationsFS, log); err != nil {
		log.Error("item migrations failed", "error", err)
		os.Exit(1)
	}
}

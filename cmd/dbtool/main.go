package main

import (
	"context"
	"drivesafe-service/internal/adapters/repositories"
	"drivesafe-service/internal/config"
	"drivesafe-service/internal/platform/db"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// dbtool creates the schema and loads the center catalog from SEED_PATH.
func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		return err
	}
	defer func() { _ = zap.L().Sync() }()

	dialect, err := db.ParseDialect(cfg.Store.Driver)
	if err != nil {
		return eris.Wrap(err, "DB_DRIVER must be postgres or sqlite")
	}

	databaseURL := strings.TrimSpace(cfg.Store.DatabaseURL)
	if databaseURL == "" {
		return eris.New("DATABASE_URL is required")
	}

	conn, err := db.Open(dialect, databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	zap.L().Info("initializing database schema", zap.String("driver", string(dialect)))
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return eris.Wrap(err, "schema initialization failed")
	}

	zap.L().Info("seeding centers", zap.String("path", cfg.Store.SeedPath))
	n, err := repositories.SeedFromJSON(ctx, conn, dialect, cfg.Store.SeedPath)
	if err != nil {
		return eris.Wrap(err, "seeding failed")
	}
	zap.L().Info("seeding complete", zap.Int("centers", n))

	return nil
}

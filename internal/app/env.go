// Package app assembles the adapters shared by the server and the CLI.
package app

import (
	"context"
	"database/sql"
	"drivesafe-service/internal/adapters/cache"
	"drivesafe-service/internal/adapters/location"
	"drivesafe-service/internal/adapters/repositories"
	"drivesafe-service/internal/config"
	"drivesafe-service/internal/platform/db"
	"drivesafe-service/internal/ports"
	"drivesafe-service/internal/services"
	"errors"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const defaultSQLitePath = "data/drivesafe.db"

// Env holds the center directory and the address locator built from config.
type Env struct {
	Directory *services.CenterDirectory
	// Locator is nil when no geocoder is configured.
	Locator ports.Locator

	db      *sql.DB
	dialect db.Dialect
	redis   *redis.Client
}

// Build opens the catalog source, loads the directory once and assembles the
// locator chain. Call Close when done.
func Build(ctx context.Context, cfg *config.Config) (_ *Env, err error) {
	env := &Env{}
	defer func() {
		if err != nil {
			_ = env.Close()
		}
	}()

	repo, err := env.openCatalog(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	env.Directory, err = services.LoadCenterDirectory(ctx, repo)
	if err != nil {
		return nil, err
	}
	if env.Directory.Len() == 0 {
		zap.L().Warn("center catalog is empty; help requests will fail", zap.String("driver", cfg.Store.Driver))
	}

	env.Locator, err = env.buildLocator(ctx, cfg.Geocode)
	if err != nil {
		return nil, err
	}

	zap.L().Info("environment ready",
		zap.Int("centers", env.Directory.Len()),
		zap.Bool("geocoder", env.Locator != nil),
	)
	return env, nil
}

func (e *Env) openCatalog(ctx context.Context, cfg config.StoreConfig) (ports.CenterRepository, error) {
	if cfg.Driver == "json" || cfg.Driver == "" {
		return repositories.NewJSONCenterRepository(cfg.SeedPath), nil
	}

	dialect, err := db.ParseDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn := strings.TrimSpace(cfg.DatabaseURL)
	if dsn == "" {
		if dialect != db.SQLite {
			return nil, eris.New("DATABASE_URL is required for DB_DRIVER=postgres")
		}
		dsn = defaultSQLitePath
	}

	conn, err := db.Open(dialect, dsn)
	if err != nil {
		return nil, err
	}
	e.db, e.dialect = conn, dialect

	// Initialize schema and seed an empty catalog for local runs.
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return nil, err
	}

	repo := repositories.NewSQLCenterRepository(conn)
	existing, err := repo.ListCenters(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 && cfg.SeedPath != "" {
		if _, statErr := os.Stat(cfg.SeedPath); statErr == nil {
			n, err := repositories.SeedFromJSON(ctx, conn, dialect, cfg.SeedPath)
			if err != nil {
				return nil, err
			}
			zap.L().Info("seeded center catalog", zap.Int("centers", n), zap.String("path", cfg.SeedPath))
		}
	}

	return repo, nil
}

func (e *Env) buildLocator(ctx context.Context, cfg config.GeocodeConfig) (ports.Locator, error) {
	var geocoder ports.Locator
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "ors":
		g, err := location.NewORSGeocoder(cfg.ORSKey, location.WithORSCountry(cfg.Country))
		if err != nil {
			return nil, eris.Wrap(err, "GEOCODER=ors")
		}
		geocoder = g
	case "google":
		g, err := location.NewGoogleGeocoder(cfg.GoogleKey, cfg.Country)
		if err != nil {
			return nil, eris.Wrap(err, "GEOCODER=google")
		}
		geocoder = g
	default:
		return nil, eris.Errorf("unsupported GEOCODER %q", cfg.Provider)
	}

	var gc ports.GeocodeCache
	switch cfg.Cache {
	case "", "none":
		return geocoder, nil
	case "sql":
		if e.db == nil {
			return nil, eris.New("GEOCODE_CACHE=sql needs DB_DRIVER=postgres or sqlite")
		}
		gc = cache.NewSQLGeocodeCache(e.db, e.dialect)
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		e.redis = client
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, eris.Wrapf(err, "GEOCODE_CACHE=redis: ping %s", cfg.RedisAddr)
		}
		gc = cache.NewRedisGeocodeCache(client, "")
	default:
		return nil, eris.Errorf("unsupported GEOCODE_CACHE %q", cfg.Cache)
	}

	return location.NewCached(geocoder, gc), nil
}

// Close releases database and redis connections.
func (e *Env) Close() error {
	var errs []error
	if e.redis != nil {
		errs = append(errs, e.redis.Close())
		e.redis = nil
	}
	if e.db != nil {
		errs = append(errs, e.db.Close())
		e.db = nil
	}
	return errors.Join(errs...)
}

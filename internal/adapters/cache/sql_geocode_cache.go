package cache

import (
	"context"
	"database/sql"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/platform/db"
	"drivesafe-service/internal/platform/obs"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// SQLGeocodeCache is a SQL-backed cache mapping normalized location queries
// to coordinates. The same queries serve postgres and sqlite; placeholders
// are rebound per dialect.
type SQLGeocodeCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLGeocodeCache(conn *sql.DB, dialect db.Dialect) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: conn, Dialect: dialect}
}

// Fetch cached coordinates for the given queries. Misses are simply absent.
func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	queries []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, eris.New("geocode cache: db is nil")
	}

	uniq := dedupe(queries)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	args := make([]any, 0, len(uniq))
	for _, q := range uniq {
		args = append(args, q)
	}

	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := db.Rebind(s.Dialect, fmt.Sprintf(`
	SELECT
		query,
		lat,
		lng
	FROM geocode_cache
	WHERE query IN (%s);
	`, db.Placeholders(len(uniq))))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, eris.Wrap(err, "get geocode cache: query geocode_cache table")
	}
	defer rows.Close()

	out := make(map[string]domain.Coordinates, len(uniq))
	for rows.Next() {
		var key string
		var lat, lng float64
		if err := rows.Scan(&key, &lat, &lng); err != nil {
			return nil, eris.Wrap(err, "get geocode cache: scan rows")
		}
		out[key] = domain.Coordinates{Lat: lat, Lng: lng}
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "get geocode cache: row iteration")
	}

	return out, nil
}

// Store query -> coordinate mappings, replacing existing entries.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	if s.DB == nil {
		return eris.New("geocode cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "insert geocode cache: db begin")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, db.Rebind(s.Dialect, `
	INSERT INTO geocode_cache (query, lat, lng)
	VALUES (?, ?, ?)
	ON CONFLICT (query) DO UPDATE
	SET lat = EXCLUDED.lat,
		lng = EXCLUDED.lng;
	`))
	if err != nil {
		return eris.Wrap(err, "insert geocode cache: db prepare")
	}
	defer stmt.Close()

	for key, c := range results {
		if strings.TrimSpace(key) == "" {
			return eris.New("insert geocode cache: empty query key")
		}

		if _, err := stmt.ExecContext(ctx, key, c.Lat, c.Lng); err != nil {
			return eris.Wrapf(err, "insert geocode cache query=%q", key)
		}
	}
	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "insert geocode cache commit")
	}

	return nil
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}

package repositories

import (
	"context"
	"database/sql"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/platform/db"
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// CenterSeed is one entry of the center catalog seed file.
type CenterSeed struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ReadCenterSeeds parses and validates a seed file, keeping file order.
func ReadCenterSeeds(jsonPath string) ([]domain.EmergencyCenter, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, eris.Wrapf(err, "read centers: read %q", jsonPath)
	}

	var data []CenterSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, eris.Wrap(err, "read centers: parse json")
	}

	seen := make(map[int]struct{}, len(data))
	centers := make([]domain.EmergencyCenter, 0, len(data))
	for i, item := range data {
		if item.ID <= 0 {
			return nil, eris.Errorf("read centers: invalid id at index %d: %d", i+1, item.ID)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, eris.Errorf("read centers: duplicate id at index %d: %d", i+1, item.ID)
		}
		seen[item.ID] = struct{}{}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, eris.Errorf("read centers: item at index %d: name cannot be empty", i+1)
		}

		loc := domain.Coordinates{Lat: item.Latitude, Lng: item.Longitude}
		if err := loc.Validate(); err != nil {
			return nil, eris.Wrapf(err, "read centers: item at index %d", i+1)
		}

		centers = append(centers, domain.EmergencyCenter{ID: item.ID, Name: name, Location: loc})
	}

	return centers, nil
}

// SeedFromJSON populates emergency_centers from a seed file. Existing rows
// with the same id are replaced.
func SeedFromJSON(ctx context.Context, conn *sql.DB, dialect db.Dialect, jsonPath string) (int, error) {
	if conn == nil {
		return 0, eris.New("seed centers: DB is nil")
	}

	centers, err := ReadCenterSeeds(jsonPath)
	if err != nil {
		return 0, eris.Wrap(err, "seed centers")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "seed centers: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO emergency_centers (
		id,
		name,
		lat,
		lng
	)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng;
	`
	stmt, err := tx.PrepareContext(ctx, db.Rebind(dialect, query))
	if err != nil {
		return 0, eris.Wrap(err, "seed centers: prepare insert")
	}
	defer stmt.Close()

	for _, c := range centers {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Location.Lat, c.Location.Lng); err != nil {
			return 0, eris.Wrapf(err, "seed centers: insert id=%d", c.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "seed centers: commit tx")
	}

	return len(centers), nil
}

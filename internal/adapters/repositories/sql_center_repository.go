package repositories

import (
	"context"
	"database/sql"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/platform/obs"

	"github.com/rotisserie/eris"
)

// SQL-backed implementation of the CenterRepository port. The query has no
// placeholders, so it runs unchanged on postgres and sqlite.
type SQLCenterRepository struct{ DB *sql.DB }

func NewSQLCenterRepository(conn *sql.DB) *SQLCenterRepository {
	return &SQLCenterRepository{DB: conn}
}

// Return all centers ordered by id.
func (s *SQLCenterRepository) ListCenters(ctx context.Context) (_ []domain.EmergencyCenter, err error) {
	defer obs.Time(ctx, "centers.sql.ListCenters")(&err)

	if s.DB == nil {
		return nil, eris.New("sql center repository: DB is nil")
	}

	query := `
	SELECT
		id,
		name,
		lat,
		lng
	FROM emergency_centers
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "list centers: query emergency_centers table")
	}
	defer rows.Close()

	centers := make([]domain.EmergencyCenter, 0, 16)
	for rows.Next() {
		var c domain.EmergencyCenter
		if err := rows.Scan(&c.ID, &c.Name, &c.Location.Lat, &c.Location.Lng); err != nil {
			return nil, eris.Wrap(err, "list centers: scan row")
		}
		centers = append(centers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "list centers: row iteration")
	}

	return centers, nil
}

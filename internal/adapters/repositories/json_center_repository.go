package repositories

import (
	"context"
	"drivesafe-service/internal/domain"
)

// JSONCenterRepository serves the catalog straight from a seed file, for
// deployments without a database.
type JSONCenterRepository struct{ Path string }

func NewJSONCenterRepository(path string) *JSONCenterRepository {
	return &JSONCenterRepository{Path: path}
}

func (j *JSONCenterRepository) ListCenters(ctx context.Context) ([]domain.EmergencyCenter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadCenterSeeds(j.Path)
}

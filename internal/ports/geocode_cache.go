package ports

import (
	"context"
	"drivesafe-service/internal/domain"
)

// Persistent mapping of normalized location queries to coordinates.
type GeocodeCache interface {
	GetMany(ctx context.Context, queries []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

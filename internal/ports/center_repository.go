package ports

import (
	"context"
	"drivesafe-service/internal/domain"
)

// Port: a boundary for reading the emergency center catalog.
type CenterRepository interface {
	// Retrieve every center in catalog order.
	ListCenters(ctx context.Context) ([]domain.EmergencyCenter, error)
}

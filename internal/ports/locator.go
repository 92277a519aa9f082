package ports

import (
	"context"
	"drivesafe-service/internal/domain"
)

// Contract for resolving where the requester is.
type Locator interface {
	// Return the requester's coordinates for a free-form query (usually an address).
	// Implementations that know the location up front may ignore the query.
	Locate(ctx context.Context, query string) (domain.Coordinates, error)
}

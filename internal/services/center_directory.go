package services

import (
	"context"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/ports"

	"github.com/rotisserie/eris"
)

// CenterDirectory is the read-only center catalog for the life of the process.
// It is loaded once at start-up and safe for concurrent use.
type CenterDirectory struct {
	centers []domain.EmergencyCenter
}

func NewCenterDirectory(centers []domain.EmergencyCenter) *CenterDirectory {
	own := make([]domain.EmergencyCenter, len(centers))
	copy(own, centers)
	return &CenterDirectory{centers: own}
}

// LoadCenterDirectory reads the catalog from repo and validates every entry.
func LoadCenterDirectory(ctx context.Context, repo ports.CenterRepository) (*CenterDirectory, error) {
	centers, err := repo.ListCenters(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "load center directory")
	}

	for _, c := range centers {
		if err := c.Location.Validate(); err != nil {
			return nil, eris.Wrapf(err, "load center directory: center id=%d %q", c.ID, c.Name)
		}
	}

	return NewCenterDirectory(centers), nil
}

// All returns a copy of the catalog in its original order.
func (d *CenterDirectory) All() []domain.EmergencyCenter {
	out := make([]domain.EmergencyCenter, len(d.centers))
	copy(out, d.centers)
	return out
}

func (d *CenterDirectory) Len() int { return len(d.centers) }

// Nearest resolves the closest center to requester.
func (d *CenterDirectory) Nearest(requester domain.Coordinates) (Match, error) {
	return NearestCenter(requester, d.centers)
}

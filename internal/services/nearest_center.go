package services

import (
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/geo"
	"math"
)

// A resolved center and its great-circle distance from the requester.
type Match struct {
	Center     domain.EmergencyCenter
	DistanceKm float64
}

// NearestCenter scans centers in order and returns the closest one.
//
// Ties keep the first center encountered so the answer is deterministic for a
// given catalog order. An empty catalog is an error, never a zero Match.
func NearestCenter(requester domain.Coordinates, centers []domain.EmergencyCenter) (Match, error) {
	if len(centers) == 0 {
		return Match{}, domain.ErrEmptyCenterList
	}

	best := -1
	minDistance := math.Inf(1)

	for i, c := range centers {
		d := geo.Distance(requester, c.Location)
		if d < minDistance {
			minDistance = d
			best = i
		}
	}

	// Only reachable when every distance is NaN (NaN input coordinates).
	if best < 0 {
		return Match{}, domain.ErrInvalidCoordinate
	}

	return Match{Center: centers[best], DistanceKm: minDistance}, nil
}

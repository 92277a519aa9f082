package domain

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
)

// Immutable geographic coordinates in decimal degrees (WGS84).
type Coordinates struct {
	Lat float64
	Lng float64
}

// Validate reports whether the coordinates lie on the globe.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return eris.Wrap(ErrInvalidCoordinate, "coordinates must be numbers")
	}
	if c.Lat < -90 || c.Lat > 90 {
		return eris.Wrapf(ErrInvalidCoordinate, "latitude %v out of range [-90,90]", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return eris.Wrapf(ErrInvalidCoordinate, "longitude %v out of range [-180,180]", c.Lng)
	}
	return nil
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%v,%v", c.Lat, c.Lng)
}

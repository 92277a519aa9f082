package location

import (
	"context"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/platform/obs"
	"strings"

	"github.com/rotisserie/eris"
	"googlemaps.github.io/maps"
)

// GoogleGeocoder implements ports.Locator with the Google Geocoding API.
type GoogleGeocoder struct {
	client *maps.Client
	region string
}

// NewGoogleGeocoder builds a geocoder. region is an optional ccTLD bias ("sl", "uk").
func NewGoogleGeocoder(apiKey, region string, opts ...maps.ClientOption) (*GoogleGeocoder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, eris.New("google maps api key is empty")
	}

	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, eris.Wrap(err, "google geocoder: new client")
	}

	return &GoogleGeocoder{client: client, region: strings.ToLower(strings.TrimSpace(region))}, nil
}

func (g *GoogleGeocoder) Locate(ctx context.Context, query string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "google.Locate")(&err)

	address := strings.Join(strings.Fields(query), " ")
	if address == "" {
		return domain.Coordinates{}, eris.Wrap(domain.ErrLocationUnavailable, "google geocode: empty query")
	}

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: address,
		Region:  g.region,
	})
	if err != nil {
		return domain.Coordinates{}, eris.Wrapf(domain.ErrLocationUnavailable, "google geocode %q: %v", address, err)
	}
	if len(results) == 0 {
		return domain.Coordinates{}, eris.Wrapf(domain.ErrLocationUnavailable, "no geocode results for %q", address)
	}

	loc := results[0].Geometry.Location
	return domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}

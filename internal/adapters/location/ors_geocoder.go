package location

import (
	"context"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/platform/obs"
	"drivesafe-service/internal/platform/retry"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const defaultORSBaseURL = "https://api.openrouteservice.org"

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSGeocoder implements ports.Locator by geocoding free-form addresses with
// OpenRouteService (/geocode/search). Transient failures are retried.
//
// The geocoder is safe for concurrent use.
type ORSGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
	country string
	policy  retry.Policy
}

type ORSOption func(*ORSGeocoder)

// WithORSBaseURL points the geocoder at another host (tests, self-hosted ORS).
func WithORSBaseURL(u string) ORSOption {
	return func(o *ORSGeocoder) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithORSCountry restricts results to an ISO 3166-1 alpha-2/alpha-3 country.
func WithORSCountry(code string) ORSOption {
	return func(o *ORSGeocoder) { o.country = strings.TrimSpace(code) }
}

func WithORSRetryPolicy(p retry.Policy) ORSOption {
	return func(o *ORSGeocoder) { o.policy = p }
}

func NewORSGeocoder(apiKey string, opts ...ORSOption) (*ORSGeocoder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, eris.New("ORS api key is empty")
	}

	o := &ORSGeocoder{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: defaultORSBaseURL,
		policy:  retry.Policy{MaxAttempts: 4, InitialBackoff: 200 * time.Millisecond, MaxBackoff: 2 * time.Second},
	}
	for _, opt := range opts {
		opt(o)
	}
	o.policy.OnRetry = func(attempt int, err error) {
		zap.L().Warn("retrying ORS geocode", zap.Int("attempt", attempt), zap.Error(err))
	}

	return o, nil
}

// Locate resolves an address to the first matching coordinates.
func (o *ORSGeocoder) Locate(ctx context.Context, query string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Locate")(&err)

	text := strings.Join(strings.Fields(query), " ")
	if text == "" {
		return domain.Coordinates{}, eris.Wrap(domain.ErrLocationUnavailable, "ors geocode: empty query")
	}

	endpoint := o.baseURL + "/geocode/search"

	decoded, err := retry.Do(ctx, o.policy, func(ctx context.Context) (*geocodeResponse, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		q := req.URL.Query()
		q.Set("text", text)
		q.Set("size", "1")
		if o.country != "" {
			q.Set("boundary.country", o.country)
		}
		req.URL.RawQuery = q.Encode()

		resp, err := o.do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		var decoded geocodeResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return nil, eris.Wrap(err, "decode geocode response")
		}
		return &decoded, nil
	})
	if err != nil {
		return domain.Coordinates{}, eris.Wrapf(domain.ErrLocationUnavailable, "ors geocode %q: %v", text, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, eris.Wrapf(domain.ErrLocationUnavailable, "no geocode results for %q", text)
	}

	// GeoJSON order is [lon, lat].
	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, eris.Wrapf(domain.ErrLocationUnavailable, "invalid coordinate format for %q", text)
	}

	return domain.Coordinates{Lat: coords[1], Lng: coords[0]}, nil
}

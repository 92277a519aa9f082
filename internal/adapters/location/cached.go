package location

import (
	"context"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/ports"

	"go.uber.org/zap"
)

// Cached wraps a Locator with a persistent geocode cache keyed by
// NormalizeQuery. Cache failures never fail a lookup; they are logged and the
// wrapped locator is used instead.
type Cached struct {
	next  ports.Locator
	cache ports.GeocodeCache
}

func NewCached(next ports.Locator, cache ports.GeocodeCache) *Cached {
	return &Cached{next: next, cache: cache}
}

func (c *Cached) Locate(ctx context.Context, query string) (domain.Coordinates, error) {
	key := NormalizeQuery(query)
	if key == "" || c.cache == nil {
		return c.next.Locate(ctx, query)
	}

	hits, err := c.cache.GetMany(ctx, []string{key})
	if err != nil {
		zap.L().Warn("geocode cache read failed", zap.String("key", key), zap.Error(err))
	} else if coords, ok := hits[key]; ok {
		return coords, nil
	}

	coords, err := c.next.Locate(ctx, query)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if err := c.cache.PutMany(ctx, map[string]domain.Coordinates{key: coords}); err != nil {
		zap.L().Warn("geocode cache write failed", zap.String("key", key), zap.Error(err))
	}

	return coords, nil
}

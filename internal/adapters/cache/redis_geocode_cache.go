package cache

import (
	"context"
	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/platform/obs"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

const DefaultRedisGeocodeKey = "drivesafe:geocode"

// RedisGeocodeCache stores geocode results as members of one redis geo set.
// Redis geohashes positions, so round trips are accurate to well under a meter.
// Latitudes beyond ±85.05 are rejected by GEOADD.
type RedisGeocodeCache struct {
	client *redis.Client
	key    string
}

func NewRedisGeocodeCache(client *redis.Client, key string) *RedisGeocodeCache {
	if key == "" {
		key = DefaultRedisGeocodeKey
	}
	return &RedisGeocodeCache{client: client, key: key}
}

func (r *RedisGeocodeCache) GetMany(
	ctx context.Context,
	queries []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.redis.GetMany")(&err)

	if r.client == nil {
		return nil, eris.New("geocode cache: redis client is nil")
	}

	uniq := dedupe(queries)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	positions, err := r.client.GeoPos(ctx, r.key, uniq...).Result()
	if err != nil {
		return nil, eris.Wrap(err, "get geocode cache: geopos")
	}

	out := make(map[string]domain.Coordinates, len(uniq))
	for i, p := range positions {
		if p == nil || i >= len(uniq) {
			continue
		}
		out[uniq[i]] = domain.Coordinates{Lat: p.Latitude, Lng: p.Longitude}
	}

	return out, nil
}

func (r *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	if r.client == nil {
		return eris.New("geocode cache: redis client is nil")
	}

	if len(results) == 0 {
		return nil
	}

	locs := make([]*redis.GeoLocation, 0, len(results))
	for key, c := range results {
		if strings.TrimSpace(key) == "" {
			return eris.New("insert geocode cache: empty query key")
		}
		locs = append(locs, &redis.GeoLocation{
			Name:      key,
			Longitude: c.Lng,
			Latitude:  c.Lat,
		})
	}

	if err := r.client.GeoAdd(ctx, r.key, locs...).Err(); err != nil {
		return eris.Wrap(err, "insert geocode cache: geoadd")
	}

	return nil
}

// Package redis implements the persistent caches on a shared Redis instance,
// for deployments where several searches run against the same cache.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	derr "github.com/avidan-h/meetfly/internal/domain/errors"
	"github.com/avidan-h/meetfly/internal/domain/models"
	"github.com/redis/go-redis/v9"
)

type DestinationCacheRepository struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewDestinationCacheRepository stores destination entries with a Redis TTL
// matching the configured expiration window. Entry CachedAt is still the
// authority for expiry; the TTL only bounds storage growth.
func NewDestinationCacheRepository(redisClient *redis.Client, expirationDays int) *DestinationCacheRepository {
	return &DestinationCacheRepository{
		redis: redisClient,
		ttl:   time.Duration(expirationDays) * 24 * time.Hour,
	}
}

func (r *DestinationCacheRepository) Get(ctx context.Context, origin string) (models.DestinationCacheEntry, error) {
	data, err := r.redis.Get(ctx, destinationKey(origin)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.DestinationCacheEntry{}, derr.ErrCacheMiss
		}
		return models.DestinationCacheEntry{}, fmt.Errorf("redis get destinations: %w", err)
	}

	var entry models.DestinationCacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return models.DestinationCacheEntry{}, derr.ErrCacheMiss
	}
	return entry, nil
}

func (r *DestinationCacheRepository) Set(ctx context.Context, entry models.DestinationCacheEntry) error {
	if r.ttl <= 0 {
		return nil
	}

	entry.Origin = strings.ToUpper(strings.TrimSpace(entry.Origin))
	entry.Count = len(entry.Destinations)
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal destinations for cache: %w", err)
	}
	if err := r.redis.Set(ctx, destinationKey(entry.Origin), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set destinations: %w", err)
	}
	return nil
}

func destinationKey(origin string) string {
	return fmt.Sprintf("meetfly:destinations:%s", strings.ToUpper(strings.TrimSpace(origin)))
}

package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	derr "github.com/avidan-h/meetfly/internal/domain/errors"
	"github.com/avidan-h/meetfly/internal/domain/models"
	"github.com/redis/go-redis/v9"
)

// flightTTL bounds flight entries to just over the calendar day they are
// valid for; day-scoping itself happens in the retrieval service.
const flightTTL = 36 * time.Hour

type FlightCacheRepository struct {
	redis *redis.Client
}

func NewFlightCacheRepository(redisClient *redis.Client) *FlightCacheRepository {
	return &FlightCacheRepository{redis: redisClient}
}

func (r *FlightCacheRepository) Get(ctx context.Context, key string) (models.FlightCacheEntry, error) {
	data, err := r.redis.Get(ctx, flightKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.FlightCacheEntry{}, derr.ErrCacheMiss
		}
		return models.FlightCacheEntry{}, fmt.Errorf("redis get flights: %w", err)
	}

	var entry models.FlightCacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return models.FlightCacheEntry{}, derr.ErrCacheMiss
	}
	return entry, nil
}

func (r *FlightCacheRepository) Set(ctx context.Context, entry models.FlightCacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal flights for cache: %w", err)
	}
	if err := r.redis.Set(ctx, flightKey(entry.Key), data, flightTTL).Err(); err != nil {
		return fmt.Errorf("redis set flights: %w", err)
	}
	return nil
}

func flightKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("meetfly:flights:%s", hex.EncodeToString(sum[:]))
}

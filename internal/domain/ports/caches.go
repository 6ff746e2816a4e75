package ports

import (
	"context"

	"github.com/avidan-h/meetfly/internal/domain/models"
)

// DestinationCache persists discovered destination sets per origin.
// Get returns derr.ErrCacheMiss when no entry exists. Expiry is judged by the
// caller against the entry's CachedAt, not by the store.
type DestinationCache interface {
	Get(ctx context.Context, origin string) (models.DestinationCacheEntry, error)
	Set(ctx context.Context, entry models.DestinationCacheEntry) error
}

// FlightCache persists filtered retrieval results under their full criteria
// key. Get returns derr.ErrCacheMiss when no entry exists.
type FlightCache interface {
	Get(ctx context.Context, key string) (models.FlightCacheEntry, error)
	Set(ctx context.Context, entry models.FlightCacheEntry) error
}

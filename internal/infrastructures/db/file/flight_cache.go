package file

import (
	"context"

	derr "github.com/avidan-h/meetfly/internal/domain/errors"
	"github.com/avidan-h/meetfly/internal/domain/models"
)

type FlightCacheRepository struct {
	store *store
}

func NewFlightCacheRepository(dir string) (*FlightCacheRepository, error) {
	s, err := newStore(dir)
	if err != nil {
		return nil, err
	}
	return &FlightCacheRepository{store: s}, nil
}

func (r *FlightCacheRepository) Get(_ context.Context, key string) (models.FlightCacheEntry, error) {
	var entry models.FlightCacheEntry
	if !r.store.read(flightKey(key), &entry) {
		return models.FlightCacheEntry{}, derr.ErrCacheMiss
	}
	return entry, nil
}

func (r *FlightCacheRepository) Set(_ context.Context, entry models.FlightCacheEntry) error {
	return r.store.write(flightKey(entry.Key), entry)
}

func flightKey(key string) string {
	return "flights:" + key
}

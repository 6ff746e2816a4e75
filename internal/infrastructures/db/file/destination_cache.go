package file

import (
	"context"
	"strings"

	derr "github.com/avidan-h/meetfly/internal/domain/errors"
	"github.com/avidan-h/meetfly/internal/domain/models"
)

type DestinationCacheRepository struct {
	store *store
}

func NewDestinationCacheRepository(dir string) (*DestinationCacheRepository, error) {
	s, err := newStore(dir)
	if err != nil {
		return nil, err
	}
	return &DestinationCacheRepository{store: s}, nil
}

func (r *DestinationCacheRepository) Get(_ context.Context, origin string) (models.DestinationCacheEntry, error) {
	var entry models.DestinationCacheEntry
	if !r.store.read(destinationKey(origin), &entry) {
		return models.DestinationCacheEntry{}, derr.ErrCacheMiss
	}
	return entry, nil
}

func (r *DestinationCacheRepository) Set(_ context.Context, entry models.DestinationCacheEntry) error {
	entry.Origin = strings.ToUpper(strings.TrimSpace(entry.Origin))
	entry.Count = len(entry.Destinations)
	return r.store.write(destinationKey(entry.Origin), entry)
}

func destinationKey(origin string) string {
	return "destinations:" + strings.ToUpper(strings.TrimSpace(origin))
}

package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	derr "github.com/avidan-h/meetfly/internal/domain/errors"
	"github.com/avidan-h/meetfly/internal/domain/models"
)

func TestDestinationCache_RoundTrip(t *testing.T) {
	repo, err := NewDestinationCacheRepository(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	if _, err := repo.Get(ctx, "TLV"); !errors.Is(err, derr.ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}

	entry := models.DestinationCacheEntry{
		Origin:       "tlv",
		Destinations: []string{"PAR", "MAD"},
		CachedAt:     time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC),
	}
	if err := repo.Set(ctx, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, "TLV")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Origin != "TLV" {
		t.Fatalf("origin should be normalized, got %s", got.Origin)
	}
	if got.Count != 2 || len(got.Destinations) != 2 {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if !got.CachedAt.Equal(entry.CachedAt) {
		t.Fatalf("cached_at not preserved: %s", got.CachedAt)
	}
}

func TestFlightCache_RoundTrip(t *testing.T) {
	repo, err := NewFlightCacheRepository(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	key := "TLV|PAR|2026-09-10|2026-09-17|stops=0|depout=|depret=|maxdur=0|radius=0|dir=both"

	entry := models.FlightCacheEntry{
		Key:      key,
		CachedAt: time.Now(),
		Offers: []models.FlightOffer{{
			Price:    199.50,
			Currency: "EUR",
			Itineraries: []models.Itinerary{{
				Duration: "PT4H",
				Segments: []models.Segment{{
					CarrierCode: "LH",
					Departure:   models.FlightPoint{Airport: "TLV", At: "2026-09-10T08:00:00"},
					Arrival:     models.FlightPoint{Airport: "CDG", At: "2026-09-10T12:00:00"},
				}},
			}},
		}},
	}
	if err := repo.Set(ctx, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Offers) != 1 || got.Offers[0].Price != 199.50 {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestStore_CorruptFileIsMiss(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFlightCacheRepository(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Write garbage at the exact path the key hashes to.
	path := repo.store.path(flightKey("somekey"))
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := repo.Get(context.Background(), "somekey"); !errors.Is(err, derr.ErrCacheMiss) {
		t.Fatalf("corrupt file should read as miss, got %v", err)
	}
}

func TestStore_WritesAreFiles(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewDestinationCacheRepository(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Set(context.Background(), models.DestinationCacheEntry{Origin: "ALC", CachedAt: time.Now()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected exactly one cache file, got %v (%v)", matches, err)
	}
	leftovers, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if len(leftovers) != 0 {
		t.Fatalf("temp files should not survive a write: %v", leftovers)
	}
}

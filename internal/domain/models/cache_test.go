package models

import (
	"testing"
	"time"
)

func TestDestinationCacheEntryValid(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	entry := DestinationCacheEntry{Origin: "MUC", CachedAt: now.AddDate(0, 0, -29)}

	if !entry.Valid(now, 30) {
		t.Fatalf("29-day-old entry must be valid for a 30-day window")
	}
	entry.CachedAt = now.AddDate(0, 0, -30)
	if entry.Valid(now, 30) {
		t.Fatalf("30-day-old entry must be expired for a 30-day window")
	}
	if entry.Valid(now, 0) {
		t.Fatalf("expiration_days=0 disables the cache entirely")
	}
}

func TestFlightCacheEntryValid(t *testing.T) {
	now := time.Date(2026, 9, 10, 23, 50, 0, 0, time.UTC)

	sameDay := FlightCacheEntry{CachedAt: time.Date(2026, 9, 10, 0, 5, 0, 0, time.UTC)}
	if !sameDay.Valid(now) {
		t.Fatalf("entry from the same calendar day must be valid")
	}

	// Ten minutes later but across midnight: stale.
	yesterday := FlightCacheEntry{CachedAt: now}
	if yesterday.Valid(now.Add(15 * time.Minute)) {
		t.Fatalf("entry from the previous calendar day must be stale")
	}
}

func TestSearchCriteriaCacheKeyCoversEveryField(t *testing.T) {
	base := SearchCriteria{
		Origin:         "TLV",
		Destination:    "PAR",
		DepartureDate:  "2026-09-10",
		ReturnDate:     "2026-09-17",
		MaxStops:       1,
		MinDepOutbound: "08:00",
		MinDepReturn:   "12:00",
		MaxDurationHrs: 6,
		NearbyRadiusKm: 50,
		Direction:      DirectionBoth,
	}

	variants := []SearchCriteria{base, base, base, base, base, base, base, base, base, base}
	variants[0].Origin = "MUC"
	variants[1].Destination = "MAD"
	variants[2].DepartureDate = "2026-09-11"
	variants[3].ReturnDate = "2026-09-18"
	variants[4].MaxStops = 0
	variants[5].MinDepOutbound = "09:00"
	variants[6].MinDepReturn = "13:00"
	variants[7].MaxDurationHrs = 7
	variants[8].NearbyRadiusKm = 100
	variants[9].Direction = DirectionReturn

	baseKey := base.CacheKey()
	for i, v := range variants {
		if v.CacheKey() == baseKey {
			t.Fatalf("variant %d must change the cache key", i)
		}
	}
}

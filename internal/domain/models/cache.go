package models

import "time"

// DestinationCacheEntry stores the discovered destination set for one origin.
type DestinationCacheEntry struct {
	Origin       string    `json:"origin"`
	Destinations []string  `json:"destinations"`
	CachedAt     time.Time `json:"cachedAt"`
	Count        int       `json:"count"`
}

// Valid reports whether the entry may still be served. expirationDays = 0
// disables destination caching entirely.
func (e DestinationCacheEntry) Valid(now time.Time, expirationDays int) bool {
	if expirationDays <= 0 {
		return false
	}
	age := now.Sub(e.CachedAt)
	return int(age.Hours()/24) < expirationDays
}

// FlightCacheEntry stores one filtered retrieval result under its full
// criteria key. Flights for a fixed date are treated as immutable within one
// calendar day, so the entry is served only on the day it was written.
type FlightCacheEntry struct {
	Key      string        `json:"key"`
	Offers   []FlightOffer `json:"offers"`
	CachedAt time.Time     `json:"cachedAt"`
}

// Valid reports whether the entry was written on the current calendar date.
func (e FlightCacheEntry) Valid(now time.Time) bool {
	y1, m1, d1 := e.CachedAt.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

package models

import (
	"fmt"
	"strings"
)

// Direction selects which legs of a trip are searched and matched.
type Direction string

const (
	DirectionBoth     Direction = "both"
	DirectionOutbound Direction = "outbound"
	DirectionReturn   Direction = "return"
)

// ParseDirection maps a config value onto a Direction, defaulting to both.
func ParseDirection(value string) Direction {
	switch Direction(strings.ToLower(strings.TrimSpace(value))) {
	case DirectionOutbound:
		return DirectionOutbound
	case DirectionReturn:
		return DirectionReturn
	default:
		return DirectionBoth
	}
}

// IncludesOutbound reports whether the outbound leg participates in the search.
func (d Direction) IncludesOutbound() bool {
	return d == DirectionBoth || d == DirectionOutbound
}

// IncludesReturn reports whether the return leg participates in the search.
func (d Direction) IncludesReturn() bool {
	return d == DirectionBoth || d == DirectionReturn
}

// SearchCriteria describes one flight retrieval request. It doubles as the
// flight cache key, so every field participates in CacheKey in a fixed order.
// Dates are provider-format strings (YYYY-MM-DD); time-of-day floors are HH:MM.
type SearchCriteria struct {
	Origin         string
	Destination    string
	DepartureDate  string
	ReturnDate     string
	MaxStops       int
	MinDepOutbound string
	MinDepReturn   string
	MaxDurationHrs float64
	NearbyRadiusKm int
	Direction      Direction
}

// CacheKey renders the criteria as an order-sensitive string. Two requests
// share a cache slot only when every field is identical.
func (c SearchCriteria) CacheKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|stops=%d|depout=%s|depret=%s|maxdur=%g|radius=%d|dir=%s",
		strings.ToUpper(c.Origin),
		strings.ToUpper(c.Destination),
		c.DepartureDate,
		c.ReturnDate,
		c.MaxStops,
		c.MinDepOutbound,
		c.MinDepReturn,
		c.MaxDurationHrs,
		c.NearbyRadiusKm,
		c.Direction,
	)
}

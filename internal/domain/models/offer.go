package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlightPoint is one endpoint of a segment. At is the provider's local
// timestamp and may be empty when the provider omits it.
type FlightPoint struct {
	Airport string `json:"airport"`
	At      string `json:"at"`
}

// Time parses the endpoint timestamp. The second return is false when the
// timestamp is absent or unparseable.
func (p FlightPoint) Time() (time.Time, bool) {
	return parseFlightTime(p.At)
}

// Segment is one non-stop flight inside an itinerary. Stops carries the
// provider's intrinsic stop annotation (technical stops within the segment).
type Segment struct {
	CarrierCode string      `json:"carrierCode"`
	Number      string      `json:"number,omitempty"`
	Departure   FlightPoint `json:"departure"`
	Arrival     FlightPoint `json:"arrival"`
	Stops       int         `json:"numberOfStops"`
}

// Itinerary is one directional leg, outbound or return, with an ordered
// non-empty segment list and the provider's compact ISO-8601 duration.
type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

// StopCount is the canonical stop count for one leg:
// max(segments-1, max over segment-level stop annotations).
func (it Itinerary) StopCount() int {
	stops := len(it.Segments) - 1
	if stops < 0 {
		stops = 0
	}
	for _, seg := range it.Segments {
		if seg.Stops > stops {
			stops = seg.Stops
		}
	}
	return stops
}

// DurationHours parses the leg duration (e.g. "PT2H30M") into hours.
func (it Itinerary) DurationHours() (float64, error) {
	return ParseISODurationHours(it.Duration)
}

// FirstDeparture returns the leg's initial departure point.
func (it Itinerary) FirstDeparture() (FlightPoint, bool) {
	if len(it.Segments) == 0 {
		return FlightPoint{}, false
	}
	return it.Segments[0].Departure, true
}

// LastArrival returns the leg's final arrival point.
func (it Itinerary) LastArrival() (FlightPoint, bool) {
	if len(it.Segments) == 0 {
		return FlightPoint{}, false
	}
	return it.Segments[len(it.Segments)-1].Arrival, true
}

// FlightOffer is one priced itinerary option. Round trips carry two
// itineraries, one-way searches carry one. SearchOrigin records which of the
// expanded nearby origins produced the offer.
type FlightOffer struct {
	Price        float64     `json:"price"`
	Currency     string      `json:"currency"`
	Itineraries  []Itinerary `json:"itineraries"`
	SearchOrigin string      `json:"searchOrigin,omitempty"`
}

// MaxStops is the worst stop count across the offer's legs.
func (o FlightOffer) MaxStops() int {
	stops := 0
	for _, it := range o.Itineraries {
		if s := it.StopCount(); s > stops {
			stops = s
		}
	}
	return stops
}

// Outbound returns the first itinerary. For return-only searches the single
// itinerary is the return leg and should be read via Return instead.
func (o FlightOffer) Outbound() (Itinerary, bool) {
	if len(o.Itineraries) == 0 {
		return Itinerary{}, false
	}
	return o.Itineraries[0], true
}

// Return returns the leg that departs the meeting destination: the second
// itinerary of a round trip, or the only itinerary of a return-only search.
func (o FlightOffer) Return(direction Direction) (Itinerary, bool) {
	switch direction {
	case DirectionReturn:
		return o.Outbound()
	default:
		if len(o.Itineraries) < 2 {
			return Itinerary{}, false
		}
		return o.Itineraries[1], true
	}
}

// DestinationArrival is the timestamp the traveler lands at the meeting
// destination: the last arrival of the outbound leg.
func (o FlightOffer) DestinationArrival() (time.Time, bool) {
	it, ok := o.Outbound()
	if !ok {
		return time.Time{}, false
	}
	point, ok := it.LastArrival()
	if !ok {
		return time.Time{}, false
	}
	return point.Time()
}

// DestinationDeparture is the timestamp the traveler leaves the meeting
// destination: the first departure of the return leg.
func (o FlightOffer) DestinationDeparture(direction Direction) (time.Time, bool) {
	it, ok := o.Return(direction)
	if !ok {
		return time.Time{}, false
	}
	point, ok := it.FirstDeparture()
	if !ok {
		return time.Time{}, false
	}
	return point.Time()
}

// ParseISODurationHours converts a compact ISO-8601 duration such as
// "PT2H30M" or "PT45M" into fractional hours.
func ParseISODurationHours(value string) (float64, error) {
	s := strings.ToUpper(strings.TrimSpace(value))
	if !strings.HasPrefix(s, "PT") {
		return 0, fmt.Errorf("parse duration %q: missing PT prefix", value)
	}
	s = strings.TrimPrefix(s, "PT")
	if s == "" {
		return 0, fmt.Errorf("parse duration %q: empty body", value)
	}

	var hours float64
	num := ""
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9' || r == '.':
			num += string(r)
		case r == 'H':
			v, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0, fmt.Errorf("parse duration %q: %w", value, err)
			}
			hours += v
			num = ""
		case r == 'M':
			v, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0, fmt.Errorf("parse duration %q: %w", value, err)
			}
			hours += v / 60
			num = ""
		case r == 'S':
			v, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0, fmt.Errorf("parse duration %q: %w", value, err)
			}
			hours += v / 3600
			num = ""
		default:
			return 0, fmt.Errorf("parse duration %q: unexpected %q", value, r)
		}
	}
	if num != "" {
		return 0, fmt.Errorf("parse duration %q: trailing number", value)
	}
	return hours, nil
}

func parseFlightTime(value string) (time.Time, bool) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, false
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

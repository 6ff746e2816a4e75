package service

import (
	"context"
	"errors"
	"testing"
	"time"

	derr "github.com/avidan-h/meetfly/internal/domain/errors"
	"github.com/avidan-h/meetfly/internal/domain/models"
	"github.com/avidan-h/meetfly/internal/domain/ports"
	"go.uber.org/zap"
)

type testProvider struct {
	offers  map[string][]models.FlightOffer // keyed by query origin
	err     error
	queries []ports.OfferQuery
}

func (p *testProvider) SearchOffers(_ context.Context, q ports.OfferQuery) ([]models.FlightOffer, error) {
	p.queries = append(p.queries, q)
	if p.err != nil {
		return nil, p.err
	}
	return p.offers[q.Origin], nil
}

type testLocator struct {
	nearby []string
	err    error
	calls  int
}

func (l *testLocator) NearbyAirports(_ context.Context, origin string, radiusKm int) ([]string, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.nearby, nil
}

type testFlightCache struct {
	entry    models.FlightCacheEntry
	getErr   error
	setCalls int
	lastSet  models.FlightCacheEntry
}

func (c *testFlightCache) Get(_ context.Context, key string) (models.FlightCacheEntry, error) {
	if c.getErr != nil {
		return models.FlightCacheEntry{}, c.getErr
	}
	return c.entry, nil
}

func (c *testFlightCache) Set(_ context.Context, entry models.FlightCacheEntry) error {
	c.setCalls++
	c.lastSet = entry
	return nil
}

func roundTripOffer(price float64, depAt, arrAt, retDepAt, retArrAt string, stops int) models.FlightOffer {
	outSegments := []models.Segment{{
		CarrierCode: "LH",
		Departure:   models.FlightPoint{Airport: "TLV", At: depAt},
		Arrival:     models.FlightPoint{Airport: "CDG", At: arrAt},
	}}
	for i := 0; i < stops; i++ {
		outSegments = append(outSegments, models.Segment{
			CarrierCode: "LH",
			Departure:   models.FlightPoint{Airport: "MUC", At: arrAt},
			Arrival:     models.FlightPoint{Airport: "CDG", At: arrAt},
		})
	}
	return models.FlightOffer{
		Price:    price,
		Currency: "EUR",
		Itineraries: []models.Itinerary{
			{Duration: "PT4H", Segments: outSegments},
			{Duration: "PT4H30M", Segments: []models.Segment{{
				CarrierCode: "LH",
				Departure:   models.FlightPoint{Airport: "CDG", At: retDepAt},
				Arrival:     models.FlightPoint{Airport: "TLV", At: retArrAt},
			}}},
		},
	}
}

func baseCriteria() models.SearchCriteria {
	return models.SearchCriteria{
		Origin:        "TLV",
		Destination:   "PAR",
		DepartureDate: "2026-09-10",
		ReturnDate:    "2026-09-17",
		MaxStops:      1,
		Direction:     models.DirectionBoth,
	}
}

func TestSearchFlights_SameDayCacheHit(t *testing.T) {
	cached := models.FlightCacheEntry{
		Offers:   []models.FlightOffer{{Price: 99}},
		CachedAt: time.Now(),
	}
	provider := &testProvider{}
	svc := NewFlightsService(zap.NewNop(), provider, nil, &testFlightCache{entry: cached}, true)

	got := svc.SearchFlights(context.Background(), baseCriteria())
	if len(got) != 1 || got[0].Price != 99 {
		t.Fatalf("expected cached offers, got %+v", got)
	}
	if len(provider.queries) != 0 {
		t.Fatalf("provider should not be queried on cache hit, got %d calls", len(provider.queries))
	}
}

func TestSearchFlights_StaleCacheIgnored(t *testing.T) {
	cached := models.FlightCacheEntry{
		Offers:   []models.FlightOffer{{Price: 99}},
		CachedAt: time.Now().AddDate(0, 0, -1),
	}
	provider := &testProvider{offers: map[string][]models.FlightOffer{
		"TLV": {roundTripOffer(150, "2026-09-10T08:00:00", "2026-09-10T12:00:00", "2026-09-17T10:00:00", "2026-09-17T14:00:00", 0)},
	}}
	cache := &testFlightCache{entry: cached}
	svc := NewFlightsService(zap.NewNop(), provider, nil, cache, true)

	got := svc.SearchFlights(context.Background(), baseCriteria())
	if len(got) != 1 || got[0].Price != 150 {
		t.Fatalf("stale entry must trigger a live search, got %+v", got)
	}
	if cache.setCalls != 1 {
		t.Fatalf("fresh result should be cached, setCalls=%d", cache.setCalls)
	}
	if !cache.lastSet.Valid(time.Now()) {
		t.Fatalf("persisted entry should carry today's timestamp")
	}
}

func TestSearchFlights_CachingDisabled(t *testing.T) {
	provider := &testProvider{offers: map[string][]models.FlightOffer{
		"TLV": {roundTripOffer(150, "2026-09-10T08:00:00", "2026-09-10T12:00:00", "2026-09-17T10:00:00", "2026-09-17T14:00:00", 0)},
	}}
	cache := &testFlightCache{getErr: derr.ErrCacheMiss}
	svc := NewFlightsService(zap.NewNop(), provider, nil, cache, false)

	_ = svc.SearchFlights(context.Background(), baseCriteria())
	if cache.setCalls != 0 {
		t.Fatalf("disabled cache must not be written, setCalls=%d", cache.setCalls)
	}
}

func TestSearchFlights_StopCeiling(t *testing.T) {
	direct := roundTripOffer(100, "2026-09-10T08:00:00", "2026-09-10T12:00:00", "2026-09-17T10:00:00", "2026-09-17T14:00:00", 0)
	oneStop := roundTripOffer(80, "2026-09-10T08:00:00", "2026-09-10T12:00:00", "2026-09-17T10:00:00", "2026-09-17T14:00:00", 1)
	provider := &testProvider{offers: map[string][]models.FlightOffer{"TLV": {direct, oneStop}}}
	svc := NewFlightsService(zap.NewNop(), provider, nil, nil, false)

	criteria := baseCriteria()
	criteria.MaxStops = 0
	got := svc.SearchFlights(context.Background(), criteria)
	if len(got) != 1 || got[0].Price != 100 {
		t.Fatalf("stop ceiling 0 should keep only the direct offer, got %+v", got)
	}

	criteria.MaxStops = 1
	got = svc.SearchFlights(context.Background(), criteria)
	if len(got) != 2 {
		t.Fatalf("stop ceiling 1 should keep both offers, got %d", len(got))
	}
}

func TestSearchFlights_DepartureFloors(t *testing.T) {
	early := roundTripOffer(100, "2026-09-10T06:00:00", "2026-09-10T10:00:00", "2026-09-17T12:00:00", "2026-09-17T16:00:00", 0)
	late := roundTripOffer(120, "2026-09-10T09:30:00", "2026-09-10T13:30:00", "2026-09-17T12:00:00", "2026-09-17T16:00:00", 0)
	provider := &testProvider{offers: map[string][]models.FlightOffer{"TLV": {early, late}}}
	svc := NewFlightsService(zap.NewNop(), provider, nil, nil, false)

	criteria := baseCriteria()
	criteria.MinDepOutbound = "09:00"
	got := svc.SearchFlights(context.Background(), criteria)
	if len(got) != 1 || got[0].Price != 120 {
		t.Fatalf("outbound floor should drop the early offer, got %+v", got)
	}

	criteria.MinDepOutbound = ""
	criteria.MinDepReturn = "13:00"
	got = svc.SearchFlights(context.Background(), criteria)
	if len(got) != 0 {
		t.Fatalf("return floor 13:00 should drop both offers with 12:00 returns, got %d", len(got))
	}
}

func TestSearchFlights_DepartureFloorFailsOpen(t *testing.T) {
	noTimestamp := roundTripOffer(100, "", "2026-09-10T10:00:00", "2026-09-17T12:00:00", "2026-09-17T16:00:00", 0)
	provider := &testProvider{offers: map[string][]models.FlightOffer{"TLV": {noTimestamp}}}
	svc := NewFlightsService(zap.NewNop(), provider, nil, nil, false)

	criteria := baseCriteria()
	criteria.MinDepOutbound = "09:00"
	got := svc.SearchFlights(context.Background(), criteria)
	if len(got) != 1 {
		t.Fatalf("missing timestamp must pass the departure filter, got %d offers", len(got))
	}
}

func TestSearchFlights_DurationCeiling(t *testing.T) {
	offer := roundTripOffer(100, "2026-09-10T08:00:00", "2026-09-10T12:00:00", "2026-09-17T10:00:00", "2026-09-17T14:00:00", 0)
	provider := &testProvider{offers: map[string][]models.FlightOffer{"TLV": {offer}}}
	svc := NewFlightsService(zap.NewNop(), provider, nil, nil, false)

	criteria := baseCriteria()
	criteria.MaxDurationHrs = 4 // return leg is PT4H30M
	if got := svc.SearchFlights(context.Background(), criteria); len(got) != 0 {
		t.Fatalf("duration ceiling should reject the 4.5h return leg, got %d offers", len(got))
	}

	criteria.MaxDurationHrs = 5
	if got := svc.SearchFlights(context.Background(), criteria); len(got) != 1 {
		t.Fatalf("duration ceiling 5h should keep the offer")
	}

	unparseable := offer
	unparseable.Itineraries = append([]models.Itinerary{}, offer.Itineraries...)
	unparseable.Itineraries[0].Duration = "garbage"
	unparseable.Itineraries[1].Duration = "PT4H"
	provider.offers["TLV"] = []models.FlightOffer{unparseable}
	criteria.MaxDurationHrs = 4
	if got := svc.SearchFlights(context.Background(), criteria); len(got) != 1 {
		t.Fatalf("unparseable durations must fail open")
	}
}

func TestSearchFlights_NearbyOriginExpansion(t *testing.T) {
	provider := &testProvider{offers: map[string][]models.FlightOffer{
		"TLV": {roundTripOffer(100, "2026-09-10T08:00:00", "2026-09-10T12:00:00", "2026-09-17T10:00:00", "2026-09-17T14:00:00", 0)},
		"SDV": {roundTripOffer(90, "2026-09-10T08:30:00", "2026-09-10T12:30:00", "2026-09-17T10:00:00", "2026-09-17T14:00:00", 0)},
	}}
	locator := &testLocator{nearby: []string{"SDV"}}
	svc := NewFlightsService(zap.NewNop(), provider, locator, nil, false)

	criteria := baseCriteria()
	criteria.NearbyRadiusKm = 200
	got := svc.SearchFlights(context.Background(), criteria)
	if len(got) != 2 {
		t.Fatalf("expected offers from both origins, got %d", len(got))
	}
	origins := map[string]bool{}
	for _, o := range got {
		origins[o.SearchOrigin] = true
	}
	if !origins["TLV"] || !origins["SDV"] {
		t.Fatalf("search origins not tracked: %+v", origins)
	}
}

func TestSearchFlights_LocatorFailureFallsBack(t *testing.T) {
	provider := &testProvider{offers: map[string][]models.FlightOffer{
		"TLV": {roundTripOffer(100, "2026-09-10T08:00:00", "2026-09-10T12:00:00", "2026-09-17T10:00:00", "2026-09-17T14:00:00", 0)},
	}}
	locator := &testLocator{err: errors.New("geo lookup down")}
	svc := NewFlightsService(zap.NewNop(), provider, locator, nil, false)

	criteria := baseCriteria()
	criteria.NearbyRadiusKm = 200
	got := svc.SearchFlights(context.Background(), criteria)
	if len(got) != 1 {
		t.Fatalf("locator failure must fall back to the origin alone, got %d offers", len(got))
	}
}

func TestSearchFlights_ProviderFailureYieldsEmpty(t *testing.T) {
	provider := &testProvider{err: errors.New("rate limited")}
	svc := NewFlightsService(zap.NewNop(), provider, nil, nil, false)

	if got := svc.SearchFlights(context.Background(), baseCriteria()); len(got) != 0 {
		t.Fatalf("provider failure must yield an empty list, got %d offers", len(got))
	}
}

func TestSearchFlights_ResolvesAliasesBeforeProviderCall(t *testing.T) {
	provider := &testProvider{offers: map[string][]models.FlightOffer{}}
	svc := NewFlightsService(zap.NewNop(), provider, nil, nil, false)

	criteria := baseCriteria()
	criteria.Origin = "ZYR" // Brussels-Midi rail station
	_ = svc.SearchFlights(context.Background(), criteria)
	if len(provider.queries) != 1 || provider.queries[0].Origin != "BRU" {
		t.Fatalf("alias should resolve before the provider call, queries=%+v", provider.queries)
	}
}

func TestSearchFlights_ReturnOnlyQueriesDestinationToOrigin(t *testing.T) {
	provider := &testProvider{offers: map[string][]models.FlightOffer{}}
	svc := NewFlightsService(zap.NewNop(), provider, nil, nil, false)

	criteria := baseCriteria()
	criteria.Direction = models.DirectionReturn
	_ = svc.SearchFlights(context.Background(), criteria)
	if len(provider.queries) != 1 {
		t.Fatalf("expected one provider query, got %d", len(provider.queries))
	}
	q := provider.queries[0]
	if q.Origin != "PAR" || q.Destination != "TLV" || q.DepartureDate != "2026-09-17" || q.ReturnDate != "" {
		t.Fatalf("return-only query should be destination→origin on the return date, got %+v", q)
	}
}

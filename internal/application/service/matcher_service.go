package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/avidan-h/meetfly/internal/airports"
	"github.com/avidan-h/meetfly/internal/domain/models"
	"go.uber.org/zap"
)

// FlightSearcher is the matcher's view of the retrieval layer.
type FlightSearcher interface {
	SearchFlights(ctx context.Context, criteria models.SearchCriteria) []models.FlightOffer
}

// TravelerCriteria is one traveler's independent constraint set.
type TravelerCriteria struct {
	Origin         string
	MaxStops       int
	MinDepOutbound string
	MinDepReturn   string
	MaxDurationHrs float64
	NearbyRadiusKm int
	PriceCeiling   float64
}

// MatchQuery asks for pairings of two travelers' offers to one destination.
type MatchQuery struct {
	Traveler1      TravelerCriteria
	Traveler2      TravelerCriteria
	Destination    string
	DepartureDate  string
	ReturnDate     string
	Direction      models.Direction
	ToleranceHours float64
}

// MatcherService pairs two travelers' flight offers for one destination.
type MatcherService struct {
	log     *zap.Logger
	flights FlightSearcher
}

func NewMatcherService(log *zap.Logger, flights FlightSearcher) *MatcherService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MatcherService{log: log, flights: flights}
}

// FindMatches retrieves both travelers' offers concurrently and emits every
// cross-product pair that satisfies both price ceilings and the shared time
// tolerance, sorted ascending by combined price.
func (s *MatcherService) FindMatches(ctx context.Context, q MatchQuery) []models.MatchCandidate {
	const op = "service.FindMatches"

	destination := airports.Resolve(q.Destination)
	logger := s.log.With(
		zap.String("op", op),
		zap.String("destination", destination),
	)

	criteria1 := s.buildCriteria(q.Traveler1, destination, q)
	criteria2 := s.buildCriteria(q.Traveler2, destination, q)

	// The two retrievals are independent; a failed side yields an empty
	// list and simply produces zero pairings.
	type sideResult struct {
		side   int
		offers []models.FlightOffer
	}
	results := make(chan sideResult, 2)
	for i, criteria := range []models.SearchCriteria{criteria1, criteria2} {
		go func(side int, criteria models.SearchCriteria) {
			results <- sideResult{side: side, offers: s.flights.SearchFlights(ctx, criteria)}
		}(i, criteria)
	}

	var offers1, offers2 []models.FlightOffer
	for i := 0; i < 2; i++ {
		r := <-results
		if r.side == 0 {
			offers1 = r.offers
		} else {
			offers2 = r.offers
		}
	}

	logger.Info("offers retrieved",
		zap.Int("person1_offers", len(offers1)),
		zap.Int("person2_offers", len(offers2)),
	)

	var candidates []models.MatchCandidate
	for _, f1 := range offers1 {
		if f1.Price > q.Traveler1.PriceCeiling {
			continue
		}
		t1, ok := matchingTime(f1, q.Direction)
		if !ok {
			continue
		}
		for _, f2 := range offers2 {
			if f2.Price > q.Traveler2.PriceCeiling {
				continue
			}
			t2, ok := matchingTime(f2, q.Direction)
			if !ok {
				continue
			}
			if !withinTolerance(t1, t2, q.ToleranceHours) {
				continue
			}
			candidates = append(candidates, models.MatchCandidate{
				Destination:  destination,
				Person1Offer: f1,
				Person2Offer: f2,
				Person1Price: f1.Price,
				Person2Price: f2.Price,
				TotalPrice:   f1.Price + f2.Price,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalPrice < candidates[j].TotalPrice
	})

	logger.Info("pairings built", zap.Int("matches", len(candidates)))
	return candidates
}

func (s *MatcherService) buildCriteria(t TravelerCriteria, destination string, q MatchQuery) models.SearchCriteria {
	return models.SearchCriteria{
		Origin:         airports.Resolve(t.Origin),
		Destination:    destination,
		DepartureDate:  q.DepartureDate,
		ReturnDate:     q.ReturnDate,
		MaxStops:       t.MaxStops,
		MinDepOutbound: t.MinDepOutbound,
		MinDepReturn:   t.MinDepReturn,
		MaxDurationHrs: t.MaxDurationHrs,
		NearbyRadiusKm: t.NearbyRadiusKm,
		Direction:      q.Direction,
	}
}

// matchingTime picks the timestamp the tolerance window compares: arrival at
// the destination, or departure from it for return-only searches. A missing
// timestamp disqualifies the offer from matching (fail-closed).
func matchingTime(offer models.FlightOffer, direction models.Direction) (time.Time, bool) {
	if direction == models.DirectionReturn {
		return offer.DestinationDeparture(direction)
	}
	return offer.DestinationArrival()
}

func withinTolerance(t1, t2 time.Time, toleranceHours float64) bool {
	diffHours := math.Abs(t1.Sub(t2).Hours())
	return diffHours <= toleranceHours
}

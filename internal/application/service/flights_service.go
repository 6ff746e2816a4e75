package service

import (
	"context"
	"time"

	"github.com/avidan-h/meetfly/internal/airports"
	"github.com/avidan-h/meetfly/internal/domain/models"
	"github.com/avidan-h/meetfly/internal/domain/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// FlightsService retrieves filtered flight offers for one search criteria,
// with a same-day cache in front of the provider and optional nearby-origin
// expansion.
type FlightsService struct {
	log          *zap.Logger
	provider     ports.FlightProvider
	locator      ports.AirportLocator
	cache        ports.FlightCache
	cacheEnabled bool
}

func NewFlightsService(log *zap.Logger, provider ports.FlightProvider, locator ports.AirportLocator, cache ports.FlightCache, cacheEnabled bool) *FlightsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FlightsService{
		log:          log,
		provider:     provider,
		locator:      locator,
		cache:        cache,
		cacheEnabled: cacheEnabled,
	}
}

// SearchFlights retrieves and filters offers for the criteria. Provider
// failures never propagate: a search that cannot be completed returns an
// empty list, since "no flights" and "provider down" rank destinations the
// same way.
func (s *FlightsService) SearchFlights(ctx context.Context, criteria models.SearchCriteria) []models.FlightOffer {
	const op = "service.SearchFlights"
	tracer := otel.Tracer("meetfly/flights")
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	criteria.Origin = airports.Resolve(criteria.Origin)
	criteria.Destination = airports.Resolve(criteria.Destination)
	span.SetAttributes(
		attribute.String("flights.origin", criteria.Origin),
		attribute.String("flights.destination", criteria.Destination),
		attribute.String("flights.direction", string(criteria.Direction)),
	)

	logger := s.log.With(
		zap.String("op", op),
		zap.String("origin", criteria.Origin),
		zap.String("destination", criteria.Destination),
	)

	key := criteria.CacheKey()
	if s.cacheEnabled && s.cache != nil {
		entry, err := s.cache.Get(ctx, key)
		if err == nil && entry.Valid(time.Now()) {
			logger.Debug("flight cache hit", zap.Int("offers", len(entry.Offers)))
			span.AddEvent(
				"flights.cache.hit",
				trace.WithAttributes(attribute.Int("flights.offers", len(entry.Offers))),
			)
			return entry.Offers
		}
	}

	merged := s.collectOffers(ctx, logger, criteria)
	if len(merged) == 0 {
		logger.Info("no offers found")
		return nil
	}

	filtered := applyFilters(merged, criteria)
	logger.Info("offers filtered",
		zap.Int("fetched", len(merged)),
		zap.Int("kept", len(filtered)),
	)
	span.SetAttributes(attribute.Int("flights.kept", len(filtered)))

	if s.cacheEnabled && s.cache != nil {
		entry := models.FlightCacheEntry{Key: key, Offers: filtered, CachedAt: time.Now()}
		if err := s.cache.Set(ctx, entry); err != nil {
			logger.Warn("flight cache write failed", zap.Error(err))
		}
	}

	return filtered
}

// collectOffers expands the origin into its candidate set and merges the
// provider results per origin. A failed origin is skipped, never fatal.
func (s *FlightsService) collectOffers(ctx context.Context, logger *zap.Logger, criteria models.SearchCriteria) []models.FlightOffer {
	originSet := []string{criteria.Origin}
	if criteria.NearbyRadiusKm > 0 && s.locator != nil {
		nearby, err := s.locator.NearbyAirports(ctx, criteria.Origin, criteria.NearbyRadiusKm)
		if err != nil {
			logger.Warn("nearby airport lookup failed, using origin alone", zap.Error(err))
		} else {
			originSet = append(originSet, nearby...)
			logger.Info("expanded origin set",
				zap.Int("radius_km", criteria.NearbyRadiusKm),
				zap.Strings("origins", originSet),
			)
		}
	}

	var merged []models.FlightOffer
	for _, origin := range originSet {
		query := buildQuery(origin, criteria)
		offers, err := s.provider.SearchOffers(ctx, query)
		if err != nil {
			logger.Warn("provider search failed for origin",
				zap.String("search_origin", origin),
				zap.Error(err),
			)
			continue
		}
		for i := range offers {
			offers[i].SearchOrigin = origin
		}
		merged = append(merged, offers...)
	}
	return merged
}

// buildQuery maps the direction onto one provider query. Return-only
// searches query the leg that departs the meeting destination.
func buildQuery(origin string, criteria models.SearchCriteria) ports.OfferQuery {
	switch criteria.Direction {
	case models.DirectionOutbound:
		return ports.OfferQuery{
			Origin:        origin,
			Destination:   criteria.Destination,
			DepartureDate: criteria.DepartureDate,
		}
	case models.DirectionReturn:
		return ports.OfferQuery{
			Origin:        criteria.Destination,
			Destination:   origin,
			DepartureDate: criteria.ReturnDate,
		}
	default:
		return ports.OfferQuery{
			Origin:        origin,
			Destination:   criteria.Destination,
			DepartureDate: criteria.DepartureDate,
			ReturnDate:    criteria.ReturnDate,
		}
	}
}

// applyFilters runs the three filters in their fixed order: stop ceiling,
// minimum departure time per leg, maximum leg duration. Departure-time and
// duration filters fail open when the field cannot be evaluated.
func applyFilters(offers []models.FlightOffer, criteria models.SearchCriteria) []models.FlightOffer {
	kept := make([]models.FlightOffer, 0, len(offers))
	for _, offer := range offers {
		if !passesStopCeiling(offer, criteria.MaxStops) {
			continue
		}
		if !passesDepartureFloors(offer, criteria) {
			continue
		}
		if !passesDurationCeiling(offer, criteria.MaxDurationHrs) {
			continue
		}
		kept = append(kept, offer)
	}
	return kept
}

func passesStopCeiling(offer models.FlightOffer, maxStops int) bool {
	if maxStops == 0 {
		return offer.MaxStops() == 0
	}
	return offer.MaxStops() <= maxStops
}

func passesDepartureFloors(offer models.FlightOffer, criteria models.SearchCriteria) bool {
	if criteria.MinDepOutbound != "" && criteria.Direction.IncludesOutbound() {
		if it, ok := offer.Outbound(); ok && !legDepartsAtOrAfter(it, criteria.MinDepOutbound) {
			return false
		}
	}
	if criteria.MinDepReturn != "" && criteria.Direction.IncludesReturn() {
		if it, ok := offer.Return(criteria.Direction); ok && !legDepartsAtOrAfter(it, criteria.MinDepReturn) {
			return false
		}
	}
	return true
}

// legDepartsAtOrAfter compares the leg's first departure against an HH:MM
// floor. A missing or unparseable timestamp passes.
func legDepartsAtOrAfter(it models.Itinerary, floor string) bool {
	point, ok := it.FirstDeparture()
	if !ok {
		return true
	}
	dep, ok := point.Time()
	if !ok {
		return true
	}
	floorTime, err := time.Parse("15:04", floor)
	if err != nil {
		return true
	}
	depMinutes := dep.Hour()*60 + dep.Minute()
	floorMinutes := floorTime.Hour()*60 + floorTime.Minute()
	return depMinutes >= floorMinutes
}

func passesDurationCeiling(offer models.FlightOffer, maxHours float64) bool {
	if maxHours <= 0 {
		return true
	}
	for _, it := range offer.Itineraries {
		hours, err := it.DurationHours()
		if err != nil {
			continue // unparseable durations pass
		}
		if hours > maxHours {
			return false
		}
	}
	return true
}

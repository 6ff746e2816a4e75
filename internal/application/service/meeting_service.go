package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/avidan-h/meetfly/internal/airports"
	"github.com/avidan-h/meetfly/internal/domain/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DestinationFinder is the orchestrator's view of the discovery engine.
type DestinationFinder interface {
	CommonDestinations(ctx context.Context, origin1, origin2, departureDate string, dynamic bool, maxDurationHours float64, nonStopOnly bool) []string
}

// MatchFinder is the orchestrator's view of the matcher.
type MatchFinder interface {
	FindMatches(ctx context.Context, q MatchQuery) []models.MatchCandidate
}

// MeetingQuery describes one full meeting-destination search.
type MeetingQuery struct {
	Traveler1           TravelerCriteria
	Traveler2           TravelerCriteria
	DepartureDate       string
	ReturnDate          string
	Direction           models.Direction
	ToleranceHours      float64
	DynamicDiscovery    bool
	MaxDestinations     int
	DestinationOverride []string
}

// MeetingService drives the search across candidate destinations and
// aggregates, deduplicates and ranks the per-destination pairings.
type MeetingService struct {
	log       *zap.Logger
	discovery DestinationFinder
	matcher   MatchFinder
}

func NewMeetingService(log *zap.Logger, discovery DestinationFinder, matcher MatchFinder) *MeetingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MeetingService{log: log, discovery: discovery, matcher: matcher}
}

// FindMeetingDestinations runs the whole pipeline: candidate destinations,
// one matcher pass per destination (strictly sequential, so the provider's
// rate limits are respected implicitly), then global dedupe and ranking.
func (s *MeetingService) FindMeetingDestinations(ctx context.Context, q MeetingQuery) models.MeetingResult {
	const op = "service.FindMeetingDestinations"
	tracer := otel.Tracer("meetfly/meeting")
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	logger := s.log.With(
		zap.String("op", op),
		zap.String("origin1", q.Traveler1.Origin),
		zap.String("origin2", q.Traveler2.Origin),
	)

	destinations := s.candidateDestinations(ctx, logger, q)
	span.SetAttributes(attribute.Int("meeting.destinations", len(destinations)))

	var all []models.MatchCandidate
	withMatches := 0
	for i, destination := range destinations {
		logger.Info("processing destination",
			zap.String("destination", destination),
			zap.Int("index", i+1),
			zap.Int("total", len(destinations)),
		)

		matches := s.searchDestination(ctx, logger, destination, q)
		if len(matches) > 0 {
			withMatches++
			all = append(all, matches...)
		}
	}

	deduped, removed := deduplicate(all)
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].TotalPrice < deduped[j].TotalPrice
	})

	logger.Info("search finished",
		zap.Int("destinations_checked", len(destinations)),
		zap.Int("destinations_with_matches", withMatches),
		zap.Int("matches", len(deduped)),
		zap.Int("duplicates_removed", removed),
	)
	span.SetAttributes(attribute.Int("meeting.matches", len(deduped)))

	return models.MeetingResult{
		Matches:                 deduped,
		DestinationsChecked:     len(destinations),
		DestinationsWithMatches: withMatches,
		DuplicatesRemoved:       removed,
	}
}

// searchDestination contains a single destination's matcher pass. A failure
// caused by one destination's data is logged and skipped, never fatal to the
// remaining destinations.
func (s *MeetingService) searchDestination(ctx context.Context, logger *zap.Logger, destination string, q MeetingQuery) (matches []models.MatchCandidate) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("destination search failed, skipping",
				zap.String("destination", destination),
				zap.Any("cause", r),
			)
			matches = nil
		}
	}()

	return s.matcher.FindMatches(ctx, MatchQuery{
		Traveler1:      q.Traveler1,
		Traveler2:      q.Traveler2,
		Destination:    destination,
		DepartureDate:  q.DepartureDate,
		ReturnDate:     q.ReturnDate,
		Direction:      q.Direction,
		ToleranceHours: q.ToleranceHours,
	})
}

// candidateDestinations applies the override list when one is supplied and
// survives validation, otherwise runs discovery and truncates to the
// configured bound.
func (s *MeetingService) candidateDestinations(ctx context.Context, logger *zap.Logger, q MeetingQuery) []string {
	if len(q.DestinationOverride) > 0 {
		overrides := validAirports(q.DestinationOverride)
		if len(overrides) > 0 {
			logger.Info("using explicit destination list", zap.Strings("destinations", overrides))
			return overrides
		}
		logger.Warn("explicit destination list had no valid airports, falling back to discovery")
	}

	// Bias discovery toward non-stop routes when either traveler requires
	// them: the stricter stop ceiling decides.
	nonStopOnly := q.Traveler1.MaxStops == 0 || q.Traveler2.MaxStops == 0
	maxDuration := q.Traveler1.MaxDurationHrs
	if q.Traveler2.MaxDurationHrs > maxDuration {
		maxDuration = q.Traveler2.MaxDurationHrs
	}

	destinations := s.discovery.CommonDestinations(ctx,
		airports.Resolve(q.Traveler1.Origin),
		airports.Resolve(q.Traveler2.Origin),
		q.DepartureDate, q.DynamicDiscovery, maxDuration, nonStopOnly,
	)
	destinations = validAirports(destinations)

	if q.MaxDestinations > 0 && len(destinations) > q.MaxDestinations {
		logger.Info("truncating destination list",
			zap.Int("available", len(destinations)),
			zap.Int("limit", q.MaxDestinations),
		)
		destinations = destinations[:q.MaxDestinations]
	}
	return destinations
}

func validAirports(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		resolved := airports.Resolve(code)
		if resolved == "" || !airports.IsValidAirport(resolved) {
			continue
		}
		if _, ok := seen[resolved]; ok {
			continue
		}
		seen[resolved] = struct{}{}
		out = append(out, resolved)
	}
	return out
}

// deduplicate keeps the first match per composite key. A match whose offers
// are too malformed to key is kept unconditionally.
func deduplicate(matches []models.MatchCandidate) ([]models.MatchCandidate, int) {
	seen := make(map[string]struct{}, len(matches))
	out := make([]models.MatchCandidate, 0, len(matches))
	removed := 0
	for _, m := range matches {
		key, ok := matchKey(m)
		if !ok {
			out = append(out, m)
			continue
		}
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out, removed
}

func matchKey(m models.MatchCandidate) (string, bool) {
	k1, ok := offerKey(m.Person1Offer)
	if !ok {
		return "", false
	}
	k2, ok := offerKey(m.Person2Offer)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s|%s|%s|%.2f|%.2f", m.Destination, k1, k2, m.Person1Price, m.Person2Price), true
}

// offerKey fingerprints an offer by its first leg's endpoint timestamps and
// carrier set.
func offerKey(offer models.FlightOffer) (string, bool) {
	it, ok := offer.Outbound()
	if !ok || len(it.Segments) == 0 {
		return "", false
	}
	departure := it.Segments[0].Departure.At
	arrival := it.Segments[len(it.Segments)-1].Arrival.At
	if departure == "" || arrival == "" {
		return "", false
	}

	carrierSet := make(map[string]struct{}, len(it.Segments))
	for _, seg := range it.Segments {
		carrierSet[seg.CarrierCode] = struct{}{}
	}
	carriers := make([]string, 0, len(carrierSet))
	for carrier := range carrierSet {
		carriers = append(carriers, carrier)
	}
	sort.Strings(carriers)

	return departure + "|" + arrival + "|" + strings.Join(carriers, ","), true
}

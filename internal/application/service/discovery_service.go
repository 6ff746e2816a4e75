package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	derr "github.com/avidan-h/meetfly/internal/domain/errors"
	"github.com/avidan-h/meetfly/internal/domain/models"
	"github.com/avidan-h/meetfly/internal/domain/ports"
	"go.uber.org/zap"
)

// curatedDestinations is the static last-resort destination list: popular
// European city and airport codes, biased toward major hubs.
var curatedDestinations = []string{
	"LON", "PAR", "MAD", "BCN", "AMS", "BER", "ROM", "FCO",
	"VIE", "PRG", "ATH", "LIS", "DUB", "CPH", "STO", "OSL",
	"MIL", "VEN", "NAP", "PMO", "AGP", "SEV", "ZUR", "BRU",
	"WAR", "BUD", "ZAG", "SPL", "DBV",
	"HEL", "REK", "OPO",
}

// unreliableDynamicOrigins are origins the inspiration endpoint does not
// cover reliably; dynamic discovery is skipped for them outright.
var unreliableDynamicOrigins = map[string]struct{}{
	"TLV": {},
	"ALC": {},
}

// inspirationWindowDays is how far past the anchor date the inspiration
// lookup window extends.
const inspirationWindowDays = 90

// DiscoveryService produces candidate destination lists per origin through a
// tiered fallback chain: dynamic inspiration lookup, direct-routes lookup,
// then the curated static list. Dynamic results are cached per origin.
type DiscoveryService struct {
	log            *zap.Logger
	source         ports.DestinationSource
	cache          ports.DestinationCache
	expirationDays int
}

func NewDiscoveryService(log *zap.Logger, source ports.DestinationSource, cache ports.DestinationCache, expirationDays int) *DiscoveryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DiscoveryService{
		log:            log,
		source:         source,
		cache:          cache,
		expirationDays: expirationDays,
	}
}

type destinationStrategy struct {
	name string
	run  func(ctx context.Context) []string
}

// SuggestDestinations returns candidate destinations reachable from origin.
// maxDurationHours only biases logging here; duration is enforced later by
// the per-offer filter, which sees real leg durations.
func (s *DiscoveryService) SuggestDestinations(ctx context.Context, origin, departureDate string, dynamic bool, maxDurationHours float64, nonStopOnly bool) []string {
	const op = "service.SuggestDestinations"
	origin = strings.ToUpper(strings.TrimSpace(origin))
	logger := s.log.With(zap.String("op", op), zap.String("origin", origin))

	if cached, ok := s.cachedDestinations(ctx, logger, origin); ok {
		return cached
	}

	_, unreliable := unreliableDynamicOrigins[origin]
	if !dynamic || unreliable {
		if unreliable && dynamic {
			logger.Warn("origin not reliable for dynamic lookup, using curated list")
		}
		return dedupeSorted(curatedDestinations)
	}

	strategies := []destinationStrategy{
		{name: "inspiration", run: func(ctx context.Context) []string {
			return s.inspirationTier(ctx, logger, origin, departureDate, nonStopOnly)
		}},
		{name: "direct-routes", run: func(ctx context.Context) []string {
			return s.directRoutesTier(ctx, logger, origin)
		}},
	}

	for _, strategy := range strategies {
		destinations := strategy.run(ctx)
		if len(destinations) == 0 {
			continue
		}
		destinations = dedupeSorted(destinations)
		logger.Info("destinations discovered",
			zap.String("tier", strategy.name),
			zap.Int("count", len(destinations)),
			zap.Float64("max_duration_hours", maxDurationHours),
		)
		s.saveDestinations(ctx, logger, origin, destinations)
		return destinations
	}

	// The curated list is not origin-specific, so it is never cached under
	// the origin key.
	logger.Warn("all dynamic tiers empty, using curated list")
	return dedupeSorted(curatedDestinations)
}

// inspirationTier queries the inspiration endpoint over a forward-looking
// date window. An empty result or a not-found error while non-stop was
// requested triggers one retry with the flag cleared, since connections
// broaden the result set.
func (s *DiscoveryService) inspirationTier(ctx context.Context, logger *zap.Logger, origin, departureDate string, nonStopOnly bool) []string {
	window := inspirationWindow(departureDate)

	destinations, err := s.source.InspirationDestinations(ctx, origin, window, nonStopOnly)
	if err != nil {
		logger.Warn("inspiration lookup failed", zap.Bool("non_stop", nonStopOnly), zap.Error(err))
		if nonStopOnly && errors.Is(err, derr.ErrNotFound) {
			return s.inspirationRetry(ctx, logger, origin, window)
		}
		return nil
	}
	if len(destinations) == 0 && nonStopOnly {
		logger.Info("inspiration lookup empty with non-stop set, retrying with connections")
		return s.inspirationRetry(ctx, logger, origin, window)
	}
	return destinations
}

func (s *DiscoveryService) inspirationRetry(ctx context.Context, logger *zap.Logger, origin string, window ports.DateWindow) []string {
	destinations, err := s.source.InspirationDestinations(ctx, origin, window, false)
	if err != nil {
		logger.Warn("inspiration retry failed", zap.Error(err))
		return nil
	}
	return destinations
}

func (s *DiscoveryService) directRoutesTier(ctx context.Context, logger *zap.Logger, origin string) []string {
	destinations, err := s.source.DirectDestinations(ctx, origin)
	if err != nil {
		logger.Warn("direct-routes lookup failed", zap.Error(err))
		return nil
	}
	return destinations
}

// CommonDestinations resolves a candidate list valid for both origins. The
// two per-origin discoveries run concurrently; a later per-destination
// flight search validates true reachability, so the policy here prefers a
// non-empty answer over a precise one.
func (s *DiscoveryService) CommonDestinations(ctx context.Context, origin1, origin2, departureDate string, dynamic bool, maxDurationHours float64, nonStopOnly bool) []string {
	const op = "service.CommonDestinations"
	origin1 = strings.ToUpper(strings.TrimSpace(origin1))
	origin2 = strings.ToUpper(strings.TrimSpace(origin2))
	logger := s.log.With(
		zap.String("op", op),
		zap.String("origin1", origin1),
		zap.String("origin2", origin2),
	)

	if dynamic {
		_, u1 := unreliableDynamicOrigins[origin1]
		_, u2 := unreliableDynamicOrigins[origin2]
		if u1 && u2 {
			logger.Warn("both origins unreliable for dynamic lookup, using curated list")
			return dedupeSorted(curatedDestinations)
		}
	}

	type sideResult struct {
		side         int
		destinations []string
	}
	results := make(chan sideResult, 2)
	for i, origin := range []string{origin1, origin2} {
		go func(side int, origin string) {
			results <- sideResult{
				side:         side,
				destinations: s.SuggestDestinations(ctx, origin, departureDate, dynamic, maxDurationHours, nonStopOnly),
			}
		}(i, origin)
	}

	var dest1, dest2 []string
	for i := 0; i < 2; i++ {
		r := <-results
		if r.side == 0 {
			dest1 = r.destinations
		} else {
			dest2 = r.destinations
		}
	}

	switch {
	case len(dest1) == 0 && len(dest2) == 0:
		logger.Warn("both origins yielded nothing, using curated list")
		return dedupeSorted(curatedDestinations)
	case len(dest1) == 0:
		logger.Info("origin1 yielded nothing, using origin2 list for both", zap.Int("count", len(dest2)))
		return dest2
	case len(dest2) == 0:
		logger.Info("origin2 yielded nothing, using origin1 list for both", zap.Int("count", len(dest1)))
		return dest1
	}

	intersection := intersect(dest1, dest2)
	if len(intersection) > 0 {
		logger.Info("common destinations resolved", zap.Int("count", len(intersection)))
		return intersection
	}

	union := dedupeSorted(append(append([]string{}, dest1...), dest2...))
	logger.Warn("no intersection between origins, degrading to union", zap.Int("count", len(union)))
	return union
}

func (s *DiscoveryService) cachedDestinations(ctx context.Context, logger *zap.Logger, origin string) ([]string, bool) {
	if s.cache == nil || s.expirationDays <= 0 {
		return nil, false
	}
	entry, err := s.cache.Get(ctx, origin)
	if err != nil {
		if !errors.Is(err, derr.ErrCacheMiss) {
			logger.Warn("destination cache read failed", zap.Error(err))
		}
		return nil, false
	}
	if !entry.Valid(time.Now(), s.expirationDays) {
		logger.Debug("destination cache entry expired", zap.Time("cached_at", entry.CachedAt))
		return nil, false
	}
	logger.Info("destination cache hit", zap.Int("count", len(entry.Destinations)))
	return entry.Destinations, true
}

func (s *DiscoveryService) saveDestinations(ctx context.Context, logger *zap.Logger, origin string, destinations []string) {
	if s.cache == nil || s.expirationDays <= 0 {
		return
	}
	entry := models.DestinationCacheEntry{
		Origin:       origin,
		Destinations: destinations,
		CachedAt:     time.Now(),
	}
	if err := s.cache.Set(ctx, entry); err != nil {
		logger.Warn("destination cache write failed", zap.Error(err))
	}
}

func inspirationWindow(departureDate string) ports.DateWindow {
	anchor, err := time.Parse("2006-01-02", departureDate)
	if err != nil {
		return ports.DateWindow{}
	}
	return ports.DateWindow{
		From: anchor.Format("2006-01-02"),
		To:   anchor.AddDate(0, 0, inspirationWindowDays).Format("2006-01-02"),
	}
}

func dedupeSorted(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, code := range a {
		set[code] = struct{}{}
	}
	var out []string
	for _, code := range b {
		if _, ok := set[code]; ok {
			out = append(out, code)
		}
	}
	return dedupeSorted(out)
}

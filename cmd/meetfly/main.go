package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/avidan-h/meetfly/internal/application/service"
	"github.com/avidan-h/meetfly/internal/config"
	"github.com/avidan-h/meetfly/internal/domain/models"
	"github.com/avidan-h/meetfly/internal/domain/ports"
	amadeusclient "github.com/avidan-h/meetfly/internal/infrastructures/amadeus/http/client"
	cachefile "github.com/avidan-h/meetfly/internal/infrastructures/db/file"
	cacheredis "github.com/avidan-h/meetfly/internal/infrastructures/db/redis"
	"github.com/avidan-h/meetfly/internal/infrastructures/tracing"
	"github.com/avidan-h/meetfly/internal/output"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Log.Level)
	defer func() {
		_ = log.Sync()
	}()

	if cfg.Jaeger != "" {
		tp, err := tracing.Init("meetfly", cfg.Jaeger)
		if err != nil {
			log.Fatal("failed to init tracer", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Warn("failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	log.Info("meetfly starting",
		zap.String("env", cfg.Env),
		zap.String("origin1", cfg.Search.Person1.Origin),
		zap.String("origin2", cfg.Search.Person2.Origin),
		zap.String("flight_type", cfg.Search.FlightType),
	)

	client := amadeusclient.NewClient(
		cfg.Amadeus.Environment,
		cfg.Amadeus.APIKey,
		cfg.Amadeus.APISecret,
		cfg.Amadeus.MaxResults,
		cfg.Amadeus.Timeout,
	)

	destCache, flightCache, closeCaches := buildCaches(cfg, log)
	defer closeCaches()

	flights := service.NewFlightsService(log, client, client, flightCache, cfg.Cache.FlightsEnabled)
	discovery := service.NewDiscoveryService(log, client, destCache, cfg.Cache.DestinationExpirationDays)
	matcher := service.NewMatcherService(log, flights)
	meeting := service.NewMeetingService(log, discovery, matcher)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := meeting.FindMeetingDestinations(ctx, buildQuery(cfg))

	renderResult(cfg, log, result)
	log.Info("search completed", zap.Int("matches", len(result.Matches)))
}

func buildQuery(cfg *config.Config) service.MeetingQuery {
	traveler := func(t config.TravelerConfig) service.TravelerCriteria {
		return service.TravelerCriteria{
			Origin:         t.Origin,
			MaxStops:       t.MaxStops,
			MinDepOutbound: t.MinDepartureOutbound,
			MinDepReturn:   t.MinDepartureReturn,
			MaxDurationHrs: t.MaxDurationHours,
			NearbyRadiusKm: t.NearbyRadiusKm,
			PriceCeiling:   t.MaxPrice,
		}
	}

	return service.MeetingQuery{
		Traveler1:           traveler(cfg.Search.Person1),
		Traveler2:           traveler(cfg.Search.Person2),
		DepartureDate:       cfg.Search.DepartureDate,
		ReturnDate:          cfg.Search.ReturnDate,
		Direction:           models.ParseDirection(cfg.Search.FlightType),
		ToleranceHours:      cfg.Search.ToleranceHours,
		DynamicDiscovery:    cfg.Search.DynamicDiscovery,
		MaxDestinations:     cfg.Search.MaxDestinations,
		DestinationOverride: cfg.Search.Destinations,
	}
}

func buildCaches(cfg *config.Config, log *zap.Logger) (ports.DestinationCache, ports.FlightCache, func()) {
	switch cfg.Cache.Backend {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		closer := func() {
			if err := redisClient.Close(); err != nil {
				log.Warn("failed to close redis client", zap.Error(err))
			}
		}
		return cacheredis.NewDestinationCacheRepository(redisClient, cfg.Cache.DestinationExpirationDays),
			cacheredis.NewFlightCacheRepository(redisClient),
			closer
	default:
		destCache, err := cachefile.NewDestinationCacheRepository(cfg.Cache.Dir)
		if err != nil {
			log.Fatal("failed to open destination cache", zap.Error(err), zap.String("dir", cfg.Cache.Dir))
		}
		flightCache, err := cachefile.NewFlightCacheRepository(cfg.Cache.Dir)
		if err != nil {
			log.Fatal("failed to open flight cache", zap.Error(err), zap.String("dir", cfg.Cache.Dir))
		}
		return destCache, flightCache, func() {}
	}
}

func renderResult(cfg *config.Config, log *zap.Logger, result models.MeetingResult) {
	format := strings.ToLower(cfg.Output.Format)

	if strings.Contains(format, "console") {
		output.NewConsoleRenderer(os.Stdout).Render(result)
	}
	if strings.Contains(format, "csv") {
		if err := output.ExportCSV(cfg.Output.CSVFile, result.Matches); err != nil {
			log.Error("csv export failed", zap.Error(err))
		} else {
			log.Info("csv exported", zap.String("file", cfg.Output.CSVFile))
		}
	}
	if strings.Contains(format, "html") {
		if err := output.ExportHTML(cfg.Output.HTMLFile, result, cfg.Output.HTMLTopDestinations); err != nil {
			log.Error("html export failed", zap.Error(err))
		} else {
			log.Info("html exported", zap.String("file", cfg.Output.HTMLFile))
		}
	}
}

func setupLogger(level string) *zap.Logger {
	zapLevel := parseLogLevel(level)
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	return log
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

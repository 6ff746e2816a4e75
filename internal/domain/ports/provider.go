package ports

import (
	"context"

	"github.com/avidan-h/meetfly/internal/domain/models"
)

// OfferQuery is one priced-itinerary search against the provider. Dates are
// provider-format strings (YYYY-MM-DD); ReturnDate is empty for one-way
// directions.
type OfferQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
}

// FlightProvider exposes the provider's priced itinerary search.
type FlightProvider interface {
	SearchOffers(ctx context.Context, query OfferQuery) ([]models.FlightOffer, error)
}

// DateWindow is an inclusive departure-date range, provider format.
type DateWindow struct {
	From string
	To   string
}

// DestinationSource exposes the provider's two destination-discovery tiers:
// the inspiration lookup and the direct-routes fallback.
type DestinationSource interface {
	InspirationDestinations(ctx context.Context, origin string, window DateWindow, nonStop bool) ([]string, error)
	DirectDestinations(ctx context.Context, origin string) ([]string, error)
}

// AirportLocator finds airports around an origin within a radius. A failed
// lookup degrades the search to the origin alone, it never aborts it.
type AirportLocator interface {
	NearbyAirports(ctx context.Context, origin string, radiusKm int) ([]string, error)
}

package mappers

import (
	"strconv"
	"strings"

	"github.com/avidan-h/meetfly/internal/domain/models"
	"github.com/avidan-h/meetfly/internal/infrastructures/amadeus/dto"
)

// MapOffers converts raw provider offers into domain offers. Offers without a
// parseable price or without at least one non-empty itinerary are dropped:
// the rest of the core never handles partially-shaped data.
func MapOffers(data []dto.FlightOffer) []models.FlightOffer {
	offers := make([]models.FlightOffer, 0, len(data))
	for _, item := range data {
		price, err := strconv.ParseFloat(strings.TrimSpace(item.Price.Total), 64)
		if err != nil || price <= 0 {
			continue
		}

		itineraries := mapItineraries(item.Itineraries)
		if len(itineraries) == 0 {
			continue
		}

		currency := strings.ToUpper(strings.TrimSpace(item.Price.Currency))
		if currency == "" {
			currency = "EUR"
		}

		offers = append(offers, models.FlightOffer{
			Price:       price,
			Currency:    currency,
			Itineraries: itineraries,
		})
	}
	return offers
}

func mapItineraries(data []dto.Itinerary) []models.Itinerary {
	itineraries := make([]models.Itinerary, 0, len(data))
	for _, item := range data {
		if len(item.Segments) == 0 {
			continue
		}
		segments := make([]models.Segment, 0, len(item.Segments))
		for _, seg := range item.Segments {
			segments = append(segments, models.Segment{
				CarrierCode: strings.ToUpper(strings.TrimSpace(seg.CarrierCode)),
				Number:      seg.Number,
				Stops:       seg.NumberOfStops,
				Departure: models.FlightPoint{
					Airport: strings.ToUpper(strings.TrimSpace(seg.Departure.IataCode)),
					At:      seg.Departure.At,
				},
				Arrival: models.FlightPoint{
					Airport: strings.ToUpper(strings.TrimSpace(seg.Arrival.IataCode)),
					At:      seg.Arrival.At,
				},
			})
		}
		itineraries = append(itineraries, models.Itinerary{
			Duration: item.Duration,
			Segments: segments,
		})
	}
	return itineraries
}

// ExtractDestinations pulls the deduplicated destination codes out of an
// inspiration-search response, preserving provider order.
func ExtractDestinations(data []dto.FlightDestination) []string {
	seen := make(map[string]struct{}, len(data))
	destinations := make([]string, 0, len(data))
	for _, item := range data {
		code := strings.ToUpper(strings.TrimSpace(item.Destination))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		destinations = append(destinations, code)
	}
	return destinations
}

// ExtractDirectDestinations pulls destination codes out of a direct-routes
// response.
func ExtractDirectDestinations(data []dto.DirectDestination) []string {
	seen := make(map[string]struct{}, len(data))
	destinations := make([]string, 0, len(data))
	for _, item := range data {
		code := strings.ToUpper(strings.TrimSpace(item.IataCode))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		destinations = append(destinations, code)
	}
	return destinations
}

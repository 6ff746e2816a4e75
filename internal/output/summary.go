package output

import (
	"sort"
	"strings"

	"github.com/avidan-h/meetfly/internal/domain/models"
)

// legSummary is one itinerary flattened for rendering.
type legSummary struct {
	From      string
	To        string
	Departure string
	Arrival   string
	Duration  string
	Stops     int
}

// offerSummary is one traveler's offer flattened for rendering.
type offerSummary struct {
	Origin    string
	Outbound  legSummary
	Return    legSummary
	HasReturn bool
	Airlines  string
	Price     float64
	Currency  string
}

func summarizeLeg(it models.Itinerary) legSummary {
	leg := legSummary{
		Duration: it.Duration,
		Stops:    it.StopCount(),
	}
	if dep, ok := it.FirstDeparture(); ok {
		leg.From = dep.Airport
		leg.Departure = dep.At
	}
	if arr, ok := it.LastArrival(); ok {
		leg.To = arr.Airport
		leg.Arrival = arr.At
	}
	return leg
}

func summarizeOffer(offer models.FlightOffer) offerSummary {
	s := offerSummary{
		Price:    offer.Price,
		Currency: offer.Currency,
		Origin:   offer.SearchOrigin,
	}
	if len(offer.Itineraries) > 0 {
		s.Outbound = summarizeLeg(offer.Itineraries[0])
		if s.Origin == "" {
			s.Origin = s.Outbound.From
		}
	}
	if len(offer.Itineraries) > 1 {
		s.Return = summarizeLeg(offer.Itineraries[1])
		s.HasReturn = true
	}

	carrierSet := map[string]struct{}{}
	for _, it := range offer.Itineraries {
		for _, seg := range it.Segments {
			if seg.CarrierCode != "" {
				carrierSet[seg.CarrierCode] = struct{}{}
			}
		}
	}
	carriers := make([]string, 0, len(carrierSet))
	for carrier := range carrierSet {
		carriers = append(carriers, carrier)
	}
	sort.Strings(carriers)
	s.Airlines = strings.Join(carriers, ", ")
	return s
}

// travelDate extracts the calendar date from a flight timestamp.
func travelDate(at string) string {
	if len(at) >= 10 {
		return at[:10]
	}
	return at
}

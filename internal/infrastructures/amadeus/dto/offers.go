package dto

type FlightEndpoint struct {
	IataCode string `json:"iataCode"`
	At       string `json:"at"`
}

type Segment struct {
	CarrierCode   string         `json:"carrierCode"`
	Number        string         `json:"number"`
	NumberOfStops int            `json:"numberOfStops"`
	Departure     FlightEndpoint `json:"departure"`
	Arrival       FlightEndpoint `json:"arrival"`
}

type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

type Price struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type FlightOffer struct {
	ID          string      `json:"id"`
	Price       Price       `json:"price"`
	Itineraries []Itinerary `json:"itineraries"`
}

type FlightOffersResponse struct {
	Data []FlightOffer `json:"data"`
}

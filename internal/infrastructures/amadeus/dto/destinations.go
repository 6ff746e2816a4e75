package dto

type FlightDestination struct {
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate"`
}

type FlightDestinationsResponse struct {
	Data []FlightDestination `json:"data"`
}

type DirectDestination struct {
	IataCode string `json:"iataCode"`
	Name     string `json:"name"`
}

type DirectDestinationsResponse struct {
	Data []DirectDestination `json:"data"`
}

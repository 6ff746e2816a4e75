package dto

type GeoCode struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Location struct {
	IataCode string  `json:"iataCode"`
	SubType  string  `json:"subType"`
	Name     string  `json:"name"`
	GeoCode  GeoCode `json:"geoCode"`
}

type LocationsResponse struct {
	Data []Location `json:"data"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

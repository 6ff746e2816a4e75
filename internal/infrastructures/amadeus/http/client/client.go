// Package amadeus implements the external flight-data provider boundary:
// priced itinerary search, inspiration destination discovery, direct-routes
// lookup and airport geolocation, all over the Amadeus self-service REST API.
package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	derr "github.com/avidan-h/meetfly/internal/domain/errors"
	"github.com/avidan-h/meetfly/internal/domain/models"
	"github.com/avidan-h/meetfly/internal/domain/ports"
	"github.com/avidan-h/meetfly/internal/infrastructures/amadeus/dto"
	"github.com/avidan-h/meetfly/internal/infrastructures/amadeus/mappers"
	"golang.org/x/time/rate"
)

const (
	testBaseURL       = "https://test.api.amadeus.com"
	productionBaseURL = "https://api.amadeus.com"

	// The self-service tier allows a handful of transactions per second;
	// one request every 250ms stays comfortably under it.
	requestInterval = 250 * time.Millisecond
)

type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	maxResults int
	httpClient *http.Client
	limiter    *rate.Limiter

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient builds a provider client. environment is "test", "production" or
// "live" ("live" is an alias for production); anything else falls back to
// test.
func NewClient(environment, apiKey, apiSecret string, maxResults int, timeout time.Duration) *Client {
	baseURL := testBaseURL
	switch strings.ToLower(strings.TrimSpace(environment)) {
	case "production", "live":
		baseURL = productionBaseURL
	}

	if maxResults <= 0 {
		maxResults = 250
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(apiKey),
		apiSecret:  strings.TrimSpace(apiSecret),
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(requestInterval), 1),
	}
}

// SearchOffers runs one priced itinerary search. An empty ReturnDate makes it
// a one-way search with a single itinerary per offer.
func (c *Client) SearchOffers(ctx context.Context, query ports.OfferQuery) ([]models.FlightOffer, error) {
	params := url.Values{}
	params.Set("originLocationCode", strings.ToUpper(strings.TrimSpace(query.Origin)))
	params.Set("destinationLocationCode", strings.ToUpper(strings.TrimSpace(query.Destination)))
	params.Set("departureDate", query.DepartureDate)
	if query.ReturnDate != "" {
		params.Set("returnDate", query.ReturnDate)
	}
	params.Set("adults", "1")
	params.Set("max", strconv.Itoa(c.maxResults))

	var payload dto.FlightOffersResponse
	if err := c.get(ctx, "/v2/shopping/flight-offers", params, &payload); err != nil {
		return nil, fmt.Errorf("flight offers search: %w", err)
	}
	return mappers.MapOffers(payload.Data), nil
}

// InspirationDestinations queries the inspiration-style discovery endpoint
// for destinations reachable from origin inside the date window.
func (c *Client) InspirationDestinations(ctx context.Context, origin string, window ports.DateWindow, nonStop bool) ([]string, error) {
	params := url.Values{}
	params.Set("origin", strings.ToUpper(strings.TrimSpace(origin)))
	if window.From != "" && window.To != "" {
		params.Set("departureDate", window.From+","+window.To)
	}
	params.Set("viewBy", "DESTINATION")
	params.Set("oneWay", "false")
	if nonStop {
		params.Set("nonStop", "true")
	}

	var payload dto.FlightDestinationsResponse
	if err := c.get(ctx, "/v1/shopping/flight-destinations", params, &payload); err != nil {
		return nil, fmt.Errorf("flight destinations search: %w", err)
	}
	return mappers.ExtractDestinations(payload.Data), nil
}

// DirectDestinations lists destinations with non-stop service from origin.
func (c *Client) DirectDestinations(ctx context.Context, origin string) ([]string, error) {
	params := url.Values{}
	params.Set("departureAirportCode", strings.ToUpper(strings.TrimSpace(origin)))

	var payload dto.DirectDestinationsResponse
	if err := c.get(ctx, "/v1/airport/direct-destinations", params, &payload); err != nil {
		return nil, fmt.Errorf("direct destinations lookup: %w", err)
	}
	return mappers.ExtractDirectDestinations(payload.Data), nil
}

// NearbyAirports geolocates the origin, then queries airports within the
// radius. The origin itself is excluded from the result.
func (c *Client) NearbyAirports(ctx context.Context, origin string, radiusKm int) ([]string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(origin))
	if radiusKm <= 0 {
		return nil, nil
	}

	geo, err := c.locate(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("locate %s: %w", normalized, err)
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(geo.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(geo.Longitude, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(radiusKm))

	var payload dto.LocationsResponse
	if err := c.get(ctx, "/v1/reference-data/locations/airports", params, &payload); err != nil {
		return nil, fmt.Errorf("nearby airports lookup: %w", err)
	}

	airports := make([]string, 0, len(payload.Data))
	for _, loc := range payload.Data {
		code := strings.ToUpper(strings.TrimSpace(loc.IataCode))
		if code == "" || code == normalized {
			continue
		}
		airports = append(airports, code)
	}
	return airports, nil
}

func (c *Client) locate(ctx context.Context, code string) (dto.GeoCode, error) {
	params := url.Values{}
	params.Set("keyword", code)
	params.Set("subType", "AIRPORT,CITY")

	var payload dto.LocationsResponse
	if err := c.get(ctx, "/v1/reference-data/locations", params, &payload); err != nil {
		return dto.GeoCode{}, err
	}
	for _, loc := range payload.Data {
		if strings.EqualFold(loc.IataCode, code) {
			return loc.GeoCode, nil
		}
	}
	return dto.GeoCode{}, derr.ErrNotFound
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return classifyError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}

// token returns a valid OAuth2 access token, refreshing it when it is within
// a minute of expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	if c.apiKey == "" || c.apiSecret == "" {
		return "", fmt.Errorf("provider credentials are empty: %w", derr.ErrUnauthorized)
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.apiKey)
	form.Set("client_secret", c.apiSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", classifyError(resp)
	}

	var payload dto.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("empty access token: %w", derr.ErrUnauthorized)
	}

	c.accessToken = payload.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

func classifyError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	detail := ""
	var payload dto.ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Errors) > 0 {
		detail = payload.Errors[0].Title
		if payload.Errors[0].Detail != "" {
			detail += ": " + payload.Errors[0].Detail
		}
	}
	if detail == "" {
		detail = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", detail, derr.ErrNotFound)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", detail, derr.ErrRateLimited)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", detail, derr.ErrUnauthorized)
	default:
		return fmt.Errorf("provider status %d: %s", resp.StatusCode, detail)
	}
}

// Package geo detects the user's location from their public IP address.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/iqama-times/internal/schedule"
)

// DefaultURL is the ip-api.com endpoint, restricted to the fields we read.
const DefaultURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"

// ErrLookup is returned when the service answers but cannot place the address.
var ErrLookup = errors.New("geolocation lookup failed")

// Location is a detected position. It is also the cached form.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
}

// Schedule converts the detected location for the schedule builder.
func (l Location) Schedule() schedule.Location {
	return schedule.Location{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Timezone:  l.Timezone,
		City:      l.City,
		Country:   l.Country,
	}
}

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Location
}

// Detector asks an ip-api.com compatible service where the caller is.
type Detector struct {
	// URL is the lookup endpoint. Tests point it at httptest servers.
	URL string

	client *http.Client
	logger zerolog.Logger
}

// NewDetector returns a Detector for DefaultURL. The service is free and
// needs no API key.
func NewDetector(logger zerolog.Logger) *Detector {
	return &Detector{
		URL:    DefaultURL,
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger.With().Str("component", "geo").Logger(),
	}
}

// Detect looks up the public IP's location.
func (d *Detector) Detect(ctx context.Context) (*Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build geolocation request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrLookup, result.Message)
	}

	loc := result.Location
	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		return nil, fmt.Errorf("%w: coordinates %v, %v out of range", ErrLookup, loc.Latitude, loc.Longitude)
	}

	d.logger.Info().
		Str("city", loc.City).
		Str("country", loc.Country).
		Str("timezone", loc.Timezone).
		Msg("location detected")
	return &loc, nil
}

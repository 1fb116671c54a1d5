// Package geo defines the geocoding boundary used when creating a property
// from a free-form address string, plus an HTTP implementation backed by a
// Nominatim-compatible endpoint.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dkhrunov/propkeeper/internal/common"
)

// Location is a resolved postal address with coordinates.
type Location struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	Latitude   float64
	Longitude  float64
}

// Geocoder resolves a free-form address string into a structured Location.
// Implementations return common.ErrNotFound when nothing matches.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*Location, error)
}

// NominatimClient implements Geocoder against a Nominatim search endpoint.
type NominatimClient struct {
	baseURL string
	http    *http.Client
}

// NewNominatimClient returns a client for the given base URL,
// e.g. "https://nominatim.openstreetmap.org".
func NewNominatimClient(baseURL string, timeout time.Duration) *NominatimClient {
	return &NominatimClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type nominatimResult struct {
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
	Address struct {
		HouseNumber string `json:"house_number"`
		Road        string `json:"road"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		State       string `json:"state"`
		Postcode    string `json:"postcode"`
		Country     string `json:"country"`
	} `json:"address"`
}

func (c *NominatimClient) Geocode(ctx context.Context, query string) (*Location, error) {
	u := fmt.Sprintf("%s/search?format=jsonv2&addressdetails=1&limit=1&q=%s",
		c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", "propkeeper-client")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request failed: %s", resp.Status)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return nil, common.ErrNotFound
	}

	r := results[0]
	lat, _ := strconv.ParseFloat(r.Lat, 64)
	lon, _ := strconv.ParseFloat(r.Lon, 64)

	street := r.Address.Road
	if r.Address.HouseNumber != "" {
		street = r.Address.HouseNumber + " " + r.Address.Road
	}
	city := r.Address.City
	if city == "" {
		city = r.Address.Town
	}
	if city == "" {
		city = r.Address.Village
	}

	return &Location{
		Street:     street,
		City:       city,
		State:      r.Address.State,
		PostalCode: r.Address.Postcode,
		Country:    r.Address.Country,
		Latitude:   lat,
		Longitude:  lon,
	}, nil
}

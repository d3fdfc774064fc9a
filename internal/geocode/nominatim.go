// Package geocode wraps the Nominatim reverse-geocoding and address-search
// endpoints used for wizard location resolution.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/luisltferreira/CliMate-App/internal/domain"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"
	defaultTimeout = 10 * time.Second
	defaultAgent   = "climate-api"

	// Returned when the service answers but knows no address for the
	// coordinates.
	addressNotFound = "Address not found"
)

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

type Option func(*Client)

// WithBaseURL points the client at a different Nominatim instance.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		userAgent: defaultAgent,
		http:      &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reverse resolves coordinates to a display address. An answer without a
// display name yields the "Address not found" text rather than an error.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("format", "json")

	var payload struct {
		DisplayName string `json:"display_name"`
	}
	if err := c.get(ctx, "/reverse", q, &payload); err != nil {
		return "", err
	}
	if payload.DisplayName == "" {
		return addressNotFound, nil
	}
	return payload.DisplayName, nil
}

// Search resolves a free-form address query to coordinates, taking the first
// hit. No hit yields domain.ErrAddressNotFound.
func (c *Client) Search(ctx context.Context, query string) (domain.Coordinates, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")

	// Nominatim serializes coordinates as strings.
	var payload []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := c.get(ctx, "/search", q, &payload); err != nil {
		return domain.Coordinates{}, err
	}
	if len(payload) == 0 {
		return domain.Coordinates{}, domain.ErrAddressNotFound
	}

	lat, err := strconv.ParseFloat(payload[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse lat: %w", err)
	}
	lng, err := strconv.ParseFloat(payload[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse lon: %w", err)
	}

	c2 := domain.Coordinates{Lat: lat, Lng: lng}
	if !c2.Valid() {
		return domain.Coordinates{}, domain.ErrInvalidCoordinates
	}
	return c2, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("geocode request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

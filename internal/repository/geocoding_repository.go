package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fakhrymubarak/ac-temp-advisor/internal/config"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/model"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/redis"
)

// GeocodingRepository resolves a postal code to coordinates and a display name.
type GeocodingRepository interface {
	Resolve(ctx context.Context, postalCode string) (*model.Location, error)
}

// GeocodeQuota reserves one upstream call before it is made.
type GeocodeQuota interface {
	Acquire(ctx context.Context) error
}

type GeocodingConfig struct {
	BaseURL string
	APIKey  string
	// Country is appended to the postal code in the query, e.g. "110001 India".
	Country string
	Quota   GeocodeQuota
}

// DefaultGeocodingConfig builds the config from config.yaml and the environment.
func DefaultGeocodingConfig() GeocodingConfig {
	cfg := GeocodingConfig{
		BaseURL: config.GetOpenCageApiUrl(),
		APIKey:  config.GetOpenCageAPIKey(),
		Country: config.GetGeocodingCountry(),
	}
	if q := redis.NewDailyQuotaFromConfig(); q != nil {
		cfg.Quota = q
	}
	return cfg
}

type geocodingRepository struct {
	cfg        GeocodingConfig
	httpClient *http.Client
}

// NewGeocodingRepository creates an OpenCage-backed resolver.
func NewGeocodingRepository(cfg GeocodingConfig, httpClient ...*http.Client) GeocodingRepository {
	client := NewHTTPClient()
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &geocodingRepository{
		cfg:        cfg,
		httpClient: client,
	}
}

// Resolve returns the first geocoding result for the postal code.
func (r *geocodingRepository) Resolve(ctx context.Context, postalCode string) (*model.Location, error) {
	log := config.GetLogger()

	if err := r.acquireQuota(ctx); err != nil {
		return nil, err
	}

	reqURL, err := r.buildURL(postalCode)
	if err != nil {
		return nil, &GeocodingError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &GeocodingError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		log.Warnw("Geocoding request failed", "postal_code", postalCode, "error", err)
		return nil, &GeocodingError{Err: &NetworkError{Operation: "geocoding", Err: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnw("Geocoding returned non-200", "postal_code", postalCode, "status", resp.StatusCode)
		return nil, &GeocodingError{StatusCode: resp.StatusCode}
	}

	var data model.OpenCageResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &GeocodingError{Err: fmt.Errorf("decoding response: %w", err)}
	}

	// A "results": [] payload decodes to an empty non-nil slice; nil means the key was absent.
	if data.Results == nil {
		return nil, fmt.Errorf("geocoding results: %w", ErrMissingField)
	}
	if len(data.Results) == 0 {
		return nil, &InvalidLocationError{PostalCode: postalCode}
	}

	first := data.Results[0]
	if first.Geometry.Lat == nil || first.Geometry.Lng == nil {
		return nil, fmt.Errorf("geocoding geometry: %w", ErrMissingField)
	}

	location := &model.Location{
		Latitude:  *first.Geometry.Lat,
		Longitude: *first.Geometry.Lng,
		Name:      first.Formatted,
	}
	log.Debugw("Resolved postal code", "postal_code", postalCode, "location", location.Name, "candidates", len(data.Results))
	return location, nil
}

func (r *geocodingRepository) acquireQuota(ctx context.Context) error {
	if r.cfg.Quota == nil {
		return nil
	}
	err := r.cfg.Quota.Acquire(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.ErrQuotaExceeded) {
		return &GeocodingError{Err: err}
	}
	// The counter is advisory; an unreachable redis must not block lookups.
	config.GetLogger().Warnw("Geocoding quota unavailable, continuing", "error", err)
	return nil
}

func (r *geocodingRepository) buildURL(postalCode string) (string, error) {
	u, err := url.Parse(r.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing geocoding url: %w", err)
	}
	query := u.Query()
	query.Set("q", postalCode+" "+r.cfg.Country)
	query.Set("key", r.cfg.APIKey)
	u.RawQuery = query.Encode()
	return u.String(), nil
}

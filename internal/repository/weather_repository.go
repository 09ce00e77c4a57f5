package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fakhrymubarak/ac-temp-advisor/internal/config"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/model"
)

const currentFields = "temperature_2m,relative_humidity_2m"

// WeatherRepository defines the interface for current weather access
type WeatherRepository interface {
	GetCurrent(ctx context.Context, latitude, longitude float64) (*model.WeatherReading, error)
}

// weatherRepository implements WeatherRepository against Open-Meteo
type weatherRepository struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient returns the client shared by both upstream lookups.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: config.GetHTTPTimeout()}
}

// NewWeatherRepository creates a new weather repository instance. An empty
// baseURL falls back to openmeteo.api_url.
func NewWeatherRepository(baseURL string, httpClient ...*http.Client) WeatherRepository {
	if baseURL == "" {
		baseURL = config.GetOpenMeteoApiUrl()
	}
	client := NewHTTPClient()
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &weatherRepository{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// GetCurrent fetches temperature and relative humidity at 2m for now.
func (r *weatherRepository) GetCurrent(ctx context.Context, latitude, longitude float64) (*model.WeatherReading, error) {
	log := config.GetLogger()

	reqURL, err := r.buildURL(latitude, longitude)
	if err != nil {
		return nil, &WeatherFetchError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &WeatherFetchError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		log.Warnw("Weather request failed", "lat", latitude, "lng", longitude, "error", err)
		return nil, &WeatherFetchError{Err: &NetworkError{Operation: "weather fetch", Err: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnw("Weather API returned non-200", "lat", latitude, "lng", longitude, "status", resp.StatusCode)
		return nil, &WeatherFetchError{StatusCode: resp.StatusCode}
	}

	var data model.OpenMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &WeatherFetchError{Err: fmt.Errorf("decoding response: %w", err)}
	}

	if data.Current == nil {
		return nil, fmt.Errorf("weather current block: %w", ErrMissingField)
	}
	if data.Current.Temperature2m == nil || data.Current.RelativeHumidity2m == nil {
		return nil, fmt.Errorf("weather current values: %w", ErrMissingField)
	}

	return &model.WeatherReading{
		Temperature: *data.Current.Temperature2m,
		Humidity:    *data.Current.RelativeHumidity2m,
	}, nil
}

func (r *weatherRepository) buildURL(latitude, longitude float64) (string, error) {
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing weather url: %w", err)
	}
	query := u.Query()
	query.Set("latitude", formatFloat(latitude))
	query.Set("longitude", formatFloat(longitude))
	query.Set("current", currentFields)
	u.RawQuery = query.Encode()
	return u.String(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

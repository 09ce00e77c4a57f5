package service

import (
	"context"
	"errors"

	"github.com/fakhrymubarak/ac-temp-advisor/internal/config"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/model"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/repository"
)

// CalculatorServiceInterface is what the console and HTTP front ends depend on.
type CalculatorServiceInterface interface {
	Lookup(ctx context.Context, postalCode string) (*model.Conditions, error)
	Compute(cond *model.Conditions, room model.Room) *model.CalculationResult
	Calculate(ctx context.Context, postalCode string, room model.Room) (*model.CalculationResult, error)
}

type CalculatorService struct {
	Geocoder    repository.GeocodingRepository
	WeatherRepo repository.WeatherRepository
}

// NewCalculatorService wires the given repositories. Nil arguments fall back
// to the OpenCage and Open-Meteo repositories built from config.
func NewCalculatorService(geocoder repository.GeocodingRepository, weather repository.WeatherRepository) *CalculatorService {
	if geocoder == nil || weather == nil {
		client := repository.NewHTTPClient()
		if geocoder == nil {
			geocoder = repository.NewGeocodingRepository(repository.DefaultGeocodingConfig(), client)
		}
		if weather == nil {
			weather = repository.NewWeatherRepository("", client)
		}
	}
	return &CalculatorService{
		Geocoder:    geocoder,
		WeatherRepo: weather,
	}
}

// Lookup resolves the postal code and fetches the current weather there.
func (s *CalculatorService) Lookup(ctx context.Context, postalCode string) (*model.Conditions, error) {
	location, err := s.Geocoder.Resolve(ctx, postalCode)
	if err != nil {
		return nil, classify(err)
	}

	reading, err := s.WeatherRepo.GetCurrent(ctx, location.Latitude, location.Longitude)
	if err != nil {
		return nil, classify(err)
	}

	return &model.Conditions{
		Location: *location,
		Weather:  *reading,
	}, nil
}

// Compute applies the formula to conditions that were already fetched.
func (s *CalculatorService) Compute(cond *model.Conditions, room model.Room) *model.CalculationResult {
	volume := room.Volume()
	optimal := OptimalTemperature(cond.Weather.Temperature, cond.Weather.Humidity, room.Occupants, volume)

	config.GetLogger().Infow("Computed optimal temperature",
		"location", cond.Location.Name,
		"outdoor_temp", cond.Weather.Temperature,
		"humidity", cond.Weather.Humidity,
		"occupants", room.Occupants,
		"volume", volume,
		"optimal", optimal,
	)

	return &model.CalculationResult{
		OptimalTemp:     optimal,
		CurrentTemp:     cond.Weather.Temperature,
		CurrentHumidity: cond.Weather.Humidity,
		Location:        cond.Location.Name,
		Room:            room,
		RoomVolume:      volume,
	}
}

// Calculate validates the inputs, then runs Lookup and Compute. Any failure
// returns a nil result.
func (s *CalculatorService) Calculate(ctx context.Context, postalCode string, room model.Room) (*model.CalculationResult, error) {
	if err := ValidateInputs(postalCode, room.Occupants, room.Length, room.Width, room.Height); err != nil {
		return nil, err
	}

	cond, err := s.Lookup(ctx, postalCode)
	if err != nil {
		return nil, err
	}
	return s.Compute(cond, room), nil
}

// classify passes the typed upstream errors through and wraps everything else.
func classify(err error) error {
	var (
		geoErr     *repository.GeocodingError
		invalidErr *repository.InvalidLocationError
		weatherErr *repository.WeatherFetchError
	)
	switch {
	case errors.As(err, &geoErr), errors.As(err, &invalidErr), errors.As(err, &weatherErr):
		return err
	default:
		config.GetLogger().Errorw("Unexpected lookup failure", "error", err)
		return &UnexpectedError{Err: err}
	}
}

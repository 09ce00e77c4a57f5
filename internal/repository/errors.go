package repository

import (
	"errors"
	"fmt"
)

// ErrMissingField is returned when an upstream answers 200 but omits a key we need.
var ErrMissingField = errors.New("missing field in upstream response")

// NetworkError represents a transport failure, including client timeouts.
type NetworkError struct {
	Operation string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// GeocodingError is a failed postal code lookup. StatusCode is zero when no
// HTTP response was received or the body could not be decoded.
type GeocodingError struct {
	StatusCode int
	Err        error
}

func (e *GeocodingError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("geocoding failed (%d)", e.StatusCode)
	}
	return fmt.Sprintf("geocoding failed: %v", e.Err)
}

func (e *GeocodingError) Unwrap() error {
	return e.Err
}

// InvalidLocationError means the geocoder found nothing for the postal code.
type InvalidLocationError struct {
	PostalCode string
}

func (e *InvalidLocationError) Error() string {
	return "invalid postal code"
}

// WeatherFetchError is a failed current-conditions request.
type WeatherFetchError struct {
	StatusCode int
	Err        error
}

func (e *WeatherFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("weather API failed (%d)", e.StatusCode)
	}
	return fmt.Sprintf("weather API failed: %v", e.Err)
}

func (e *WeatherFetchError) Unwrap() error {
	return e.Err
}

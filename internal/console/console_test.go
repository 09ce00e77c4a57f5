package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fakhrymubarak/ac-temp-advisor/internal/model"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/repository"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/service"
)

type fakeGeocoder struct {
	err   error
	calls int
}

func (f *fakeGeocoder) Resolve(ctx context.Context, postalCode string) (*model.Location, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &model.Location{Latitude: 28.63, Longitude: 77.22, Name: "New Delhi, Delhi 110001, India"}, nil
}

type fakeWeather struct {
	calls int
}

func (f *fakeWeather) GetCurrent(ctx context.Context, latitude, longitude float64) (*model.WeatherReading, error) {
	f.calls++
	return &model.WeatherReading{Temperature: 35, Humidity: 90}, nil
}

func run(t *testing.T, input string, geoErr error) (string, int, *fakeGeocoder, *fakeWeather) {
	t.Helper()
	geo := &fakeGeocoder{err: geoErr}
	weather := &fakeWeather{}
	svc := service.NewCalculatorService(geo, weather)
	var out bytes.Buffer
	code := Run(context.Background(), strings.NewReader(input), &out, svc)
	return out.String(), code, geo, weather
}

func TestRun_Success(t *testing.T) {
	out, code, geo, weather := run(t, "110001\n20\n10\n6\n2.5\n", nil)

	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\n%s", code, out)
	}
	for _, want := range []string{
		"Location: New Delhi, Delhi 110001, India",
		"Current Temperature: 35°C",
		"Current Humidity: 90%",
		"Enter number of students: ",
		"Optimal AC Temperature: 23.3°C",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q\n%s", want, out)
		}
	}
	if geo.calls != 1 || weather.calls != 1 {
		t.Errorf("Expected a single lookup per session, got geocode=%d weather=%d", geo.calls, weather.calls)
	}
}

func TestRun_InvalidPostalCodeFormat(t *testing.T) {
	out, code, geo, _ := run(t, "1100\n", nil)

	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if !strings.Contains(out, "Error: invalid postal code format") {
		t.Errorf("Unexpected output:\n%s", out)
	}
	if geo.calls != 0 {
		t.Error("Expected no geocoding call for a malformed postal code")
	}
}

func TestRun_UnknownPostalCode(t *testing.T) {
	out, code, _, weather := run(t, "999999\n", &repository.InvalidLocationError{PostalCode: "999999"})

	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if !strings.Contains(out, "Error: invalid postal code") {
		t.Errorf("Unexpected output:\n%s", out)
	}
	if strings.Contains(out, "Enter number of students") {
		t.Error("Expected room prompts to be skipped")
	}
	if weather.calls != 0 {
		t.Error("Expected no weather call")
	}
}

func TestRun_GeocodingFailure(t *testing.T) {
	out, code, _, _ := run(t, "110001\n", &repository.GeocodingError{StatusCode: 401})

	if code != 1 || !strings.Contains(out, "Error: geocoding failed (401)") {
		t.Errorf("Unexpected result %d:\n%s", code, out)
	}
}

func TestRun_NonNumericInput(t *testing.T) {
	out, code, _, _ := run(t, "110001\ntwenty\n", nil)

	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if !strings.Contains(out, "Error: please enter valid numeric values") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestRun_NonPositiveDimension(t *testing.T) {
	out, code, _, _ := run(t, "110001\n20\n10\n0\n2.5\n", nil)

	if code != 1 || !strings.Contains(out, "Error: room dimensions must be positive") {
		t.Errorf("Unexpected result %d:\n%s", code, out)
	}
}

func TestRun_ZeroOccupants(t *testing.T) {
	out, code, _, _ := run(t, "110001\n0\n10\n6\n2.5\n", nil)

	if code != 1 || !strings.Contains(out, "Error: occupant count must be positive") {
		t.Errorf("Unexpected result %d:\n%s", code, out)
	}
}

func TestRun_InputEndsEarly(t *testing.T) {
	out, code, _, _ := run(t, "110001\n20\n", nil)

	if code != 1 || !strings.Contains(out, "Error: input ended") {
		t.Errorf("Unexpected result %d:\n%s", code, out)
	}
}

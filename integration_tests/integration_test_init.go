package integrationtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
)

const testAPIKey = "test_api_key"

// upstreamStub fakes OpenCage and Open-Meteo on one server and counts the calls it serves.
type upstreamStub struct {
	server        *httptest.Server
	geocodeCalls  atomic.Int32
	forecastCalls atomic.Int32
	forecastFails atomic.Bool
}

func newUpstreamStub() *upstreamStub {
	stub := &upstreamStub{}
	mux := http.NewServeMux()
	mux.HandleFunc("/geocode/v1/json", stub.geocode)
	mux.HandleFunc("/v1/forecast", stub.forecast)
	stub.server = httptest.NewServer(mux)
	return stub
}

func (s *upstreamStub) GeocodeURL() string  { return s.server.URL + "/geocode/v1/json" }
func (s *upstreamStub) ForecastURL() string { return s.server.URL + "/v1/forecast" }

func (s *upstreamStub) Close() { s.server.Close() }

func (s *upstreamStub) geocode(w http.ResponseWriter, r *http.Request) {
	s.geocodeCalls.Add(1)
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("key") != testAPIKey {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"results":[],"status":{"code":401,"message":"invalid API key"}}`))
		return
	}
	if r.URL.Query().Get("q") != "110001 India" {
		_, _ = w.Write([]byte(`{"results":[],"status":{"code":200,"message":"OK"}}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"results": []map[string]interface{}{
			{"formatted": "New Delhi, Delhi 110001, India", "geometry": map[string]float64{"lat": 28.6328, "lng": 77.2197}},
			{"formatted": "Somewhere else", "geometry": map[string]float64{"lat": 1, "lng": 1}},
		},
		"status": map[string]interface{}{"code": 200, "message": "OK"},
	})
}

func (s *upstreamStub) forecast(w http.ResponseWriter, r *http.Request) {
	s.forecastCalls.Add(1)
	if s.forecastFails.Load() {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":true,"reason":"upstream down"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"latitude":28.625,"longitude":77.25,"current":{"time":"2026-05-01T12:00","temperature_2m":35,"relative_humidity_2m":90}}`))
}

package handler

import (
	"net/http"

	"github.com/fakhrymubarak/ac-temp-advisor/internal/middleware"
)

// NewRouter registers the form page, the JSON API and the health probe.
// Calculations go through the limiter; loading the empty form does not.
func NewRouter(h *CalculatorHandler, limiter *middleware.RateLimiter) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.HandleFormPage)
	mux.Handle("POST /{$}", limiter.Middleware(http.HandlerFunc(h.HandleFormSubmit)))
	mux.Handle("/api/optimal-temperature", limiter.Middleware(http.HandlerFunc(h.HandleCalculate)))
	mux.HandleFunc("GET /healthz", h.HandleHealth)

	return mux
}

package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/fakhrymubarak/ac-temp-advisor/internal/config"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/model"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/redis"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/repository"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/service"
	"github.com/fakhrymubarak/ac-temp-advisor/internal/views"
)

type CalculatorHandler struct {
	CalculatorService service.CalculatorServiceInterface
	Country           string
}

func NewCalculatorHandler(svc ...service.CalculatorServiceInterface) *CalculatorHandler {
	var calculator service.CalculatorServiceInterface
	if len(svc) > 0 && svc[0] != nil {
		calculator = svc[0]
	} else {
		calculator = service.NewCalculatorService(nil, nil)
	}
	return &CalculatorHandler{
		CalculatorService: calculator,
		Country:           config.GetGeocodingCountry(),
	}
}

// writeJSONResponse encodes before writing the header so an encode failure
// still reaches the client as a 500.
func (h *CalculatorHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		config.GetLogger().Errorw("could not encode json", "error", err)
		buf.Reset()
		statusCode = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(model.ErrorResponse("Error", "could not encode response"))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		config.GetLogger().Errorw("json write failed", "error", err)
	}
}

// HandleCalculate serves GET and POST /api/optimal-temperature.
func (h *CalculatorHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
		h.writeJSONResponse(w, http.StatusMethodNotAllowed, model.ErrorResponse("Error", "Method not allowed"))
		return
	}

	postalCode, room, err := parseCalculationParams(r)
	if err != nil {
		h.writeJSONResponse(w, http.StatusBadRequest, model.ErrorResponse("Error", err.Error()))
		return
	}

	result, err := h.CalculatorService.Calculate(r.Context(), postalCode, room)
	if err != nil {
		status := statusFor(err)
		config.GetLogger().Warnw("Calculation failed", "postal_code", postalCode, "status", status, "error", err)
		h.writeJSONResponse(w, status, model.ErrorResponse("Error", err.Error()))
		return
	}

	h.writeJSONResponse(w, http.StatusOK, model.SuccessResponse(result))
}

// HandleFormPage renders the empty form.
func (h *CalculatorHandler) HandleFormPage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, http.StatusOK, views.FormPageData{
		Country: h.Country,
		Form:    views.DefaultFormValues(),
	})
}

// HandleFormSubmit renders either an error banner or the result panel.
func (h *CalculatorHandler) HandleFormSubmit(w http.ResponseWriter, r *http.Request) {
	data := views.FormPageData{
		Country: h.Country,
		Form: views.FormValues{
			PostalCode: strings.TrimSpace(r.FormValue("postal_code")),
			Occupants:  r.FormValue("occupants"),
			Length:     r.FormValue("length"),
			Width:      r.FormValue("width"),
			Height:     r.FormValue("height"),
		},
	}

	postalCode, room, err := parseCalculationParams(r)
	if err == nil {
		err = checkFormBounds(room)
	}
	if err != nil {
		data.Error = err.Error()
		h.renderForm(w, http.StatusBadRequest, data)
		return
	}

	result, err := h.CalculatorService.Calculate(r.Context(), postalCode, room)
	if err != nil {
		status := statusFor(err)
		config.GetLogger().Warnw("Form calculation failed", "postal_code", postalCode, "status", status, "error", err)
		data.Error = err.Error()
		h.renderForm(w, status, data)
		return
	}

	data.Result = result
	h.renderForm(w, http.StatusOK, data)
}

func (h *CalculatorHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, model.Response{Message: "ok"})
}

func (h *CalculatorHandler) renderForm(w http.ResponseWriter, status int, data views.FormPageData) {
	var buf bytes.Buffer
	if err := views.RenderForm(&buf, data); err != nil {
		config.GetLogger().Errorw("form template render failed", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		config.GetLogger().Errorw("form write failed", "error", err)
	}
}

func parseCalculationParams(r *http.Request) (string, model.Room, error) {
	postalCode := strings.TrimSpace(r.FormValue("postal_code"))
	if postalCode == "" {
		return "", model.Room{}, &service.ValidationError{Field: "postal_code", Message: "missing 'postal_code' parameter"}
	}

	occupants, err := strconv.Atoi(strings.TrimSpace(r.FormValue("occupants")))
	if err != nil {
		return "", model.Room{}, numericError("occupants")
	}

	var dims [3]float64
	for i, field := range []string{"length", "width", "height"} {
		v, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue(field)), 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return "", model.Room{}, numericError(field)
		}
		dims[i] = v
	}

	return postalCode, model.Room{
		Occupants: occupants,
		Length:    dims[0],
		Width:     dims[1],
		Height:    dims[2],
	}, nil
}

func numericError(field string) error {
	return &service.ValidationError{Field: field, Message: "please enter a valid numeric value for " + field}
}

// checkFormBounds mirrors the limits of the form widgets.
func checkFormBounds(room model.Room) error {
	switch {
	case room.Occupants < 1 || room.Occupants > 100:
		return &service.ValidationError{Field: "occupants", Message: "number of students must be between 1 and 100"}
	case room.Length < 1 || room.Length > 30:
		return &service.ValidationError{Field: "length", Message: "length must be between 1.0 and 30.0 m"}
	case room.Width < 1 || room.Width > 30:
		return &service.ValidationError{Field: "width", Message: "width must be between 1.0 and 30.0 m"}
	case room.Height < 1 || room.Height > 10:
		return &service.ValidationError{Field: "height", Message: "height must be between 1.0 and 10.0 m"}
	}
	return nil
}

// statusFor maps the calculator's error kinds to HTTP status codes.
func statusFor(err error) int {
	var (
		validationErr *service.ValidationError
		invalidErr    *repository.InvalidLocationError
		geoErr        *repository.GeocodingError
		weatherErr    *repository.WeatherFetchError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &invalidErr):
		return http.StatusNotFound
	case errors.Is(err, redis.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.As(err, &geoErr), errors.As(err, &weatherErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

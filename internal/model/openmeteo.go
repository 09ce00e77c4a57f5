package model

// OpenMeteoResponse holds the "current" block requested with
// current=temperature_2m,relative_humidity_2m.
type OpenMeteoResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   *struct {
		Time               string   `json:"time"`
		Temperature2m      *float64 `json:"temperature_2m"`
		RelativeHumidity2m *float64 `json:"relative_humidity_2m"`
	} `json:"current"`
}

package model

// Location is a geocoded postal code.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
}

// WeatherReading is the outdoor state at the moment of the request.
type WeatherReading struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// Conditions bundles what the preview step shows before room details are known.
type Conditions struct {
	Location Location       `json:"location"`
	Weather  WeatherReading `json:"weather"`
}

// Room describes the space being cooled. Dimensions are in meters.
type Room struct {
	Occupants int     `json:"occupants"`
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

func (r Room) Volume() float64 {
	return r.Length * r.Width * r.Height
}

type CalculationResult struct {
	OptimalTemp     float64 `json:"optimal_temp"`
	CurrentTemp     float64 `json:"current_temp"`
	CurrentHumidity float64 `json:"current_humidity"`
	Location        string  `json:"location"`
	Room            Room    `json:"room"`
	RoomVolume      float64 `json:"room_volume"`
}

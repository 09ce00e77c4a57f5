package service

const (
	baseTemp = 24.0
	minTemp  = 20.0
	maxTemp  = 26.0

	humidityPenaltyThreshold = 80.0
)

// OptimalTemperature returns the recommended setpoint in °C for outdoor
// temperature t (°C), relative humidity rh (%), n occupants and room volume v (m³),
// clamped to [20, 26].
//
// Each product is wrapped in float64() so the compiler cannot fuse it into a
// multiply-add; the result must match evaluating the terms one by one.
func OptimalTemperature(t, rh float64, n int, v float64) float64 {
	adj := float64(-0.1*(t-35)) -
		float64(0.05*((rh-50)/10)) -
		float64(0.02*float64(n-20)) +
		float64(0.001*(v-150))

	optimal := baseTemp + adj
	if rh > humidityPenaltyThreshold {
		optimal -= float64(0.5 * ((rh - humidityPenaltyThreshold) / 10))
	}
	return max(minTemp, min(maxTemp, optimal))
}

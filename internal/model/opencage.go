package model

// OpenCageResponse is the subset of the OpenCage forward geocoding payload we read.
type OpenCageResponse struct {
	Results []OpenCageResult `json:"results"`
	Status  struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
}

type OpenCageResult struct {
	Geometry struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	} `json:"geometry"`
	Formatted string `json:"formatted"`
}

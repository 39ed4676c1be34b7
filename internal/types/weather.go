package types

// WeatherSnapshot summarises expected weather at a destination. It is
// produced either from a live forecast or from the synthetic fallback
// tables, so every field is always populated.
type WeatherSnapshot struct {
	Location   string  `json:"location"`
	TempAvg    float64 `json:"temp_avg"`
	TempMin    float64 `json:"temp_min"`
	TempMax    float64 `json:"temp_max"`
	Conditions string  `json:"conditions"`
	Season     string  `json:"season"`
	Icon       string  `json:"icon"`
}

// ForecastDay is one day of a live provider forecast.
type ForecastDay struct {
	Date       string  `json:"date"`
	TempMin    float64 `json:"temp_min"`
	TempMax    float64 `json:"temp_max"`
	Conditions string  `json:"conditions"`
}

// Forecast is the provider-level forecast series the snapshot is computed
// from.
type Forecast struct {
	Location     string        `json:"location"`
	Latitude     float64       `json:"latitude"`
	Longitude    float64       `json:"longitude"`
	Current      float64       `json:"current"`
	ForecastDays []ForecastDay `json:"forecast_days"`
}

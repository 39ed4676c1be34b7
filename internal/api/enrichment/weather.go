package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/wanderly/wanderly-api/internal/types"
)

var _ WeatherProvider = (*HTTPWeatherProvider)(nil)

// HTTPWeatherProvider fetches a daily forecast from an Open-Meteo-compatible
// endpoint. The place name is resolved to coordinates through the geocoder
// first.
type HTTPWeatherProvider struct {
	baseURL  string
	client   *http.Client
	geocoder Geocoder
}

func NewHTTPWeatherProvider(baseURL string, client *http.Client, geocoder Geocoder) *HTTPWeatherProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPWeatherProvider{baseURL: baseURL, client: client, geocoder: geocoder}
}

type openMeteoResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
	} `json:"current_weather"`
	Daily struct {
		Time        []string  `json:"time"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
		WeatherCode []int     `json:"weathercode"`
	} `json:"daily"`
}

func (w *HTTPWeatherProvider) Forecast(ctx context.Context, location string, days int) (*types.Forecast, error) {
	hits, err := w.geocoder.Search(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve forecast location: %w", err)
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("no coordinates found for %q", location)
	}
	lat, lon := hits[0].Latitude, hits[0].Longitude

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", lat))
	params.Set("longitude", fmt.Sprintf("%.4f", lon))
	params.Set("daily", "temperature_2m_max,temperature_2m_min,weathercode")
	params.Set("current_weather", "true")
	params.Set("forecast_days", fmt.Sprintf("%d", days))
	params.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build forecast request: %w", err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast request returned status %d", resp.StatusCode)
	}

	var raw openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode forecast response: %w", err)
	}

	forecast := &types.Forecast{
		Location:  location,
		Latitude:  lat,
		Longitude: lon,
		Current:   raw.CurrentWeather.Temperature,
	}
	for i := range raw.Daily.Time {
		day := types.ForecastDay{Date: raw.Daily.Time[i]}
		if i < len(raw.Daily.TempMin) {
			day.TempMin = raw.Daily.TempMin[i]
		}
		if i < len(raw.Daily.TempMax) {
			day.TempMax = raw.Daily.TempMax[i]
		}
		if i < len(raw.Daily.WeatherCode) {
			day.Conditions = describeWeatherCode(raw.Daily.WeatherCode[i])
		}
		forecast.ForecastDays = append(forecast.ForecastDays, day)
	}
	if len(forecast.ForecastDays) == 0 {
		return nil, fmt.Errorf("forecast response carried no daily series")
	}
	return forecast, nil
}

// SnapshotFromForecast reduces a forecast series to the single card shown in
// the UI. Season comes from the latitude sign and the current month.
func SnapshotFromForecast(f *types.Forecast, now time.Time) *types.WeatherSnapshot {
	minT, maxT := f.ForecastDays[0].TempMin, f.ForecastDays[0].TempMax
	var sum float64
	conditions := map[string]int{}
	for _, d := range f.ForecastDays {
		if d.TempMin < minT {
			minT = d.TempMin
		}
		if d.TempMax > maxT {
			maxT = d.TempMax
		}
		sum += (d.TempMin + d.TempMax) / 2
		conditions[d.Conditions]++
	}

	dominant := f.ForecastDays[0].Conditions
	best := 0
	for c, n := range conditions {
		if n > best {
			dominant, best = c, n
		}
	}

	return &types.WeatherSnapshot{
		Location:   f.Location,
		TempAvg:    round1(sum / float64(len(f.ForecastDays))),
		TempMin:    round1(minT),
		TempMax:    round1(maxT),
		Conditions: dominant,
		Season:     seasonFor(f.Latitude, now.Month()),
		Icon:       iconFor(dominant),
	}
}

func seasonFor(latitude float64, month time.Month) string {
	northern := latitude >= 0
	switch month {
	case time.December, time.January, time.February:
		if northern {
			return "winter"
		}
		return "summer"
	case time.March, time.April, time.May:
		if northern {
			return "spring"
		}
		return "autumn"
	case time.June, time.July, time.August:
		if northern {
			return "summer"
		}
		return "winter"
	default:
		if northern {
			return "autumn"
		}
		return "spring"
	}
}

func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code <= 3:
		return "Partly cloudy"
	case code <= 48:
		return "Foggy"
	case code <= 67:
		return "Rainy"
	case code <= 77:
		return "Snowy"
	case code <= 82:
		return "Rain showers"
	default:
		return "Thunderstorms"
	}
}

func iconFor(conditions string) string {
	switch conditions {
	case "Clear sky":
		return "sun"
	case "Partly cloudy":
		return "cloud-sun"
	case "Foggy":
		return "fog"
	case "Rainy", "Rain showers":
		return "rain"
	case "Snowy":
		return "snow"
	case "Thunderstorms":
		return "storm"
	default:
		return "cloud"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

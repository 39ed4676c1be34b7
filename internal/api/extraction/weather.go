package extraction

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/wanderly/wanderly-api/internal/api/enrichment"
	"github.com/wanderly/wanderly-api/internal/types"
)

const forecastDays = 7

var weatherLocationRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bweather\s+in\s+([A-Za-z][A-Za-z '\-]{1,40}?)(?:[.,!?]|\s+(?:is|will|this|next)\b|$)`),
	// Keywords match any case; the place itself must be capitalized.
	regexp.MustCompile(`\b(?i:in|at)\s+([A-Z][A-Za-z '\-]{1,40}?)\s+(?i:is|ranges|averages)\b`),
	regexp.MustCompile(`\b([A-Z][A-Za-z '\-]{1,40}?)'s\s+(?i:weather|climate|temperatures)\b`),
}

var weatherKeywordRe = regexp.MustCompile(`(?i)\b(?:weather|temperature|climate|forecast|rainy|sunny|humid|cold|warm|hot)\b`)

// extractWeather resolves a location (session destination first, then text
// patterns), attempts a live forecast, and degrades to the synthetic table
// generator only when the text actually talks about weather.
func (e *Engine) extractWeather(ctx context.Context, modelText string, sess *types.TravelSession) *types.WeatherSnapshot {
	location := ""
	if sess != nil && sess.Destination != "" {
		location = sess.Destination
	} else {
		for _, re := range weatherLocationRes {
			if m := re.FindStringSubmatch(modelText); m != nil {
				location = strings.TrimSpace(m[1])
				break
			}
		}
	}
	if location == "" {
		return nil
	}

	forecast, err := e.weather.Forecast(ctx, location, forecastDays)
	if err == nil && len(forecast.ForecastDays) > 0 {
		return enrichment.SnapshotFromForecast(forecast, e.clock())
	}
	if err != nil {
		e.logger.DebugContext(ctx, "live forecast unavailable",
			slog.String("location", location), slog.Any("error", err))
	}

	if !weatherKeywordRe.MatchString(modelText) {
		return nil
	}
	return syntheticWeather(location, e.clock())
}

type seasonWeather struct {
	min, max   float64
	conditions string
	icon       string
}

// Per-city four-season tables for the synthetic generator. Seasons are
// mapped from the calendar month with the Northern-hemisphere convention
// only; the fallback path does no hemisphere detection.
var cityWeatherTables = map[string]map[string]seasonWeather{
	"tokyo": {
		"winter": {2, 12, "Clear and crisp", "sun"},
		"spring": {10, 20, "Mild with cherry blossoms", "cloud-sun"},
		"summer": {23, 32, "Hot and humid", "sun"},
		"autumn": {12, 22, "Cool and clear", "cloud-sun"},
	},
	"paris": {
		"winter": {1, 8, "Cold and overcast", "cloud"},
		"spring": {7, 17, "Mild with showers", "rain"},
		"summer": {15, 26, "Warm and sunny", "sun"},
		"autumn": {8, 16, "Cool and rainy", "rain"},
	},
	"london": {
		"winter": {2, 9, "Cold and drizzly", "rain"},
		"spring": {6, 15, "Changeable with showers", "cloud-sun"},
		"summer": {13, 23, "Mild and partly sunny", "cloud-sun"},
		"autumn": {7, 15, "Cool and wet", "rain"},
	},
	"new york": {
		"winter": {-3, 5, "Cold with snow", "snow"},
		"spring": {7, 18, "Mild and breezy", "cloud-sun"},
		"summer": {20, 30, "Hot and humid", "sun"},
		"autumn": {9, 18, "Crisp and clear", "cloud-sun"},
	},
	"dubai": {
		"winter": {15, 26, "Warm and sunny", "sun"},
		"spring": {21, 34, "Hot and dry", "sun"},
		"summer": {30, 42, "Very hot", "sun"},
		"autumn": {23, 35, "Hot and clear", "sun"},
	},
	"bali": {
		"winter": {23, 30, "Tropical and dry", "sun"},
		"spring": {24, 31, "Warm with showers", "rain"},
		"summer": {23, 30, "Dry season sunshine", "sun"},
		"autumn": {24, 31, "Humid with storms", "storm"},
	},
	"rome": {
		"winter": {4, 13, "Cool and damp", "cloud"},
		"spring": {9, 19, "Mild and sunny", "cloud-sun"},
		"summer": {18, 31, "Hot and dry", "sun"},
		"autumn": {11, 21, "Mild with rain", "rain"},
	},
	"barcelona": {
		"winter": {6, 14, "Mild and sunny", "cloud-sun"},
		"spring": {11, 19, "Pleasant and bright", "sun"},
		"summer": {21, 29, "Hot and sunny", "sun"},
		"autumn": {13, 21, "Warm with showers", "cloud-sun"},
	},
}

var genericWeatherTable = map[string]seasonWeather{
	"winter": {5, 13, "Cool with occasional rain", "cloud"},
	"spring": {12, 20, "Mild and pleasant", "cloud-sun"},
	"summer": {20, 29, "Warm and mostly sunny", "sun"},
	"autumn": {11, 19, "Cool and breezy", "cloud-sun"},
}

func syntheticWeather(location string, now time.Time) *types.WeatherSnapshot {
	season := northernSeason(now.Month())
	table, ok := cityWeatherTables[strings.ToLower(strings.TrimSpace(location))]
	if !ok {
		table = genericWeatherTable
	}
	w := table[season]
	return &types.WeatherSnapshot{
		Location:   location,
		TempAvg:    (w.min + w.max) / 2,
		TempMin:    w.min,
		TempMax:    w.max,
		Conditions: w.conditions,
		Season:     season,
		Icon:       w.icon,
	}
}

func northernSeason(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}

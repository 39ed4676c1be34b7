package enrichment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wanderly/wanderly-api/internal/types"
)

func TestSnapshotFromForecast(t *testing.T) {
	f := &types.Forecast{
		Location: "Tokyo",
		Latitude: 35.68,
		ForecastDays: []types.ForecastDay{
			{Date: "2026-07-01", TempMin: 22, TempMax: 30, Conditions: "Clear sky"},
			{Date: "2026-07-02", TempMin: 23, TempMax: 32, Conditions: "Clear sky"},
			{Date: "2026-07-03", TempMin: 21, TempMax: 29, Conditions: "Rainy"},
		},
	}

	snap := SnapshotFromForecast(f, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "Tokyo", snap.Location)
	assert.Equal(t, 21.0, snap.TempMin)
	assert.Equal(t, 32.0, snap.TempMax)
	assert.InDelta(t, 26.2, snap.TempAvg, 0.1)
	assert.Equal(t, "Clear sky", snap.Conditions)
	assert.Equal(t, "summer", snap.Season)
	assert.Equal(t, "sun", snap.Icon)
}

func TestSeasonFor_HemisphereAndMonth(t *testing.T) {
	tests := []struct {
		name     string
		latitude float64
		month    time.Month
		want     string
	}{
		{"northern january", 48.85, time.January, "winter"},
		{"southern january", -33.87, time.January, "summer"},
		{"northern july", 35.68, time.July, "summer"},
		{"southern july", -33.87, time.July, "winter"},
		{"northern april", 51.5, time.April, "spring"},
		{"southern october", -8.65, time.October, "spring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, seasonFor(tt.latitude, tt.month))
		})
	}
}

func TestDescribeWeatherCode(t *testing.T) {
	assert.Equal(t, "Clear sky", describeWeatherCode(0))
	assert.Equal(t, "Partly cloudy", describeWeatherCode(2))
	assert.Equal(t, "Rainy", describeWeatherCode(61))
	assert.Equal(t, "Thunderstorms", describeWeatherCode(95))
}

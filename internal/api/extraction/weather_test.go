package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wanderly/wanderly-api/internal/types"
)

func TestExtractWeather_SyntheticFallbackWhenProviderFails(t *testing.T) {
	geocoder := new(MockGeocoder)
	weather := new(MockWeatherProvider)
	weather.On("Forecast", mock.Anything, "Tokyo", forecastDays).
		Return(nil, errors.New("provider down")).Once()
	e := newTestEngine(geocoder, weather)

	snap := e.extractWeather(context.Background(),
		"The weather in Tokyo is hot and humid in summer.",
		&types.TravelSession{Destination: "Tokyo"})
	require.NotNil(t, snap)
	assert.Equal(t, "Tokyo", snap.Location)
	// Fixed test clock puts us in July.
	assert.Equal(t, "summer", snap.Season)
	assert.Equal(t, 23.0, snap.TempMin)
	assert.Equal(t, 32.0, snap.TempMax)
	assert.Equal(t, 27.5, snap.TempAvg)
	assert.NotEmpty(t, snap.Conditions)
	assert.NotEmpty(t, snap.Icon)
}

func TestExtractWeather_LiveForecastPreferred(t *testing.T) {
	geocoder := new(MockGeocoder)
	weather := new(MockWeatherProvider)
	weather.On("Forecast", mock.Anything, "Reykjavik", forecastDays).Return(&types.Forecast{
		Location: "Reykjavik",
		ForecastDays: []types.ForecastDay{
			{Date: "2026-07-15", TempMin: 8, TempMax: 14, Conditions: "Light rain"},
			{Date: "2026-07-16", TempMin: 9, TempMax: 15, Conditions: "Light rain"},
		},
	}, nil).Once()
	e := newTestEngine(geocoder, weather)

	snap := e.extractWeather(context.Background(),
		"Pack a raincoat either way.",
		&types.TravelSession{Destination: "Reykjavik"})
	require.NotNil(t, snap)
	assert.Equal(t, "Reykjavik", snap.Location)
	assert.Equal(t, 8.0, snap.TempMin)
	assert.Equal(t, 15.0, snap.TempMax)
	assert.Equal(t, "Light rain", snap.Conditions)
}

func TestExtractWeather_LocationFromTextWhenNoSession(t *testing.T) {
	geocoder := new(MockGeocoder)
	weather := new(MockWeatherProvider)
	weather.On("Forecast", mock.Anything, "Paris", forecastDays).
		Return(nil, errors.New("offline")).Once()
	e := newTestEngine(geocoder, weather)

	snap := e.extractWeather(context.Background(),
		"The weather in Paris is warm and sunny this time of year.", nil)
	require.NotNil(t, snap)
	assert.Equal(t, "Paris", snap.Location)
	assert.Equal(t, "Warm and sunny", snap.Conditions)
}

func TestExtractWeather_NoWeatherTalkYieldsNil(t *testing.T) {
	geocoder := new(MockGeocoder)
	weather := new(MockWeatherProvider)
	weather.On("Forecast", mock.Anything, "Tokyo", forecastDays).
		Return(nil, errors.New("offline")).Once()
	e := newTestEngine(geocoder, weather)

	snap := e.extractWeather(context.Background(),
		"Shinjuku has excellent ramen shops.",
		&types.TravelSession{Destination: "Tokyo"})
	assert.Nil(t, snap)
}

func TestExtractWeather_NoLocationYieldsNil(t *testing.T) {
	geocoder, weather := noMatchMocks()
	e := newTestEngine(geocoder, weather)

	snap := e.extractWeather(context.Background(),
		"It will probably be sunny somewhere.", &types.TravelSession{})
	assert.Nil(t, snap)
}

func TestExtractWeather_LowercasePlaceNotMatched(t *testing.T) {
	geocoder, weather := noMatchMocks()
	e := newTestEngine(geocoder, weather)

	// "in kyoto is" reads like a place cue but the name is not capitalized.
	snap := e.extractWeather(context.Background(),
		"the climate in kyoto is mild and rainy", nil)
	assert.Nil(t, snap)
}

func TestSyntheticWeather_GenericTableForUnknownCity(t *testing.T) {
	snap := syntheticWeather("Ouagadougou", time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC))
	require.NotNil(t, snap)
	assert.Equal(t, "Ouagadougou", snap.Location)
	assert.Equal(t, "summer", snap.Season)
	assert.Equal(t, genericWeatherTable["summer"].conditions, snap.Conditions)
}

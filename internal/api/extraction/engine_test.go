package extraction

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/wanderly/wanderly-api/app/observability/metrics"
	"github.com/wanderly/wanderly-api/internal/types"
)

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Search(ctx context.Context, name string) ([]types.GeocodeResult, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.GeocodeResult), args.Error(1)
}

type MockWeatherProvider struct {
	mock.Mock
}

func (m *MockWeatherProvider) Forecast(ctx context.Context, location string, days int) (*types.Forecast, error) {
	args := m.Called(ctx, location, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Forecast), args.Error(1)
}

func newTestEngine(geocoder *MockGeocoder, weather *MockWeatherProvider) *Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	e := NewEngine(geocoder, weather, nil, logger)
	e.clock = func() time.Time { return time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC) }
	return e
}

func noMatchMocks() (*MockGeocoder, *MockWeatherProvider) {
	geocoder := new(MockGeocoder)
	weather := new(MockWeatherProvider)
	geocoder.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("not configured")).Maybe()
	weather.On("Forecast", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("not configured")).Maybe()
	return geocoder, weather
}

func TestExtract_SubExtractorFailureIsIsolated(t *testing.T) {
	geocoder, weather := noMatchMocks()
	e := newTestEngine(geocoder, weather)

	// Geocoder and weather both fail; food extraction must still work.
	text := `Tokyo is located at the heart of Japan.
LOCAL_FOOD:[{"name":"Ramen","price":"$8","description":"Noodle soup","location":"Shinjuku","image_keyword":"ramen"}]`
	result := e.Extract(context.Background(), text, "tell me about Tokyo", &types.TravelSession{})

	assert.Empty(t, result.Locations)
	require.Len(t, result.LocalFood, 1)
	assert.Equal(t, "Ramen", result.LocalFood[0].Name)
}

type panicGeocoder struct{}

func (panicGeocoder) Search(ctx context.Context, name string) ([]types.GeocodeResult, error) {
	panic("geocoder gone")
}

func TestExtract_PanicIncrementsFailureCounter(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	counter, err := meter.Int64Counter("extraction_failures_total")
	require.NoError(t, err)

	_, weather := noMatchMocks()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	e := NewEngine(panicGeocoder{}, weather, &metrics.AppMetrics{ExtractionFailuresTotal: counter}, logger)

	text := `Tokyo is located at the heart of Japan.
LOCAL_FOOD:[{"name":"Ramen","price":"$8","description":"Noodle soup","location":"Shinjuku","image_keyword":"ramen"}]`
	result := e.Extract(context.Background(), text, "tell me about Tokyo", &types.TravelSession{})

	// The panicking sub-extractor is counted and the rest still ran.
	require.Len(t, result.LocalFood, 1)
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)
	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)
}

func TestExtract_EndToEndDefaultItinerary(t *testing.T) {
	geocoder, weather := noMatchMocks()
	e := newTestEngine(geocoder, weather)

	sess := &types.TravelSession{Destination: "Tokyo"}
	result := e.Extract(context.Background(),
		"Here is a brief itinerary suggestion for your visit.",
		"I want a 3 day trip to Tokyo",
		sess)

	require.NotNil(t, result.Itinerary)
	assert.Equal(t, "Tokyo", result.Itinerary.Destination)
	require.Len(t, result.Itinerary.Days, 3)
	assert.Equal(t, "Arrival & Orientation", result.Itinerary.Days[0].Title)
	assert.Equal(t, "Farewell Day", result.Itinerary.Days[2].Title)
	assert.Equal(t, "3-Day Itinerary for Tokyo", result.Itinerary.Title)
}

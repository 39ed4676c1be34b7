package extraction

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wanderly/wanderly-api/app/observability/metrics"
	"github.com/wanderly/wanderly-api/internal/api/enrichment"
	"github.com/wanderly/wanderly-api/internal/types"
)

// Engine mines structured travel entities out of free-text model output.
// Each sub-extractor runs independently under an isolate-and-continue
// policy: one failing never blocks another, and no failure reaches the
// caller. A pattern that does not match is a normal negative result, not an
// error.
type Engine struct {
	geocoder enrichment.Geocoder
	weather  enrichment.WeatherProvider
	metrics  *metrics.AppMetrics
	logger   *slog.Logger
	clock    func() time.Time
}

// NewEngine wires the sub-extractors. appMetrics may be nil; instruments are
// then skipped.
func NewEngine(geocoder enrichment.Geocoder, weather enrichment.WeatherProvider, appMetrics *metrics.AppMetrics, logger *slog.Logger) *Engine {
	return &Engine{
		geocoder: geocoder,
		weather:  weather,
		metrics:  appMetrics,
		logger:   logger,
		clock:    time.Now,
	}
}

// Extract runs every sub-extractor over the model text (and, for some
// fallbacks, the user utterance). The result is best-effort partial: any
// field may be empty.
func (e *Engine) Extract(ctx context.Context, modelText, utterance string, sess *types.TravelSession) types.ExtractionResult {
	ctx, span := otel.Tracer("ExtractionEngine").Start(ctx, "Extract")
	defer span.End()

	var result types.ExtractionResult

	e.runIsolated(ctx, "locations", func() {
		result.Locations = e.extractLocations(ctx, modelText, utterance)
	})
	e.runIsolated(ctx, "itinerary", func() {
		result.Itinerary = e.extractItinerary(modelText, utterance)
	})
	e.runIsolated(ctx, "weather", func() {
		result.Weather = e.extractWeather(ctx, modelText, sess)
	})
	e.runIsolated(ctx, "food", func() {
		result.LocalFood = e.extractFood(modelText)
	})
	e.runIsolated(ctx, "attractions", func() {
		result.LocalAttractions = e.extractAttractions(modelText)
	})

	span.SetAttributes(
		attribute.Int("extraction.locations", len(result.Locations)),
		attribute.Bool("extraction.itinerary", result.Itinerary != nil),
		attribute.Bool("extraction.weather", result.Weather != nil),
		attribute.Int("extraction.food", len(result.LocalFood)),
		attribute.Int("extraction.attractions", len(result.LocalAttractions)),
	)
	return result
}

// runIsolated absorbs panics from a sub-extractor so a single bad pattern
// or payload degrades to an empty field instead of failing the turn.
func (e *Engine) runIsolated(ctx context.Context, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "sub-extractor panicked",
				slog.String("extractor", name), slog.Any("panic", r))
			if e.metrics != nil {
				e.metrics.ExtractionFailuresTotal.Add(ctx, 1,
					metric.WithAttributes(attribute.String("extractor", name)))
			}
		}
	}()
	fn()
}

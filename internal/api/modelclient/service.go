package modelclient

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wanderly/wanderly-api/app/observability/metrics"
	"github.com/wanderly/wanderly-api/internal/types"
)

// Service wraps a live client with the canned fallback. Any failure of the
// live client (missing credential, network error, empty completion) degrades
// to deterministic text; a turn never fails at this layer.
type Service struct {
	live     Client
	fallback Client
	metrics  *metrics.AppMetrics
	logger   *slog.Logger
}

var _ Client = (*Service)(nil)

// NewService accepts a nil live client (no API key configured); every turn
// then uses the fallback generator. appMetrics may be nil; instruments are
// then skipped.
func NewService(live Client, appMetrics *metrics.AppMetrics, logger *slog.Logger) *Service {
	return &Service{
		live:     live,
		fallback: NewFallback(),
		metrics:  appMetrics,
		logger:   logger,
	}
}

func (s *Service) Generate(ctx context.Context, history []types.ConversationEntry) (string, error) {
	ctx, span := otel.Tracer("ModelClient").Start(ctx, "Generate")
	defer span.End()

	if s.live != nil {
		text, err := s.live.Generate(ctx, history)
		if err == nil {
			span.SetAttributes(attribute.Bool("model.fallback", false))
			return text, nil
		}
		s.logger.WarnContext(ctx, "live model failed, using canned fallback", slog.Any("error", err))
		span.RecordError(err)
	}

	if s.metrics != nil {
		s.metrics.ModelFallbacksTotal.Add(ctx, 1)
	}
	span.SetAttributes(attribute.Bool("model.fallback", true))
	return s.fallback.Generate(ctx, history)
}

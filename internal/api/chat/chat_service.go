package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wanderly/wanderly-api/app/observability/metrics"
	"github.com/wanderly/wanderly-api/internal/api/enrichment"
	"github.com/wanderly/wanderly-api/internal/api/extraction"
	"github.com/wanderly/wanderly-api/internal/api/intent"
	"github.com/wanderly/wanderly-api/internal/api/modelclient"
	"github.com/wanderly/wanderly-api/internal/api/session"
	"github.com/wanderly/wanderly-api/internal/types"
)

// apologyReply is the turn-level floor: whatever breaks upstream, the user
// still gets a reply.
const apologyReply = "I'm sorry, I ran into a problem answering that. Could you try asking again?"

var _ Service = (*ServiceImpl)(nil)

// Service orchestrates one chat turn end to end and exposes the history and
// saved-itinerary operations built on top of it.
type Service interface {
	ProcessTurn(ctx context.Context, conversationID, message string) (*types.TurnResponse, error)
	History(ctx context.Context, conversationID string) ([]types.ConversationEntry, error)
	ClearHistory(ctx context.Context, conversationID string) error
	SaveItinerary(ctx context.Context, conversationID string, draft types.ItineraryDraft) (*types.SavedItinerary, error)
	ListItineraries(ctx context.Context, conversationID string) ([]types.SavedItinerary, error)
}

type ServiceImpl struct {
	logger    *slog.Logger
	store     session.Store
	intents   *intent.Extractor
	model     modelclient.Client
	extractor *extraction.Engine
	enricher  *enrichment.TripEnricher
	repo      Repository
	metrics   *metrics.AppMetrics
}

// NewServiceImpl wires the turn pipeline. appMetrics may be nil; instruments
// are then skipped.
func NewServiceImpl(
	store session.Store,
	intents *intent.Extractor,
	model modelclient.Client,
	extractor *extraction.Engine,
	enricher *enrichment.TripEnricher,
	repo Repository,
	appMetrics *metrics.AppMetrics,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		store:     store,
		intents:   intents,
		model:     model,
		extractor: extractor,
		enricher:  enricher,
		repo:      repo,
		metrics:   appMetrics,
	}
}

// ProcessTurn runs the full pipeline for one user message: intent mining,
// session merge, model generation, entity extraction, trip enrichment. Only
// a missing conversation or empty message is an error; everything past
// validation degrades instead of failing.
func (s *ServiceImpl) ProcessTurn(ctx context.Context, conversationID, message string) (*types.TurnResponse, error) {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "ProcessTurn", trace.WithAttributes(
		attribute.String("conversation.id", conversationID),
	))
	defer span.End()
	l := s.logger.With(slog.String("conversation_id", conversationID))
	start := time.Now()

	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message is required")
	}

	sess, err := s.store.Get(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	delta := s.intents.UpdateSession(message, sess)
	if !delta.Empty() {
		sess, err = s.store.ApplyDelta(ctx, conversationID, delta)
		if err != nil {
			return nil, fmt.Errorf("failed to apply session delta: %w", err)
		}
	}

	s.appendAndLog(ctx, l, conversationID, types.RoleUser, message)

	history, err := s.store.History(ctx, conversationID)
	if err != nil {
		l.WarnContext(ctx, "failed to load history, generating without context", slog.Any("error", err))
	}

	reply, err := s.model.Generate(ctx, history)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			l.ErrorContext(ctx, "model generation failed", slog.Any("error", err))
			span.RecordError(err)
		}
		reply = apologyReply
	}

	s.appendAndLog(ctx, l, conversationID, types.RoleAssistant, reply)

	result := s.extractor.Extract(ctx, reply, message, sess)

	sess, err = s.store.Update(ctx, conversationID, func(cur *types.TravelSession) {
		if result.Weather != nil {
			cur.WeatherInfo = result.Weather
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	if s.enricher.Ready(sess) && (len(sess.FlightOptions) == 0 || len(sess.HotelOptions) == 0) {
		flights, hotels := s.enricher.Enrich(ctx, sess)
		if len(flights) > 0 || len(hotels) > 0 {
			sess, err = s.store.Update(ctx, conversationID, func(cur *types.TravelSession) {
				if len(cur.FlightOptions) == 0 {
					cur.FlightOptions = flights
				}
				if len(cur.HotelOptions) == 0 {
					cur.HotelOptions = hotels
				}
			})
			if err != nil {
				return nil, fmt.Errorf("failed to store trip offers: %w", err)
			}
		}
	}

	if s.metrics != nil {
		s.metrics.ChatTurnsTotal.Add(ctx, 1)
		s.metrics.TurnDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}

	return &types.TurnResponse{
		Reply:            reply,
		Locations:        result.Locations,
		Itinerary:        result.Itinerary,
		Weather:          result.Weather,
		LocalFood:        result.LocalFood,
		LocalAttractions: result.LocalAttractions,
		Session:          sess,
	}, nil
}

// appendAndLog feeds the working window and, best-effort, the append-only
// message log. Persistence failures never fail the turn.
func (s *ServiceImpl) appendAndLog(ctx context.Context, l *slog.Logger, conversationID string, role types.MessageRole, content string) {
	if err := s.store.AppendHistory(ctx, conversationID, types.ConversationEntry{Role: role, Content: content}); err != nil {
		l.WarnContext(ctx, "failed to append history entry", slog.Any("error", err))
	}
	msg := types.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Timestamp:      time.Now(),
	}
	if err := s.repo.SaveMessage(ctx, msg); err != nil {
		l.WarnContext(ctx, "failed to persist message", slog.Any("error", err))
		if s.metrics != nil {
			s.metrics.DbQueryErrorsTotal.Add(ctx, 1)
		}
	}
}

func (s *ServiceImpl) History(ctx context.Context, conversationID string) ([]types.ConversationEntry, error) {
	return s.store.History(ctx, conversationID)
}

// ClearHistory resets the working window only. The travel session and the
// persisted message log survive, so trip parameters keep accumulating in a
// "cleared" conversation. Intentional asymmetry.
func (s *ServiceImpl) ClearHistory(ctx context.Context, conversationID string) error {
	return s.store.ClearHistory(ctx, conversationID)
}

func (s *ServiceImpl) SaveItinerary(ctx context.Context, conversationID string, draft types.ItineraryDraft) (*types.SavedItinerary, error) {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "SaveItinerary", trace.WithAttributes(
		attribute.String("conversation.id", conversationID),
	))
	defer span.End()

	if len(draft.Days) == 0 {
		return nil, fmt.Errorf("itinerary must have at least one day")
	}
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	saved := types.SavedItinerary{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Itinerary:      draft,
		SavedAt:        time.Now(),
	}
	if err := s.repo.SaveItinerary(ctx, saved); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to save itinerary: %w", err)
	}
	s.logger.InfoContext(ctx, "itinerary saved",
		slog.String("conversation_id", conversationID),
		slog.String("itinerary_id", saved.ID.String()))
	return &saved, nil
}

func (s *ServiceImpl) ListItineraries(ctx context.Context, conversationID string) ([]types.SavedItinerary, error) {
	return s.repo.ListItineraries(ctx, conversationID)
}

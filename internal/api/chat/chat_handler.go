package chat

import (
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/wanderly/wanderly-api/internal/api"
	"github.com/wanderly/wanderly-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	ProcessTurn(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
	ClearHistory(w http.ResponseWriter, r *http.Request)
	SaveItinerary(w http.ResponseWriter, r *http.Request)
	ListItineraries(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	chatService Service
	logger      *slog.Logger
}

func NewHandlerImpl(chatService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		chatService: chatService,
		logger:      logger,
	}
}

func (h *HandlerImpl) ProcessTurn(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HandlerImpl").Start(r.Context(), "ProcessTurn", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/chat"),
	))
	defer span.End()
	l := h.logger.With(slog.String("HandlerImpl", "ProcessTurn"))

	var req struct {
		ConversationID string `json:"conversation_id"`
		Message        string `json:"message"`
	}
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.ConversationID) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "conversation_id is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "message is required")
		return
	}
	span.SetAttributes(attribute.String("conversation.id", req.ConversationID))

	resp, err := h.chatService.ProcessTurn(ctx, req.ConversationID, req.Message)
	if err != nil {
		l.ErrorContext(ctx, "Failed to process chat turn", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Turn processing failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to process message")
		return
	}

	span.SetStatus(codes.Ok, "Turn processed")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

func (h *HandlerImpl) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HandlerImpl").Start(r.Context(), "GetHistory", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/chat/history"),
	))
	defer span.End()
	l := h.logger.With(slog.String("HandlerImpl", "GetHistory"))

	conversationID := r.URL.Query().Get("conversation_id")
	if conversationID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter 'conversation_id' is required")
		return
	}
	span.SetAttributes(attribute.String("conversation.id", conversationID))

	entries, err := h.chatService.History(ctx, conversationID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch history", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch history")
		return
	}
	if entries == nil {
		entries = []types.ConversationEntry{}
	}

	response := struct {
		ConversationID string                    `json:"conversation_id"`
		History        []types.ConversationEntry `json:"history"`
	}{ConversationID: conversationID, History: entries}
	api.WriteJSONResponse(w, r, http.StatusOK, response)
}

func (h *HandlerImpl) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HandlerImpl").Start(r.Context(), "ClearHistory", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/chat/history"),
	))
	defer span.End()
	l := h.logger.With(slog.String("HandlerImpl", "ClearHistory"))

	conversationID := r.URL.Query().Get("conversation_id")
	if conversationID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter 'conversation_id' is required")
		return
	}
	span.SetAttributes(attribute.String("conversation.id", conversationID))

	if err := h.chatService.ClearHistory(ctx, conversationID); err != nil {
		l.ErrorContext(ctx, "Failed to clear history", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to clear history")
		return
	}

	l.InfoContext(ctx, "History cleared", slog.String("conversation_id", conversationID))
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) SaveItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HandlerImpl").Start(r.Context(), "SaveItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries"),
	))
	defer span.End()
	l := h.logger.With(slog.String("HandlerImpl", "SaveItinerary"))

	var req struct {
		ConversationID string               `json:"conversation_id"`
		Itinerary      types.ItineraryDraft `json:"itinerary"`
	}
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.ConversationID) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "conversation_id is required")
		return
	}
	if len(req.Itinerary.Days) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "itinerary must have at least one day")
		return
	}
	span.SetAttributes(attribute.String("conversation.id", req.ConversationID))

	saved, err := h.chatService.SaveItinerary(ctx, req.ConversationID, req.Itinerary)
	if err != nil {
		l.ErrorContext(ctx, "Failed to save itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Save failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save itinerary")
		return
	}

	l.InfoContext(ctx, "Itinerary saved successfully")
	api.WriteJSONResponse(w, r, http.StatusCreated, saved)
}

func (h *HandlerImpl) ListItineraries(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HandlerImpl").Start(r.Context(), "ListItineraries", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries"),
	))
	defer span.End()
	l := h.logger.With(slog.String("HandlerImpl", "ListItineraries"))

	conversationID := r.URL.Query().Get("conversation_id")
	if conversationID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter 'conversation_id' is required")
		return
	}
	span.SetAttributes(attribute.String("conversation.id", conversationID))

	itineraries, err := h.chatService.ListItineraries(ctx, conversationID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list itineraries", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list itineraries")
		return
	}
	if itineraries == nil {
		itineraries = []types.SavedItinerary{}
	}

	response := struct {
		Itineraries []types.SavedItinerary `json:"itineraries"`
	}{Itineraries: itineraries}
	api.WriteJSONResponse(w, r, http.StatusOK, response)
}

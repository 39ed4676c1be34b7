package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wanderly/wanderly-api/internal/types"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) ProcessTurn(ctx context.Context, conversationID, message string) (*types.TurnResponse, error) {
	args := m.Called(ctx, conversationID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TurnResponse), args.Error(1)
}

func (m *MockChatService) History(ctx context.Context, conversationID string) ([]types.ConversationEntry, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ConversationEntry), args.Error(1)
}

func (m *MockChatService) ClearHistory(ctx context.Context, conversationID string) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

func (m *MockChatService) SaveItinerary(ctx context.Context, conversationID string, draft types.ItineraryDraft) (*types.SavedItinerary, error) {
	args := m.Called(ctx, conversationID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SavedItinerary), args.Error(1)
}

func (m *MockChatService) ListItineraries(ctx context.Context, conversationID string) ([]types.SavedItinerary, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.SavedItinerary), args.Error(1)
}

var _ Service = (*MockChatService)(nil)

func newTestHandler(svc Service) *HandlerImpl {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewHandlerImpl(svc, logger)
}

func TestProcessTurnHandler_Success(t *testing.T) {
	svc := new(MockChatService)
	svc.On("ProcessTurn", mock.Anything, "conv-1", "plan a trip to Tokyo").Return(&types.TurnResponse{
		Reply:   "Tokyo is a great choice!",
		Session: &types.TravelSession{ConversationID: "conv-1", Destination: "Tokyo"},
	}, nil).Once()
	h := newTestHandler(svc)

	body := `{"conversation_id":"conv-1","message":"plan a trip to Tokyo"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ProcessTurn(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.TurnResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Tokyo is a great choice!", resp.Reply)
	assert.Equal(t, "Tokyo", resp.Session.Destination)
	svc.AssertExpectations(t)
}

func TestProcessTurnHandler_MissingFields(t *testing.T) {
	svc := new(MockChatService)
	h := newTestHandler(svc)

	for _, body := range []string{
		`{"message":"hello"}`,
		`{"conversation_id":"conv-1"}`,
		`{"conversation_id":"conv-1","message":"  "}`,
		`not json`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.ProcessTurn(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	svc.AssertNotCalled(t, "ProcessTurn")
}

func TestProcessTurnHandler_ServiceError(t *testing.T) {
	svc := new(MockChatService)
	svc.On("ProcessTurn", mock.Anything, "conv-1", "hello").
		Return(nil, errors.New("boom")).Once()
	h := newTestHandler(svc)

	body := `{"conversation_id":"conv-1","message":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ProcessTurn(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetHistoryHandler(t *testing.T) {
	svc := new(MockChatService)
	svc.On("History", mock.Anything, "conv-1").Return([]types.ConversationEntry{
		{Role: types.RoleUser, Content: "hi"},
		{Role: types.RoleAssistant, Content: "hello!"},
	}, nil).Once()
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/chat/history?conversation_id=conv-1", nil)
	rec := httptest.NewRecorder()
	h.GetHistory(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		ConversationID string                    `json:"conversation_id"`
		History        []types.ConversationEntry `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.History, 2)
}

func TestGetHistoryHandler_RequiresConversationID(t *testing.T) {
	h := newTestHandler(new(MockChatService))

	req := httptest.NewRequest(http.MethodGet, "/chat/history", nil)
	rec := httptest.NewRecorder()
	h.GetHistory(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearHistoryHandler(t *testing.T) {
	svc := new(MockChatService)
	svc.On("ClearHistory", mock.Anything, "conv-1").Return(nil).Once()
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/chat/history?conversation_id=conv-1", nil)
	rec := httptest.NewRecorder()
	h.ClearHistory(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestSaveItineraryHandler(t *testing.T) {
	svc := new(MockChatService)
	svc.On("SaveItinerary", mock.Anything, "conv-1", mock.Anything).Return(&types.SavedItinerary{
		ConversationID: "conv-1",
	}, nil).Once()
	h := newTestHandler(svc)

	body := `{"conversation_id":"conv-1","itinerary":{"title":"Porto","destination":"Porto","days":[{"day":1,"title":"Riverside","activities":[{"time":"9:00 AM","description":"Ribeira walk"}]}]}}`
	req := httptest.NewRequest(http.MethodPost, "/itineraries", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.SaveItinerary(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSaveItineraryHandler_RejectsEmptyDays(t *testing.T) {
	h := newTestHandler(new(MockChatService))

	body := `{"conversation_id":"conv-1","itinerary":{"title":"empty","destination":"Porto","days":[]}}`
	req := httptest.NewRequest(http.MethodPost, "/itineraries", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.SaveItinerary(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListItinerariesHandler(t *testing.T) {
	svc := new(MockChatService)
	svc.On("ListItineraries", mock.Anything, "conv-1").Return([]types.SavedItinerary{{
		ConversationID: "conv-1",
		Itinerary:      types.ItineraryDraft{Destination: "Porto"},
	}}, nil).Once()
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/itineraries?conversation_id=conv-1", nil)
	rec := httptest.NewRecorder()
	h.ListItineraries(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Itineraries []types.SavedItinerary `json:"itineraries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Itineraries, 1)
	assert.Equal(t, "Porto", resp.Itineraries[0].Itinerary.Destination)
}

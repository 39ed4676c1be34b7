package chat

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wanderly/wanderly-api/internal/api/enrichment"
	"github.com/wanderly/wanderly-api/internal/api/extraction"
	"github.com/wanderly/wanderly-api/internal/api/intent"
	"github.com/wanderly/wanderly-api/internal/api/session"
	"github.com/wanderly/wanderly-api/internal/types"
)

type MockModel struct {
	mock.Mock
}

func (m *MockModel) Generate(ctx context.Context, history []types.ConversationEntry) (string, error) {
	args := m.Called(ctx, history)
	return args.String(0), args.Error(1)
}

type stubGeocoder struct{}

func (stubGeocoder) Search(ctx context.Context, name string) ([]types.GeocodeResult, error) {
	return nil, errors.New("geocoder unavailable")
}

type stubWeather struct{}

func (stubWeather) Forecast(ctx context.Context, location string, days int) (*types.Forecast, error) {
	return nil, errors.New("weather unavailable")
}

func newTestService(t *testing.T, model *MockModel) (*ServiceImpl, *InMemoryRepository, session.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	store := session.NewInMemoryStore(10, logger)
	repo := NewInMemoryRepository()
	engine := extraction.NewEngine(stubGeocoder{}, stubWeather{}, nil, logger)
	enricher := enrichment.NewTripEnricher(
		enrichment.NewStaticCodeResolver(),
		enrichment.NewSyntheticFlightProvider(),
		enrichment.NewSyntheticHotelProvider(),
		logger)
	svc := NewServiceImpl(store, intent.NewExtractor(logger), model, engine, enricher, repo, nil, logger)
	return svc, repo, store
}

const modelReply = `Sounds great! Here is a 2-day itinerary for your trip.

Day 1: Classic Highlights
9:00 AM - Senso-ji temple and Nakamise street
1:00 PM - Lunch in Asakusa
3:30 PM - Tokyo National Museum

Day 2: Modern City
10:00 AM - Shibuya crossing and Hachiko statue
7:00 PM - Dinner in Shinjuku

LOCAL_FOOD:[{name:"Ramen",price:"$8",description:"Rich pork-broth noodles",location:"Shinjuku"}]`

func TestProcessTurn_FullPipeline(t *testing.T) {
	model := new(MockModel)
	model.On("Generate", mock.Anything, mock.Anything).Return(modelReply, nil).Once()
	svc, repo, _ := newTestService(t, model)

	resp, err := svc.ProcessTurn(context.Background(), "conv-1",
		"Plan a 5-day trip from Delhi to Tokyo with a budget of $2000 for 2 people")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, modelReply, resp.Reply)

	// Session accumulated every trip parameter from the utterance.
	sess := resp.Session
	require.NotNil(t, sess)
	assert.Equal(t, "Delhi", sess.Origin)
	assert.Equal(t, "Tokyo", sess.Destination)
	assert.Equal(t, 2000.0, sess.Budget)
	assert.Equal(t, "USD", sess.Currency)
	assert.Equal(t, 2, sess.Travelers)
	require.NotNil(t, sess.DepartureDate)
	require.NotNil(t, sess.ReturnDate)

	// Dates present, so the trip was enriched with offers.
	assert.NotEmpty(t, sess.FlightOptions)
	assert.NotEmpty(t, sess.HotelOptions)

	// Extraction mined the structured parts of the reply.
	require.NotNil(t, resp.Itinerary)
	assert.Len(t, resp.Itinerary.Days, 2)
	require.Len(t, resp.LocalFood, 1)
	assert.Equal(t, "Ramen", resp.LocalFood[0].Name)

	// Both turns landed in the append-only log.
	msgs, err := repo.ListMessages(context.Background(), "conv-1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, types.RoleUser, msgs[0].Role)
	assert.Equal(t, types.RoleAssistant, msgs[1].Role)
}

func TestProcessTurn_ModelFailureYieldsApology(t *testing.T) {
	model := new(MockModel)
	model.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("quota exhausted")).Once()
	svc, _, _ := newTestService(t, model)

	resp, err := svc.ProcessTurn(context.Background(), "conv-2", "tell me about Rome")
	require.NoError(t, err)
	assert.Equal(t, apologyReply, resp.Reply)
	require.NotNil(t, resp.Session)
}

func TestProcessTurn_EmptyMessageRejected(t *testing.T) {
	model := new(MockModel)
	svc, _, _ := newTestService(t, model)

	_, err := svc.ProcessTurn(context.Background(), "conv-3", "   ")
	assert.Error(t, err)
	model.AssertNotCalled(t, "Generate")
}

func TestClearHistory_KeepsSessionAndMessageLog(t *testing.T) {
	model := new(MockModel)
	model.On("Generate", mock.Anything, mock.Anything).Return("Enjoy your trip to Lisbon!", nil).Once()
	svc, repo, store := newTestService(t, model)

	_, err := svc.ProcessTurn(context.Background(), "conv-4", "I'm planning a trip to Lisbon")
	require.NoError(t, err)

	require.NoError(t, svc.ClearHistory(context.Background(), "conv-4"))

	history, err := svc.History(context.Background(), "conv-4")
	require.NoError(t, err)
	assert.Empty(t, history)

	// The session still remembers the destination.
	sess, err := store.Get(context.Background(), "conv-4")
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", sess.Destination)

	// The append-only log is untouched.
	msgs, err := repo.ListMessages(context.Background(), "conv-4")
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestSaveItinerary_RoundTrip(t *testing.T) {
	model := new(MockModel)
	svc, _, _ := newTestService(t, model)

	draft := types.ItineraryDraft{
		Title:       "2-Day Itinerary for Porto",
		Destination: "Porto",
		Days: []types.ItineraryDay{
			{Day: 1, Title: "Riverside", Activities: []types.Activity{{Time: "9:00 AM", Description: "Ribeira walk"}}},
			{Day: 2, Title: "Cellars", Activities: []types.Activity{{Time: "2:00 PM", Description: "Port tasting"}}},
		},
	}
	saved, err := svc.SaveItinerary(context.Background(), "conv-5", draft)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "conv-5", saved.ConversationID)

	list, err := svc.ListItineraries(context.Background(), "conv-5")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Porto", list[0].Itinerary.Destination)
}

func TestSaveItinerary_RejectsEmptyDraft(t *testing.T) {
	model := new(MockModel)
	svc, _, _ := newTestService(t, model)

	_, err := svc.SaveItinerary(context.Background(), "conv-6", types.ItineraryDraft{Title: "empty"})
	assert.Error(t, err)
}

package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly/wanderly-api/internal/types"
)

func newTestStore(window int) *InMemoryStore {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewInMemoryStore(window, logger)
}

func strPtr(s string) *string { return &s }

func TestGet_CreatesSessionLazily(t *testing.T) {
	store := newTestStore(10)
	sess, err := store.Get(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", sess.ConversationID)
	assert.Equal(t, 1, sess.Travelers)
	assert.Equal(t, "USD", sess.Currency)
}

func TestGet_RequiresConversationID(t *testing.T) {
	store := newTestStore(10)
	_, err := store.Get(context.Background(), "")
	require.Error(t, err)
}

func TestApplyDelta_FirstWriteWins(t *testing.T) {
	store := newTestStore(10)
	ctx := context.Background()

	sess, err := store.ApplyDelta(ctx, "conv-1", types.SessionDelta{Destination: strPtr("Tokyo")})
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", sess.Destination)

	// A later proposal must not change an already-known destination.
	sess, err = store.ApplyDelta(ctx, "conv-1", types.SessionDelta{Destination: strPtr("Paris")})
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", sess.Destination)
}

func TestApplyDelta_DatesOnlySetOnce(t *testing.T) {
	store := newTestStore(10)
	ctx := context.Background()
	dep := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	ret := dep.AddDate(0, 0, 5)

	sess, err := store.ApplyDelta(ctx, "conv-1", types.SessionDelta{DepartureDate: &dep, ReturnDate: &ret})
	require.NoError(t, err)
	require.NotNil(t, sess.DepartureDate)
	assert.Equal(t, dep, *sess.DepartureDate)

	later := dep.AddDate(0, 1, 0)
	sess, err = store.ApplyDelta(ctx, "conv-1", types.SessionDelta{DepartureDate: &later})
	require.NoError(t, err)
	assert.Equal(t, dep, *sess.DepartureDate)
}

func TestApplyDelta_TravelersOneTreatedAsDefault(t *testing.T) {
	store := newTestStore(10)
	ctx := context.Background()

	one, four, two := 1, 4, 2
	sess, err := store.ApplyDelta(ctx, "conv-1", types.SessionDelta{Travelers: &one})
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Travelers)

	// An explicit 1 matches the default, so a later count still lands.
	sess, err = store.ApplyDelta(ctx, "conv-1", types.SessionDelta{Travelers: &four})
	require.NoError(t, err)
	assert.Equal(t, 4, sess.Travelers)

	// Counts above 1 are sticky.
	sess, err = store.ApplyDelta(ctx, "conv-1", types.SessionDelta{Travelers: &two})
	require.NoError(t, err)
	assert.Equal(t, 4, sess.Travelers)
}

func TestAppendHistory_WindowEvictsOldestFirst(t *testing.T) {
	store := newTestStore(10)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		err := store.AppendHistory(ctx, "conv-1", types.ConversationEntry{
			Role:    types.RoleUser,
			Content: fmt.Sprintf("message %d", i),
		})
		require.NoError(t, err)
	}

	history, err := store.History(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, history, 10)
	assert.Equal(t, "message 5", history[0].Content)
	assert.Equal(t, "message 14", history[9].Content)
}

func TestClearHistory_KeepsSession(t *testing.T) {
	store := newTestStore(10)
	ctx := context.Background()

	_, err := store.ApplyDelta(ctx, "conv-1", types.SessionDelta{Destination: strPtr("Rome")})
	require.NoError(t, err)
	require.NoError(t, store.AppendHistory(ctx, "conv-1", types.ConversationEntry{Role: types.RoleUser, Content: "hi"}))

	require.NoError(t, store.ClearHistory(ctx, "conv-1"))

	history, err := store.History(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, history)

	sess, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "Rome", sess.Destination)
}

func TestUpdate_ConcurrentSameConversation(t *testing.T) {
	store := newTestStore(10)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "conv-1", func(s *types.TravelSession) {
				s.Travelers++
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sess, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, 51, sess.Travelers)
}

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/wanderly/wanderly-api/internal/types"
)

// Store keeps the per-conversation working state: the accumulating travel
// session and the bounded conversation window fed to the model.
type Store interface {
	Get(ctx context.Context, conversationID string) (*types.TravelSession, error)
	Update(ctx context.Context, conversationID string, fn func(*types.TravelSession)) (*types.TravelSession, error)
	ApplyDelta(ctx context.Context, conversationID string, delta types.SessionDelta) (*types.TravelSession, error)
	History(ctx context.Context, conversationID string) ([]types.ConversationEntry, error)
	AppendHistory(ctx context.Context, conversationID string, entry types.ConversationEntry) error
	ClearHistory(ctx context.Context, conversationID string) error
}

var _ Store = (*InMemoryStore)(nil)

// InMemoryStore holds sessions for the process lifetime. Handlers run
// concurrently, so every read-modify-write goes through a per-conversation
// mutex.
type InMemoryStore struct {
	logger        *slog.Logger
	sessions      *cache.Cache
	histories     *cache.Cache
	historyWindow int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

const defaultHistoryWindow = 10

func NewInMemoryStore(historyWindow int, logger *slog.Logger) *InMemoryStore {
	if historyWindow <= 0 {
		historyWindow = defaultHistoryWindow
	}
	return &InMemoryStore{
		logger:        logger,
		sessions:      cache.New(cache.NoExpiration, cache.NoExpiration),
		histories:     cache.New(cache.NoExpiration, cache.NoExpiration),
		historyWindow: historyWindow,
		locks:         map[string]*sync.Mutex{},
	}
}

func (s *InMemoryStore) lockFor(conversationID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[conversationID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[conversationID] = l
	}
	return l
}

func (s *InMemoryStore) getOrCreate(conversationID string) *types.TravelSession {
	if v, ok := s.sessions.Get(conversationID); ok {
		return v.(*types.TravelSession)
	}
	now := time.Now()
	sess := &types.TravelSession{
		ConversationID: conversationID,
		Travelers:      1,
		Currency:       "USD",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.sessions.Set(conversationID, sess, cache.NoExpiration)
	s.logger.Debug("created travel session", slog.String("conversation_id", conversationID))
	return sess
}

func (s *InMemoryStore) Get(ctx context.Context, conversationID string) (*types.TravelSession, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("conversation id is required")
	}
	l := s.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()
	sess := s.getOrCreate(conversationID)
	cp := *sess
	return &cp, nil
}

func (s *InMemoryStore) Update(ctx context.Context, conversationID string, fn func(*types.TravelSession)) (*types.TravelSession, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("conversation id is required")
	}
	l := s.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()
	sess := s.getOrCreate(conversationID)
	fn(sess)
	sess.UpdatedAt = time.Now()
	cp := *sess
	return &cp, nil
}

// ApplyDelta merges an extraction delta with first-write-wins semantics:
// an already-known field is never clobbered, except dates which may be
// synthesized over defaults when the user gives explicit ones later.
func (s *InMemoryStore) ApplyDelta(ctx context.Context, conversationID string, delta types.SessionDelta) (*types.TravelSession, error) {
	return s.Update(ctx, conversationID, func(sess *types.TravelSession) {
		if delta.Origin != nil && sess.Origin == "" {
			sess.Origin = *delta.Origin
		}
		if delta.Destination != nil && sess.Destination == "" {
			sess.Destination = *delta.Destination
		}
		if delta.DepartureDate != nil && sess.DepartureDate == nil {
			sess.DepartureDate = delta.DepartureDate
		}
		if delta.ReturnDate != nil && sess.ReturnDate == nil {
			sess.ReturnDate = delta.ReturnDate
		}
		if delta.Budget != nil && sess.Budget == 0 {
			sess.Budget = *delta.Budget
		}
		if delta.Currency != nil && sess.Currency == "" {
			sess.Currency = *delta.Currency
		}
		// Travelers starts at 1, so a stored 1 is indistinguishable from
		// the unset default and a later explicit count may still replace it.
		if delta.Travelers != nil && sess.Travelers <= 1 {
			sess.Travelers = *delta.Travelers
		}
	})
}

func (s *InMemoryStore) History(ctx context.Context, conversationID string) ([]types.ConversationEntry, error) {
	l := s.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()
	v, ok := s.histories.Get(conversationID)
	if !ok {
		return nil, nil
	}
	entries := v.([]types.ConversationEntry)
	out := make([]types.ConversationEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// AppendHistory adds one entry and evicts oldest-first beyond the window.
// Truncation is not pair-aware: a window boundary can split a user/assistant
// exchange. Known correctness risk, kept pending a product decision.
func (s *InMemoryStore) AppendHistory(ctx context.Context, conversationID string, entry types.ConversationEntry) error {
	l := s.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()
	var entries []types.ConversationEntry
	if v, ok := s.histories.Get(conversationID); ok {
		entries = v.([]types.ConversationEntry)
	}
	entries = append(entries, entry)
	if len(entries) > s.historyWindow {
		entries = entries[len(entries)-s.historyWindow:]
	}
	s.histories.Set(conversationID, entries, cache.NoExpiration)
	return nil
}

// ClearHistory drops only the working window. The append-only message log
// is deliberately untouched; see the chat service for the documented
// asymmetry.
func (s *InMemoryStore) ClearHistory(ctx context.Context, conversationID string) error {
	l := s.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()
	s.histories.Delete(conversationID)
	return nil
}

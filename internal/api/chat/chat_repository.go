package chat

import (
	"context"
	"sync"

	"github.com/wanderly/wanderly-api/internal/types"
)

// Repository is the append-only persistence layer behind the chat service.
// Messages are only ever inserted; clearing a conversation's working window
// does not touch this log.
type Repository interface {
	SaveMessage(ctx context.Context, msg types.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]types.Message, error)
	SaveItinerary(ctx context.Context, itinerary types.SavedItinerary) error
	ListItineraries(ctx context.Context, conversationID string) ([]types.SavedItinerary, error)
}

var _ Repository = (*InMemoryRepository)(nil)

// InMemoryRepository backs deployments without a database. Everything lives
// for the process lifetime.
type InMemoryRepository struct {
	mu          sync.RWMutex
	messages    map[string][]types.Message
	itineraries map[string][]types.SavedItinerary
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		messages:    map[string][]types.Message{},
		itineraries: map[string][]types.SavedItinerary{},
	}
}

func (r *InMemoryRepository) SaveMessage(ctx context.Context, msg types.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], msg)
	return nil
}

func (r *InMemoryRepository) ListMessages(ctx context.Context, conversationID string) ([]types.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := r.messages[conversationID]
	out := make([]types.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (r *InMemoryRepository) SaveItinerary(ctx context.Context, itinerary types.SavedItinerary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.itineraries[itinerary.ConversationID] = append(r.itineraries[itinerary.ConversationID], itinerary)
	return nil
}

func (r *InMemoryRepository) ListItineraries(ctx context.Context, conversationID string) ([]types.SavedItinerary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	its := r.itineraries[conversationID]
	out := make([]types.SavedItinerary, len(its))
	copy(out, its)
	return out, nil
}

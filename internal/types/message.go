package types

import (
	"time"

	"github.com/google/uuid"
)

// Message is the persisted, append-only chat log entry. Messages are never
// mutated or deleted; "clear history" only resets the working window.
type Message struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID string      `json:"conversation_id"`
	Role           MessageRole `json:"role"`
	Content        string      `json:"content"`
	Timestamp      time.Time   `json:"timestamp"`
}

// SavedItinerary is an itinerary the user chose to keep.
type SavedItinerary struct {
	ID             uuid.UUID      `json:"id"`
	ConversationID string         `json:"conversation_id"`
	Itinerary      ItineraryDraft `json:"itinerary"`
	SavedAt        time.Time      `json:"saved_at"`
}

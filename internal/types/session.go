package types

import (
	"time"
)

// TravelSession accumulates trip parameters inferred across a conversation.
// Fields set from user text follow first-write-wins semantics: a later,
// lower-confidence re-extraction never overwrites a known value.
type TravelSession struct {
	ConversationID string          `json:"conversation_id"`
	Origin         string          `json:"origin,omitempty"`
	Destination    string          `json:"destination,omitempty"`
	DepartureDate  *time.Time      `json:"departure_date,omitempty"`
	ReturnDate     *time.Time      `json:"return_date,omitempty"`
	Budget         float64         `json:"budget,omitempty"`
	Currency       string          `json:"currency,omitempty"`
	Travelers      int             `json:"travelers"`
	FlightOptions  []FlightOffer   `json:"flight_options,omitempty"`
	HotelOptions   []HotelOffer    `json:"hotel_options,omitempty"`
	WeatherInfo    *WeatherSnapshot `json:"weather_info,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// SessionDelta carries only the fields an extraction pass proposed.
// Nil pointers mean "no proposal"; the store merges with first-write-wins.
type SessionDelta struct {
	Origin        *string
	Destination   *string
	DepartureDate *time.Time
	ReturnDate    *time.Time
	Budget        *float64
	Currency      *string
	Travelers     *int
}

// Empty reports whether the delta proposes nothing.
func (d SessionDelta) Empty() bool {
	return d.Origin == nil && d.Destination == nil && d.DepartureDate == nil &&
		d.ReturnDate == nil && d.Budget == nil && d.Currency == nil && d.Travelers == nil
}

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// ConversationEntry is one turn of the bounded prompt window.
type ConversationEntry struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

package types

// LocationHit is a geocoded place mined from model output or the user's
// utterance, ready for map rendering.
type LocationHit struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Category  string  `json:"category,omitempty"`
}

// FoodItem is a local-cuisine suggestion extracted from a structured block
// or prose.
type FoodItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	ImageURL    string `json:"image_url"`
}

// AttractionItem is a sight or activity suggestion.
type AttractionItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Duration    string `json:"duration,omitempty"`
	ImageURL    string `json:"image_url"`
}

// ExtractionResult is everything the extraction engine mined from one
// model reply. Any field may be empty; sub-extractors fail independently.
type ExtractionResult struct {
	Locations        []LocationHit    `json:"locations"`
	Itinerary        *ItineraryDraft  `json:"itinerary,omitempty"`
	Weather          *WeatherSnapshot `json:"weather,omitempty"`
	LocalFood        []FoodItem       `json:"local_food"`
	LocalAttractions []AttractionItem `json:"local_attractions"`
}

// TurnResponse is the full payload returned to the UI for one chat turn.
type TurnResponse struct {
	Reply            string           `json:"reply"`
	Locations        []LocationHit    `json:"locations"`
	Itinerary        *ItineraryDraft  `json:"itinerary,omitempty"`
	Weather          *WeatherSnapshot `json:"weather,omitempty"`
	LocalFood        []FoodItem       `json:"local_food"`
	LocalAttractions []AttractionItem `json:"local_attractions"`
	Session          *TravelSession   `json:"session"`
}

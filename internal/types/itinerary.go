package types

// Activity is one scheduled item inside an itinerary day.
type Activity struct {
	Time        string `json:"time"`
	Description string `json:"description"`
}

// ItineraryDay groups the activities of a single day.
type ItineraryDay struct {
	Day        int        `json:"day"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

// ItineraryDraft is a multi-day plan mined from model output (or generated
// from the default template when the text carried no day headers).
type ItineraryDraft struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Destination string         `json:"destination"`
	Days        []ItineraryDay `json:"days"`
}

package types

// GeocodeResult is a single geocoding provider hit.
type GeocodeResult struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Class       string  `json:"class,omitempty"`
	Type        string  `json:"type,omitempty"`
}

// FlightOffer is a flight search result, live or synthetic.
type FlightOffer struct {
	ID            string  `json:"id"`
	Airline       string  `json:"airline"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	Duration      string  `json:"duration"`
	Stops         int     `json:"stops"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
}

// HotelOffer is a hotel search result, live or synthetic.
type HotelOffer struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	CityCode      string   `json:"city_code"`
	Rating        float64  `json:"rating"`
	PricePerNight float64  `json:"price_per_night"`
	Currency      string   `json:"currency"`
	Amenities     []string `json:"amenities,omitempty"`
}

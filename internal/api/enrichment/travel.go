package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wanderly/wanderly-api/internal/types"
)

var _ FlightProvider = (*HTTPFlightProvider)(nil)
var _ HotelProvider = (*HTTPHotelProvider)(nil)
var _ LocationCodeResolver = (*StaticCodeResolver)(nil)

// HTTPFlightProvider queries an Amadeus-style flight-offers endpoint.
type HTTPFlightProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPFlightProvider(baseURL, apiKey string, client *http.Client) *HTTPFlightProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFlightProvider{baseURL: baseURL, apiKey: apiKey, client: client}
}

type flightOffersResponse struct {
	Data []struct {
		ID          string `json:"id"`
		Itineraries []struct {
			Duration string `json:"duration"`
			Segments []struct {
				CarrierCode string `json:"carrierCode"`
				Departure   struct {
					IataCode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"departure"`
				Arrival struct {
					IataCode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"arrival"`
			} `json:"segments"`
		} `json:"itineraries"`
		Price struct {
			Total    string `json:"total"`
			Currency string `json:"currency"`
		} `json:"price"`
	} `json:"data"`
}

func (p *HTTPFlightProvider) SearchFlights(ctx context.Context, originCode, destCode string, depart, ret time.Time, adults int, maxPrice float64) ([]types.FlightOffer, error) {
	params := url.Values{}
	params.Set("originLocationCode", originCode)
	params.Set("destinationLocationCode", destCode)
	params.Set("departureDate", depart.Format("2006-01-02"))
	params.Set("returnDate", ret.Format("2006-01-02"))
	params.Set("adults", strconv.Itoa(adults))
	if maxPrice > 0 {
		params.Set("maxPrice", strconv.Itoa(int(maxPrice)))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build flight search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flight search failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flight search returned status %d", resp.StatusCode)
	}

	var raw flightOffersResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode flight offers: %w", err)
	}

	offers := make([]types.FlightOffer, 0, len(raw.Data))
	for _, d := range raw.Data {
		if len(d.Itineraries) == 0 || len(d.Itineraries[0].Segments) == 0 {
			continue
		}
		itin := d.Itineraries[0]
		first := itin.Segments[0]
		last := itin.Segments[len(itin.Segments)-1]
		price, _ := strconv.ParseFloat(d.Price.Total, 64)
		offers = append(offers, types.FlightOffer{
			ID:            d.ID,
			Airline:       first.CarrierCode,
			Origin:        first.Departure.IataCode,
			Destination:   last.Arrival.IataCode,
			DepartureTime: first.Departure.At,
			ArrivalTime:   last.Arrival.At,
			Duration:      itin.Duration,
			Stops:         len(itin.Segments) - 1,
			Price:         price,
			Currency:      d.Price.Currency,
		})
	}
	if len(offers) == 0 {
		return nil, fmt.Errorf("flight search returned no offers")
	}
	return offers, nil
}

// HTTPHotelProvider queries an Amadeus-style hotel-offers endpoint.
type HTTPHotelProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPHotelProvider(baseURL, apiKey string, client *http.Client) *HTTPHotelProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPHotelProvider{baseURL: baseURL, apiKey: apiKey, client: client}
}

type hotelOffersResponse struct {
	Data []struct {
		Hotel struct {
			HotelID  string `json:"hotelId"`
			Name     string `json:"name"`
			CityCode string `json:"cityCode"`
			Rating   string `json:"rating"`
		} `json:"hotel"`
		Offers []struct {
			Price struct {
				Total    string `json:"total"`
				Currency string `json:"currency"`
			} `json:"price"`
		} `json:"offers"`
	} `json:"data"`
}

func (p *HTTPHotelProvider) SearchHotels(ctx context.Context, cityCode string, checkIn, checkOut time.Time, adults, rooms int) ([]types.HotelOffer, error) {
	params := url.Values{}
	params.Set("cityCode", cityCode)
	params.Set("checkInDate", checkIn.Format("2006-01-02"))
	params.Set("checkOutDate", checkOut.Format("2006-01-02"))
	params.Set("adults", strconv.Itoa(adults))
	params.Set("roomQuantity", strconv.Itoa(rooms))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build hotel search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hotel search failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hotel search returned status %d", resp.StatusCode)
	}

	var raw hotelOffersResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode hotel offers: %w", err)
	}

	nights := checkOut.Sub(checkIn).Hours() / 24
	if nights < 1 {
		nights = 1
	}
	offers := make([]types.HotelOffer, 0, len(raw.Data))
	for _, d := range raw.Data {
		if len(d.Offers) == 0 {
			continue
		}
		total, _ := strconv.ParseFloat(d.Offers[0].Price.Total, 64)
		rating, _ := strconv.ParseFloat(d.Hotel.Rating, 64)
		offers = append(offers, types.HotelOffer{
			ID:            d.Hotel.HotelID,
			Name:          d.Hotel.Name,
			CityCode:      d.Hotel.CityCode,
			Rating:        rating,
			PricePerNight: total / nights,
			Currency:      d.Offers[0].Price.Currency,
		})
	}
	if len(offers) == 0 {
		return nil, fmt.Errorf("hotel search returned no offers")
	}
	return offers, nil
}

// StaticCodeResolver maps well-known city names to IATA codes and guesses
// for the rest.
type StaticCodeResolver struct{}

func NewStaticCodeResolver() *StaticCodeResolver {
	return &StaticCodeResolver{}
}

var cityCodes = map[string]string{
	"tokyo":     "TYO",
	"paris":     "PAR",
	"london":    "LON",
	"new york":  "NYC",
	"dubai":     "DXB",
	"bali":      "DPS",
	"rome":      "ROM",
	"barcelona": "BCN",
	"delhi":     "DEL",
	"mumbai":    "BOM",
	"singapore": "SIN",
	"bangkok":   "BKK",
	"sydney":    "SYD",
	"lisbon":    "LIS",
	"berlin":    "BER",
}

func (r *StaticCodeResolver) Resolve(_ context.Context, cityName string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(cityName))
	if code, ok := cityCodes[key]; ok {
		return code, nil
	}
	letters := strings.Map(func(c rune) rune {
		if c >= 'a' && c <= 'z' {
			return c
		}
		return -1
	}, key)
	if len(letters) < 3 {
		return "", fmt.Errorf("cannot derive a city code from %q", cityName)
	}
	return strings.ToUpper(letters[:3]), nil
}

package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/patrickmn/go-cache"

	"github.com/wanderly/wanderly-api/internal/types"
)

var _ Geocoder = (*HTTPGeocoder)(nil)

// HTTPGeocoder queries a Nominatim-compatible search endpoint. Results are
// cached indefinitely in process memory, keyed by the lowercase-trimmed
// query.
type HTTPGeocoder struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
	logger  *slog.Logger
}

func NewHTTPGeocoder(baseURL string, client *http.Client, logger *slog.Logger) *HTTPGeocoder {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGeocoder{
		baseURL: baseURL,
		client:  client,
		cache:   cache.New(cache.NoExpiration, cache.NoExpiration),
		logger:  logger,
	}
}

type nominatimResult struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Class       string `json:"class"`
	Type        string `json:"type"`
}

func (g *HTTPGeocoder) Search(ctx context.Context, name string) ([]types.GeocodeResult, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, nil
	}
	if v, ok := g.cache.Get(key); ok {
		return v.([]types.GeocodeResult), nil
	}

	endpoint := fmt.Sprintf("%s?q=%s&format=json&limit=3", g.baseURL, url.QueryEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", "wanderly-api/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var raw []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	results := make([]types.GeocodeResult, 0, len(raw))
	for _, r := range raw {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		results = append(results, types.GeocodeResult{
			ID:          strconv.FormatInt(r.PlaceID, 10),
			DisplayName: r.DisplayName,
			Latitude:    lat,
			Longitude:   lon,
			Class:       r.Class,
			Type:        r.Type,
		})
	}

	g.cache.Set(key, results, cache.NoExpiration)
	g.logger.DebugContext(ctx, "geocoded place", slog.String("query", key), slog.Int("results", len(results)))
	return results, nil
}

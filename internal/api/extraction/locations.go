package extraction

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/wanderly/wanderly-api/internal/types"
)

// Downstream geocoding is rate- and cost-limited, so only the first few
// distinct candidates are looked up.
const maxLocationCandidates = 3

// Apposition cues in the model text identify proper nouns as places.
var appositionRes = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z][A-Za-z '\-]{1,40}?)\s+is\s+located\s+(?:at|in|on)`),
	regexp.MustCompile(`([A-Z][A-Za-z '\-]{1,40}?),\s+a\s+city\s+in`),
	regexp.MustCompile(`([A-Z][A-Za-z '\-]{1,40}?),\s+the\s+capital\s+of`),
}

// If the model text carried no apposition cues, fall back to trip-intent
// phrasing in the user's own words.
var utteranceLocationRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:trip|travel|vacation|holiday)\s+to\s+([A-Za-z][A-Za-z '\-]{1,40}?)(?:\s+(?:for|from|with|on|in)\b|[.,!?]|$)`),
	regexp.MustCompile(`(?i)\bvisit(?:ing)?\s+([A-Za-z][A-Za-z '\-]{1,40}?)(?:\s+(?:for|from|with|on|in)\b|[.,!?]|$)`),
	// Case-insensitivity stays on the keyword only; the candidate must be
	// capitalized or the pattern swallows arbitrary prose.
	regexp.MustCompile(`\b(?i:in)\s+([A-Z][A-Za-z '\-]{1,40}?)(?:[.,!?]|$)`),
}

func (e *Engine) extractLocations(ctx context.Context, modelText, utterance string) []types.LocationHit {
	candidates := matchAll(appositionRes, modelText)
	if len(candidates) == 0 {
		candidates = matchAll(utteranceLocationRes, utterance)
	}
	candidates = dedupeNames(candidates)
	if len(candidates) > maxLocationCandidates {
		candidates = candidates[:maxLocationCandidates]
	}

	var hits []types.LocationHit
	for _, name := range candidates {
		results, err := e.geocoder.Search(ctx, name)
		if err != nil {
			// One failed lookup never blocks the rest.
			e.logger.DebugContext(ctx, "geocoding failed for candidate",
				slog.String("name", name), slog.Any("error", err))
			continue
		}
		for _, r := range results {
			hits = append(hits, types.LocationHit{
				ID:        uuid.NewString(),
				Name:      r.DisplayName,
				Latitude:  r.Latitude,
				Longitude: r.Longitude,
				Category:  r.Type,
			})
		}
	}
	return hits
}

func matchAll(patterns []*regexp.Regexp, text string) []string {
	var names []string
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			if name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// dedupeNames collapses candidates that differ only by case or surrounding
// whitespace, keeping first occurrences in order.
func dedupeNames(names []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(n))
	}
	return out
}

package intent

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wanderly/wanderly-api/internal/types"
)

// Extractor mines trip parameters from a single user utterance. Rules are
// independent; a rule that does not match simply proposes nothing. No rule
// ever returns an error.
type Extractor struct {
	logger *slog.Logger
	clock  func() time.Time
}

func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger, clock: time.Now}
}

// Approximate fixed conversion; there is no live FX lookup.
const inrPerUSD = 83.0

// Trip-length utterances with no explicit dates get a plannable window
// starting this far out.
const defaultDepartureHorizonDays = 30

var (
	originRe = regexp.MustCompile(`(?i)\b(?:from|in)\s+([A-Za-z][A-Za-z '\-]{1,40}?)\s+(?:to|and)\b`)
	// Ordered most-specific-first; the first matching rule wins.
	destinationRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:trip|travel|vacation|holiday|itinerary)\s+(?:to|for|in)\s+([A-Za-z][A-Za-z '\-]{1,40}?)(?:\s+(?:for|from|with|on|in)\b|[.,!?]|$)`),
		regexp.MustCompile(`(?i)\bvisit(?:ing)?\s+([A-Za-z][A-Za-z '\-]{1,40}?)(?:\s+(?:for|from|with|on|in)\b|[.,!?]|$)`),
		regexp.MustCompile(`(?i)\bto\s+([A-Za-z][A-Za-z '\-]{1,40}?)(?:\s+(?:for|from|with|on|in)\b|[.,!?]|$)`),
		regexp.MustCompile(`(?i)\bplan(?:ning)?\s+(?:(?:a|an|the|my|our)\s+)*([A-Za-z][A-Za-z '\-]{1,40}?)(?:\s+(?:for|from|with|on|in)\b|[.,!?]|$)`),
	}
	tripDaysRe    = regexp.MustCompile(`(?i)\b(\d{1,2})[-\s]?day(?:s)?\b`)
	budgetINRRe   = regexp.MustCompile(`(?i)(?:₹|rs\.?\s*|inr\s*)([\d,]+(?:\.\d+)?)`)
	budgetUSDRe   = regexp.MustCompile(`(?i)(?:\$\s*|usd\s*)([\d,]+(?:\.\d+)?)`)
	travelersRe   = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:people|persons?|travell?ers?|adults?|pax)\b`)
)

var titleCaser = cases.Title(language.English)

// UpdateSession applies the rule list against the utterance and returns
// only the fields it would change. The caller merges with first-write-wins
// semantics; the input session is never mutated here.
func (e *Extractor) UpdateSession(utterance string, sess *types.TravelSession) types.SessionDelta {
	var delta types.SessionDelta

	if sess.Origin == "" {
		if m := originRe.FindStringSubmatch(utterance); m != nil {
			origin := cleanPlace(m[1])
			if origin != "" {
				delta.Origin = &origin
			}
		}
	}

	if sess.Destination == "" {
		for _, re := range destinationRes {
			m := re.FindStringSubmatch(utterance)
			if m == nil {
				continue
			}
			dest := cleanPlace(m[1])
			if dest == "" {
				continue
			}
			delta.Destination = &dest
			break
		}
	}

	if sess.DepartureDate == nil && sess.ReturnDate == nil {
		if m := tripDaysRe.FindStringSubmatch(utterance); m != nil {
			if days, err := strconv.Atoi(m[1]); err == nil && days > 0 {
				departure := e.clock().AddDate(0, 0, defaultDepartureHorizonDays).Truncate(24 * time.Hour)
				ret := departure.AddDate(0, 0, days)
				delta.DepartureDate = &departure
				delta.ReturnDate = &ret
			}
		}
	}

	if sess.Budget == 0 {
		// INR and USD patterns are mutually exclusive; INR wins when both
		// currencies are somehow present because its marker is explicit.
		if m := budgetINRRe.FindStringSubmatch(utterance); m != nil {
			if amount, ok := parseAmount(m[1]); ok {
				usd := amount / inrPerUSD
				currency := "USD"
				delta.Budget = &usd
				delta.Currency = &currency
			}
		} else if m := budgetUSDRe.FindStringSubmatch(utterance); m != nil {
			if amount, ok := parseAmount(m[1]); ok {
				currency := "USD"
				delta.Budget = &amount
				delta.Currency = &currency
			}
		}
	}

	if m := travelersRe.FindStringSubmatch(utterance); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			delta.Travelers = &n
		}
	}

	if !delta.Empty() {
		e.logger.Debug("intent extraction proposed session fields",
			slog.String("conversation_id", sess.ConversationID))
	}
	return delta
}

func parseAmount(raw string) (float64, bool) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}

// cleanPlace trims captured place names and drops obvious non-places the
// loose prepositional patterns tend to swallow.
func cleanPlace(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.Trim(name, ".,!?")
	if name == "" {
		return ""
	}
	lower := strings.ToLower(name)
	stop := map[string]bool{
		"me": true, "there": true, "here": true, "a": true, "the": true,
		"go": true, "visit": true, "travel": true, "see": true, "do": true,
	}
	if stop[lower] {
		return ""
	}
	return titleCaser.String(lower)
}

package extraction

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/wanderly/wanderly-api/internal/types"
)

const (
	defaultNumberOfDays = 3
	defaultDestination  = "Your Destination"
)

var (
	itineraryCueRe = regexp.MustCompile(`(?i)\bitinerary\b|\bday\s*1\b`)

	destinationPhraseRe = regexp.MustCompile(`(?i)\b(?:trip|visit|travel|itinerary|plan)\s+(?:to|for|in|at)\s+([A-Za-z][A-Za-z '\-]{1,40}?)(?:\s+(?:for|from|with|on|in)\b|[.,!?:]|$)`)
	capAfterPrepRe      = regexp.MustCompile(`\b(?:to|for|in|at)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2})`)

	nDayRe      = regexp.MustCompile(`(?i)\b(\d{1,2})[-\s]?day\b`)
	dayHeaderRe = regexp.MustCompile(`(?im)^\s*(?:\*{0,2}|#{0,4}\s*)day\s+(\d{1,2})\b[:.\-\s]*(.*)$`)

	explicitTimeLineRe = regexp.MustCompile(`(?m)^\s*[-*]?\s*(\d{1,2}(?::\d{2})?\s*(?:AM|PM|am|pm))\s*[-–:]\s*(.+)$`)
	periodLineRe       = regexp.MustCompile(`(?im)^\s*[-*]?\s*(morning|afternoon|evening|night)\s*[:\-]\s*(.+)$`)
	bulletLineRe       = regexp.MustCompile(`(?m)^\s*(?:[-*•]|\d+[.)])\s+(.+)$`)
	timePrefixRe       = regexp.MustCompile(`^\s*\d{1,2}(?::\d{2})?\s*(?:AM|PM|am|pm)?\s*[-–:]`)
)

// Canonical times for period-of-day labels.
var periodTimes = map[string]string{
	"morning":   "9:00 AM",
	"afternoon": "2:00 PM",
	"evening":   "7:00 PM",
	"night":     "9:00 PM",
}

// Fixed rotation assigned to bullet items that carry no time of their own.
var bulletSlotTimes = []string{"8:00 AM", "10:30 AM", "1:00 PM", "3:30 PM", "6:00 PM", "8:30 PM"}

// extractItinerary mines a multi-day plan out of the model text. It only
// triggers on explicit cues; everything after that degrades through
// fallbacks down to a deterministic default template, so a triggered
// extraction always yields a full itinerary.
func (e *Engine) extractItinerary(modelText, utterance string) *types.ItineraryDraft {
	if !itineraryCueRe.MatchString(modelText) {
		return nil
	}

	destination := resolveDestination(utterance, modelText)
	numberOfDays := resolveNumberOfDays(modelText, utterance)

	days := segmentDays(modelText)
	if len(days) == 0 {
		days = defaultDayTemplate(destination, numberOfDays)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })

	return &types.ItineraryDraft{
		ID:          uuid.NewString(),
		Title:       fmt.Sprintf("%d-Day Itinerary for %s", len(days), destination),
		Destination: destination,
		Days:        days,
	}
}

// resolveDestination tries, in order: trip-intent phrasing in the user
// utterance, the same in the model text, a capitalized phrase after a
// preposition in either, then the literal default.
func resolveDestination(utterance, modelText string) string {
	for _, text := range []string{utterance, modelText} {
		if m := destinationPhraseRe.FindStringSubmatch(text); m != nil {
			if name := cleanDestination(m[1]); name != "" {
				return name
			}
		}
	}
	for _, text := range []string{utterance, modelText} {
		if m := capAfterPrepRe.FindStringSubmatch(text); m != nil {
			if name := cleanDestination(m[1]); name != "" {
				return name
			}
		}
	}
	return defaultDestination
}

func cleanDestination(raw string) string {
	name := strings.TrimSpace(strings.Trim(raw, ".,!?:"))
	if len(name) < 2 {
		return ""
	}
	lower := strings.ToLower(name)
	for _, stop := range []string{"me", "you", "a", "the", "your", "day", "days"} {
		if lower == stop {
			return ""
		}
	}
	words := strings.Fields(lower)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// resolveNumberOfDays prefers an explicit "N-day" in the model text over
// the utterance, defaulting to 3.
func resolveNumberOfDays(modelText, utterance string) int {
	for _, text := range []string{modelText, utterance} {
		if m := nDayRe.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n
			}
		}
	}
	return defaultNumberOfDays
}

// segmentDays splits the text on repeated "Day N" headers; each body runs
// to the next header or end of text.
func segmentDays(text string) []types.ItineraryDay {
	headers := dayHeaderRe.FindAllStringSubmatchIndex(text, -1)
	if len(headers) == 0 {
		return nil
	}

	var days []types.ItineraryDay
	seen := map[int]bool{}
	for i, h := range headers {
		numStr := text[h[2]:h[3]]
		num, err := strconv.Atoi(numStr)
		if err != nil || seen[num] {
			continue
		}
		headerRest := ""
		if h[4] >= 0 {
			headerRest = strings.TrimSpace(text[h[4]:h[5]])
		}

		bodyStart := h[1]
		bodyEnd := len(text)
		if i+1 < len(headers) {
			bodyEnd = headers[i+1][0]
		}
		body := text[bodyStart:bodyEnd]

		activities := extractActivities(body)
		if len(activities) == 0 {
			continue
		}
		seen[num] = true
		days = append(days, types.ItineraryDay{
			Day:        num,
			Title:      dayTitle(headerRest, body, activities),
			Activities: activities,
		})
	}
	return days
}

// extractActivities tries each strategy in strict order and stops at the
// first one that yields at least one activity.
func extractActivities(body string) []types.Activity {
	for _, strategy := range []func(string) []types.Activity{
		explicitTimeActivities,
		periodLabelActivities,
		bulletActivities,
		rawLineActivities,
	} {
		if activities := strategy(body); len(activities) > 0 {
			return activities
		}
	}
	return nil
}

func explicitTimeActivities(body string) []types.Activity {
	var out []types.Activity
	for _, m := range explicitTimeLineRe.FindAllStringSubmatch(body, -1) {
		desc := strings.TrimSpace(m[2])
		if desc == "" {
			continue
		}
		out = append(out, types.Activity{
			Time:        normalizeTime(m[1]),
			Description: desc,
		})
	}
	return out
}

func periodLabelActivities(body string) []types.Activity {
	var out []types.Activity
	for _, m := range periodLineRe.FindAllStringSubmatch(body, -1) {
		desc := strings.TrimSpace(m[2])
		if desc == "" {
			continue
		}
		out = append(out, types.Activity{
			Time:        periodTimes[strings.ToLower(m[1])],
			Description: desc,
		})
	}
	return out
}

func bulletActivities(body string) []types.Activity {
	var out []types.Activity
	for _, m := range bulletLineRe.FindAllStringSubmatch(body, -1) {
		desc := strings.TrimSpace(m[1])
		if desc == "" {
			continue
		}
		out = append(out, types.Activity{
			Time:        bulletSlotTimes[len(out)%len(bulletSlotTimes)],
			Description: desc,
		})
	}
	return out
}

// rawLineActivities is the last resort: every non-empty line longer than
// 10 characters becomes an activity, with synthetic times advancing two
// hours from 8:00 AM and wrapping after a 14-hour span.
func rawLineActivities(body string) []types.Activity {
	var out []types.Activity
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 10 {
			continue
		}
		hourOffset := (len(out) * 2) % 14
		hour := 8 + hourOffset
		suffix := "AM"
		if hour >= 12 {
			suffix = "PM"
			if hour > 12 {
				hour -= 12
			}
		}
		out = append(out, types.Activity{
			Time:        fmt.Sprintf("%d:00 %s", hour, suffix),
			Description: line,
		})
	}
	return out
}

func normalizeTime(raw string) string {
	t := strings.ToUpper(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "AM", " AM")
	t = strings.ReplaceAll(t, "PM", " PM")
	t = strings.Join(strings.Fields(t), " ")
	if !strings.Contains(t, ":") {
		t = strings.Replace(t, " ", ":00 ", 1)
	}
	return t
}

// Keyword buckets for inferring a day title from its first activity.
var titleBuckets = []struct {
	keywords []string
	title    string
}{
	{[]string{"temple", "shrine", "palace"}, "Cultural Exploration"},
	{[]string{"market", "shop"}, "Shopping & Local Markets"},
	{[]string{"museum", "art", "gallery"}, "Arts & Museums"},
	{[]string{"park", "garden", "nature"}, "Nature & Outdoors"},
	{[]string{"food", "restaurant", "cafe"}, "Food & Culinary Experiences"},
}

// dayTitle prefers the header remainder, then the first non-time line, both
// truncated to stay under 50 chars, then keyword buckets over the first
// activity, then the truncated first activity itself.
func dayTitle(headerRest, body string, activities []types.Activity) string {
	if headerRest != "" {
		return truncate(strings.Trim(headerRest, " -:"), 47)
	}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || timePrefixRe.MatchString(line) || bulletLineRe.MatchString(line) {
			continue
		}
		return truncate(strings.Trim(line, " -:"), 47)
	}

	first := strings.ToLower(activities[0].Description)
	for _, bucket := range titleBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(first, kw) {
				return bucket.title
			}
		}
	}
	return truncate(activities[0].Description, 47)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// defaultDayTemplate fabricates a deterministic plan when the text carried
// cues but no parsable day sections. Day 1 and the last day get distinct
// arrival and farewell framing.
func defaultDayTemplate(destination string, numberOfDays int) []types.ItineraryDay {
	days := make([]types.ItineraryDay, 0, numberOfDays)
	for d := 1; d <= numberOfDays; d++ {
		var title string
		var activities []types.Activity
		switch {
		case d == 1:
			title = "Arrival & Orientation"
			activities = []types.Activity{
				{Time: "8:00 AM", Description: "Breakfast at the hotel"},
				{Time: "10:30 AM", Description: fmt.Sprintf("Arrive and check in to your stay in %s", destination)},
				{Time: "1:00 PM", Description: "Lunch at a nearby local restaurant"},
				{Time: "3:30 PM", Description: "Orientation walk around the neighbourhood"},
				{Time: "6:00 PM", Description: "Sunset viewpoint visit"},
				{Time: "8:30 PM", Description: "Welcome dinner with local specialties"},
			}
		case d == numberOfDays:
			title = "Farewell Day"
			activities = []types.Activity{
				{Time: "8:00 AM", Description: "Breakfast and packing"},
				{Time: "10:30 AM", Description: "Last-minute souvenir shopping"},
				{Time: "1:00 PM", Description: "Farewell lunch at a favourite spot"},
				{Time: "3:30 PM", Description: fmt.Sprintf("Final stroll through %s", destination)},
				{Time: "6:00 PM", Description: "Collect luggage and head to departure"},
				{Time: "8:30 PM", Description: "Departure"},
			}
		default:
			title = fmt.Sprintf("Exploring %s", destination)
			activities = []types.Activity{
				{Time: "8:00 AM", Description: "Breakfast at a local cafe"},
				{Time: "10:30 AM", Description: fmt.Sprintf("Morning sightseeing in %s", destination)},
				{Time: "1:00 PM", Description: "Lunch featuring regional dishes"},
				{Time: "3:30 PM", Description: "Afternoon museum or market visit"},
				{Time: "6:00 PM", Description: "Relax at a park or waterfront"},
				{Time: "8:30 PM", Description: "Dinner and evening entertainment"},
			}
		}
		days = append(days, types.ItineraryDay{Day: d, Title: title, Activities: activities})
	}
	return days
}

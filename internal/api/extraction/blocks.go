package extraction

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/wanderly/wanderly-api/internal/types"
)

// parsedItem is the tier-independent shape every food/attraction fallback
// produces before mapping to the public entity types.
type parsedItem struct {
	Name         string `json:"name"`
	Price        string `json:"price"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	Duration     string `json:"duration"`
	Hours        string `json:"hours"`
	ImageKeyword string `json:"image_keyword"`
}

type blockSpec struct {
	labels           []string
	proseHeadings    []*regexp.Regexp
	sentencePatterns []*regexp.Regexp
}

var foodSpec = blockSpec{
	labels: []string{"LOCAL_FOOD:", "LOCAL FOOD:", "LOCALFOOD:", "local_food:"},
	proseHeadings: []*regexp.Regexp{
		regexp.MustCompile(`(?i)^\s*#{0,4}\s*\**\s*(?:local\s+(?:cuisine|food|dishes)|must[- ]try\s+food|what\s+to\s+eat)\b`),
	},
	// Case-insensitivity covers the lead-in only; the name must be
	// capitalized so phrases like "try the local bread" are not captured.
	sentencePatterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i:\bpopular\s+(?:food|dish)\s+called)\s+([A-Z][A-Za-z '\-]{2,40}?)(?:[.,!?]|$)`),
		regexp.MustCompile(`(?i:\btry\s+the)\s+([A-Z][A-Za-z '\-]{2,40}?)(?:[.,!?]|$)`),
	},
}

var attractionSpec = blockSpec{
	labels: []string{"LOCAL_ATTRACTIONS:", "LOCAL ATTRACTIONS:", "LOCALATTRACTIONS:", "local_attractions:"},
	proseHeadings: []*regexp.Regexp{
		regexp.MustCompile(`(?i)^\s*#{0,4}\s*\**\s*(?:local\s+attractions|top\s+attractions|things\s+to\s+(?:do|see)|must[- ]see)\b`),
	},
	sentencePatterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i:\bvisit\s+the)\s+([A-Z][A-Za-z '\-]{2,40}?)(?:[.,!?]|$)`),
		regexp.MustCompile(`(?i:\bdon'?t\s+miss)\s+(?i:the\s+)?([A-Z][A-Za-z '\-]{2,40}?)(?:[.,!?]|$)`),
	},
}

func (e *Engine) extractFood(modelText string) []types.FoodItem {
	items := extractItems(modelText, foodSpec)
	out := make([]types.FoodItem, 0, len(items))
	for _, it := range items {
		out = append(out, types.FoodItem{
			ID:          uuid.NewString(),
			Name:        it.Name,
			Price:       it.Price,
			Description: it.Description,
			Location:    it.Location,
			ImageURL:    imageSearchURL(it.ImageKeyword, it.Name),
		})
	}
	return out
}

func (e *Engine) extractAttractions(modelText string) []types.AttractionItem {
	items := extractItems(modelText, attractionSpec)
	out := make([]types.AttractionItem, 0, len(items))
	for _, it := range items {
		duration := it.Duration
		if duration == "" {
			duration = it.Hours
		}
		out = append(out, types.AttractionItem{
			ID:          uuid.NewString(),
			Name:        it.Name,
			Price:       it.Price,
			Description: it.Description,
			Location:    it.Location,
			Duration:    duration,
			ImageURL:    imageSearchURL(it.ImageKeyword, it.Name),
		})
	}
	return out
}

// extractItems works down the fallback tiers: strict(ish) JSON block,
// per-object regex over the block, labeled prose sections, then sentence
// patterns. Names are deduplicated case-insensitively at every tier.
func extractItems(text string, spec blockSpec) []parsedItem {
	if block, ok := findBlock(text, spec.labels); ok {
		if items := parseJSONBlock(block); len(items) > 0 {
			return dedupeItems(items)
		}
		if items := regexBlockItems(block); len(items) > 0 {
			return dedupeItems(items)
		}
	}
	if items := proseSectionItems(text, spec.proseHeadings); len(items) > 0 {
		return dedupeItems(items)
	}
	return dedupeItems(sentenceItems(text, spec.sentencePatterns))
}

// findBlock locates the first label variant and returns the bracketed
// array that follows it.
func findBlock(text string, labels []string) (string, bool) {
	for _, label := range labels {
		idx := strings.Index(text, label)
		if idx < 0 {
			continue
		}
		rest := text[idx+len(label):]
		open := strings.Index(rest, "[")
		if open < 0 {
			continue
		}
		depth := 0
		for i := open; i < len(rest); i++ {
			switch rest[i] {
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					return rest[open : i+1], true
				}
			}
		}
	}
	return "", false
}

var (
	barewordKeyRe   = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// parseJSONBlock treats the block as an untrusted, possibly malformed
// payload: newlines are flattened, bareword keys and single quotes are
// rewritten into valid JSON, and trailing commas stripped before a strict
// parse. A parse failure is a defined negative signal for the next tier.
func parseJSONBlock(block string) []parsedItem {
	repaired := strings.ReplaceAll(block, "\n", " ")
	repaired = strings.ReplaceAll(repaired, "\r", " ")
	repaired = barewordKeyRe.ReplaceAllString(repaired, `$1"$2":`)
	repaired = trailingCommaRe.ReplaceAllString(repaired, `$1`)

	items, ok := unmarshalItems(repaired)
	if !ok {
		// Single-quoted strings are only rewritten on a second attempt so
		// apostrophes inside already-valid JSON values survive the first.
		items, ok = unmarshalItems(strings.ReplaceAll(repaired, `'`, `"`))
	}
	if !ok {
		return nil
	}
	var out []parsedItem
	for _, it := range items {
		if strings.TrimSpace(it.Name) != "" {
			out = append(out, it)
		}
	}
	return out
}

func unmarshalItems(s string) ([]parsedItem, bool) {
	var items []parsedItem
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, false
	}
	return items, true
}

var (
	objectRe = regexp.MustCompile(`\{[^{}]*\}`)
	fieldRes = map[string]*regexp.Regexp{
		"name":          regexp.MustCompile(`(?i)["']?name["']?\s*:\s*["']([^"']+)["']`),
		"price":         regexp.MustCompile(`(?i)["']?price["']?\s*:\s*["']([^"']+)["']`),
		"description":   regexp.MustCompile(`(?i)["']?description["']?\s*:\s*["']([^"']+)["']`),
		"location":      regexp.MustCompile(`(?i)["']?location["']?\s*:\s*["']([^"']+)["']`),
		"duration":      regexp.MustCompile(`(?i)["']?(?:duration|hours)["']?\s*:\s*["']([^"']+)["']`),
		"image_keyword": regexp.MustCompile(`(?i)["']?image_keyword["']?\s*:\s*["']([^"']+)["']`),
	}
)

// regexBlockItems recovers individual fields from each {...} object when
// the repaired block still refuses to parse as JSON.
func regexBlockItems(block string) []parsedItem {
	var out []parsedItem
	for _, obj := range objectRe.FindAllString(block, -1) {
		item := parsedItem{
			Name:         fieldValue(obj, "name"),
			Price:        fieldValue(obj, "price"),
			Description:  fieldValue(obj, "description"),
			Location:     fieldValue(obj, "location"),
			Duration:     fieldValue(obj, "duration"),
			ImageKeyword: fieldValue(obj, "image_keyword"),
		}
		if item.Name != "" {
			out = append(out, item)
		}
	}
	return out
}

func fieldValue(obj, field string) string {
	if m := fieldRes[field].FindStringSubmatch(obj); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

var proseListItemRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+\**([^:*\n]{2,60})\**(?:\s*[:\-–]\s*(.+))?$`)

// proseSectionItems scans for a labeled heading and collects the list
// items under it, stopping at the next heading or blank-line gap.
func proseSectionItems(text string, headings []*regexp.Regexp) []parsedItem {
	lines := strings.Split(text, "\n")
	var out []parsedItem
	inSection := false
	blankRun := 0
	for _, line := range lines {
		if !inSection {
			for _, h := range headings {
				if h.MatchString(line) {
					inSection = true
					blankRun = 0
					break
				}
			}
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blankRun++
			if blankRun > 1 {
				break
			}
			continue
		}
		blankRun = 0
		m := proseListItemRe.FindStringSubmatch(line)
		if m == nil {
			// A non-list, non-empty line ends the section.
			if len(out) > 0 {
				break
			}
			continue
		}
		item := parsedItem{Name: strings.TrimSpace(m[1])}
		if len(m) > 2 {
			item.Description = strings.TrimSpace(m[2])
		}
		if item.Name != "" {
			out = append(out, item)
		}
	}
	return out
}

func sentenceItems(text string, patterns []*regexp.Regexp) []parsedItem {
	var out []parsedItem
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			if name != "" {
				out = append(out, parsedItem{Name: name})
			}
		}
	}
	return out
}

func dedupeItems(items []parsedItem) []parsedItem {
	seen := map[string]bool{}
	var out []parsedItem
	for _, it := range items {
		key := strings.ToLower(strings.TrimSpace(it.Name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}

// imageSearchURL builds a deterministic image-search link from the
// explicit keyword when the block supplied one, else the item name.
func imageSearchURL(keyword, name string) string {
	q := strings.TrimSpace(keyword)
	if q == "" {
		q = strings.TrimSpace(name)
	}
	return fmt.Sprintf("https://www.google.com/search?tbm=isch&q=%s", url.QueryEscape(q))
}

package modelclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/wanderly/wanderly-api/internal/types"
)

// Fallback is the deterministic canned-response generator used whenever the
// live model is unreachable. Its output honours the same structured-block
// contract as the real model, so the extraction pipeline downstream cannot
// tell the two apart.
type Fallback struct{}

func NewFallback() *Fallback {
	return &Fallback{}
}

var _ Client = (*Fallback)(nil)

type cannedCity struct {
	food       string
	foodBlock  string
	sights     string
	sightBlock string
}

// The exact keyword set the canned generator recognises.
var cannedCities = map[string]cannedCity{
	"tokyo": {
		food:       "Tokyo is a paradise for food lovers, from street ramen to sushi counters.",
		foodBlock:  `LOCAL_FOOD:[{"name":"Tonkotsu Ramen","price":"$8","description":"Rich pork-bone broth ramen","location":"Shinjuku","image_keyword":"ramen"},{"name":"Sushi Omakase","price":"$40","description":"Chef's selection of fresh nigiri","location":"Tsukiji","image_keyword":"sushi"}]`,
		sights:     "Tokyo blends neon districts with serene shrines.",
		sightBlock: `LOCAL_ATTRACTIONS:[{"name":"Senso-ji Temple","price":"Free","description":"Tokyo's oldest Buddhist temple","location":"Asakusa","duration":"2 hours","image_keyword":"sensoji temple"},{"name":"Shibuya Crossing","price":"Free","description":"The world's busiest pedestrian crossing","location":"Shibuya","duration":"1 hour","image_keyword":"shibuya crossing"}]`,
	},
	"paris": {
		food:       "Parisian cuisine ranges from corner boulangeries to Michelin stars.",
		foodBlock:  `LOCAL_FOOD:[{"name":"Croissant","price":"$3","description":"Flaky butter pastry","location":"Le Marais","image_keyword":"croissant"},{"name":"Coq au Vin","price":"$22","description":"Chicken braised in red wine","location":"Saint-Germain","image_keyword":"coq au vin"}]`,
		sights:     "Paris rewards wandering between landmarks and cafes.",
		sightBlock: `LOCAL_ATTRACTIONS:[{"name":"Eiffel Tower","price":"$25","description":"Iron lattice tower with city views","location":"Champ de Mars","duration":"3 hours","image_keyword":"eiffel tower"},{"name":"Louvre Museum","price":"$20","description":"World's largest art museum","location":"Rue de Rivoli","duration":"4 hours","image_keyword":"louvre"}]`,
	},
	"london": {
		food:       "London's food scene spans historic pubs and global markets.",
		foodBlock:  `LOCAL_FOOD:[{"name":"Fish and Chips","price":"$12","description":"Battered cod with thick-cut chips","location":"Borough Market","image_keyword":"fish and chips"}]`,
		sights:     "London packs a millennium of history into a walkable core.",
		sightBlock: `LOCAL_ATTRACTIONS:[{"name":"Tower of London","price":"$30","description":"Historic castle and Crown Jewels","location":"Tower Hill","duration":"3 hours","image_keyword":"tower of london"}]`,
	},
	"new york": {
		food:       "New York serves every cuisine on earth, often at 2am.",
		foodBlock:  `LOCAL_FOOD:[{"name":"New York Pizza","price":"$4","description":"Classic foldable thin-crust slice","location":"Brooklyn","image_keyword":"new york pizza"}]`,
		sights:     "New York's skyline and parks never run out of corners to explore.",
		sightBlock: `LOCAL_ATTRACTIONS:[{"name":"Central Park","price":"Free","description":"843-acre urban park","location":"Manhattan","duration":"3 hours","image_keyword":"central park"}]`,
	},
	"dubai": {
		food:       "Dubai mixes Levantine classics with high-end dining.",
		foodBlock:  `LOCAL_FOOD:[{"name":"Shawarma","price":"$5","description":"Spit-roasted meat wrap","location":"Al Karama","image_keyword":"shawarma"}]`,
		sights:     "Dubai is built around superlatives, from towers to malls.",
		sightBlock: `LOCAL_ATTRACTIONS:[{"name":"Burj Khalifa","price":"$40","description":"World's tallest building observation deck","location":"Downtown Dubai","duration":"2 hours","image_keyword":"burj khalifa"}]`,
	},
	"bali": {
		food:       "Balinese food is fragrant, fiery and fresh off the warung grill.",
		foodBlock:  `LOCAL_FOOD:[{"name":"Nasi Goreng","price":"$3","description":"Indonesian fried rice","location":"Ubud","image_keyword":"nasi goreng"}]`,
		sights:     "Bali layers rice terraces, temples and surf beaches.",
		sightBlock: `LOCAL_ATTRACTIONS:[{"name":"Tanah Lot Temple","price":"$5","description":"Sea temple on a rock formation","location":"Tabanan","duration":"2 hours","image_keyword":"tanah lot"}]`,
	},
	"rome": {
		food:       "Roman trattorias keep pasta traditions alive on every block.",
		foodBlock:  `LOCAL_FOOD:[{"name":"Carbonara","price":"$14","description":"Pasta with egg, pecorino and guanciale","location":"Trastevere","image_keyword":"carbonara"}]`,
		sights:     "Rome is an open-air museum two millennia deep.",
		sightBlock: `LOCAL_ATTRACTIONS:[{"name":"Colosseum","price":"$18","description":"Ancient Roman amphitheatre","location":"Piazza del Colosseo","duration":"3 hours","image_keyword":"colosseum"}]`,
	},
	"barcelona": {
		food:       "Barcelona's tapas bars and markets reward grazing all day.",
		foodBlock:  `LOCAL_FOOD:[{"name":"Patatas Bravas","price":"$6","description":"Fried potatoes with spicy sauce","location":"El Born","image_keyword":"patatas bravas"}]`,
		sights:     "Barcelona pairs Gaudi's fantasies with Mediterranean beaches.",
		sightBlock: `LOCAL_ATTRACTIONS:[{"name":"Sagrada Familia","price":"$28","description":"Gaudi's unfinished basilica","location":"Eixample","duration":"2 hours","image_keyword":"sagrada familia"}]`,
	},
}

const capabilityMessage = `I'm your travel-planning assistant! Here's what I can help with:
- Plan day-by-day itineraries for your destination
- Check typical weather for your travel dates
- Suggest local food and must-see attractions
- Find flight and hotel options for your trip

Tell me where you'd like to go, for how long, and your budget, and I'll put a plan together.`

// Generate never fails; it keys off the latest user message.
func (f *Fallback) Generate(_ context.Context, history []types.ConversationEntry) (string, error) {
	utterance := ""
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == types.RoleUser {
			utterance = history[i].Content
			break
		}
	}
	lower := strings.ToLower(utterance)

	city, known := f.matchCity(lower)
	wantsItinerary := strings.Contains(lower, "itinerary") || strings.Contains(lower, "plan")
	wantsFood := strings.Contains(lower, "food") || strings.Contains(lower, "eat") || strings.Contains(lower, "restaurant")
	wantsWeather := strings.Contains(lower, "weather") || strings.Contains(lower, "climate") || strings.Contains(lower, "temperature")
	wantsHotel := strings.Contains(lower, "hotel") || strings.Contains(lower, "stay") || strings.Contains(lower, "accommodation")

	if !known {
		return capabilityMessage, nil
	}
	info := cannedCities[city]
	title := titleCase(city)

	var b strings.Builder
	switch {
	case wantsItinerary:
		fmt.Fprintf(&b, "Here's a suggested itinerary for %s.\n\n", title)
		b.WriteString(cannedItinerary(title))
		b.WriteString("\n\n")
		b.WriteString(info.sightBlock)
	case wantsFood:
		b.WriteString(info.food)
		b.WriteString("\n\n")
		b.WriteString(info.foodBlock)
	case wantsWeather:
		fmt.Fprintf(&b, "I couldn't reach the live forecast, but %s is a year-round destination; check the weather card for typical conditions.", title)
	case wantsHotel:
		fmt.Fprintf(&b, "%s has stays for every budget, from hostels to luxury hotels. Share your dates and budget and I'll look up options.", title)
	default:
		fmt.Fprintf(&b, "%s is a great choice! %s\n\n%s", title, info.sights, info.sightBlock)
	}
	return b.String(), nil
}

func (f *Fallback) matchCity(lower string) (string, bool) {
	for city := range cannedCities {
		if strings.Contains(lower, city) {
			return city, true
		}
	}
	return "", false
}

func cannedItinerary(city string) string {
	return fmt.Sprintf(`Day 1: Arrival & Orientation
9:00 AM - Arrive and check in
2:00 PM - Walking tour of the city centre
7:00 PM - Welcome dinner with local specialties

Day 2: Highlights of %s
9:00 AM - Visit the top landmark
2:00 PM - Explore a local market
7:00 PM - Evening food tour

Day 3: Farewell Day
9:00 AM - Last-minute souvenir shopping
2:00 PM - Relaxed cafe afternoon
7:00 PM - Farewell dinner`, city)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngineNoNetwork(t *testing.T) *Engine {
	t.Helper()
	geocoder, weather := noMatchMocks()
	return newTestEngine(geocoder, weather)
}

const wellFormedItinerary = `Here's your itinerary for your trip to Kyoto.

Day 1: Temples and Tradition
9:00 AM - Visit Fushimi Inari shrine
1:00 PM - Lunch near Gion
3:30 PM - Kiyomizu-dera temple walk

Day 2: Markets and Food
10:00 AM - Nishiki market tour
2:00 PM - Tea ceremony experience
7:00 PM - Kaiseki dinner`

func TestExtractItinerary_RequiresCue(t *testing.T) {
	e := testEngineNoNetwork(t)
	assert.Nil(t, e.extractItinerary("Kyoto is lovely in autumn.", "tell me about Kyoto"))
}

func TestExtractItinerary_WellFormedDays(t *testing.T) {
	e := testEngineNoNetwork(t)

	draft := e.extractItinerary(wellFormedItinerary, "plan a trip to Kyoto")
	require.NotNil(t, draft)
	assert.Equal(t, "Kyoto", draft.Destination)
	require.Len(t, draft.Days, 2)

	day1 := draft.Days[0]
	assert.Equal(t, 1, day1.Day)
	assert.Equal(t, "Temples and Tradition", day1.Title)
	require.Len(t, day1.Activities, 3)
	assert.Equal(t, "9:00 AM", day1.Activities[0].Time)
	assert.Equal(t, "Visit Fushimi Inari shrine", day1.Activities[0].Description)

	day2 := draft.Days[1]
	assert.Equal(t, 2, day2.Day)
	require.Len(t, day2.Activities, 3)
}

func TestExtractItinerary_IdempotentUpToIDs(t *testing.T) {
	e := testEngineNoNetwork(t)

	a := e.extractItinerary(wellFormedItinerary, "plan a trip to Kyoto")
	b := e.extractItinerary(wellFormedItinerary, "plan a trip to Kyoto")
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Title, b.Title)
	assert.Equal(t, a.Days, b.Days)
}

func TestExtractItinerary_PeriodLabelsMapToCanonicalTimes(t *testing.T) {
	e := testEngineNoNetwork(t)

	text := `Your itinerary:
Day 1: Osaka Highlights
Morning: Osaka Castle grounds
Afternoon: Dotonbori street food
Evening: River cruise
Night: Umeda Sky Building views`

	draft := e.extractItinerary(text, "plan a trip to Osaka")
	require.NotNil(t, draft)
	require.Len(t, draft.Days, 1)
	acts := draft.Days[0].Activities
	require.Len(t, acts, 4)
	assert.Equal(t, "9:00 AM", acts[0].Time)
	assert.Equal(t, "2:00 PM", acts[1].Time)
	assert.Equal(t, "7:00 PM", acts[2].Time)
	assert.Equal(t, "9:00 PM", acts[3].Time)
}

func TestExtractItinerary_BulletRotation(t *testing.T) {
	e := testEngineNoNetwork(t)

	text := `Day 1 itinerary:
Day 1: City Wandering
- Walk the old town
- Coffee at a historic cafe
- Riverside picnic
- Cathedral visit
- Gallery hop
- Night market stroll
- Rooftop bar nightcap`

	draft := e.extractItinerary(text, "plan a trip to Porto")
	require.NotNil(t, draft)
	acts := draft.Days[0].Activities
	require.Len(t, acts, 7)
	assert.Equal(t, "8:00 AM", acts[0].Time)
	assert.Equal(t, "10:30 AM", acts[1].Time)
	assert.Equal(t, "1:00 PM", acts[2].Time)
	assert.Equal(t, "3:30 PM", acts[3].Time)
	assert.Equal(t, "6:00 PM", acts[4].Time)
	assert.Equal(t, "8:30 PM", acts[5].Time)
	// Rotation wraps back to the first slot.
	assert.Equal(t, "8:00 AM", acts[6].Time)
}

func TestExtractItinerary_RawLineFallbackTimes(t *testing.T) {
	e := testEngineNoNetwork(t)

	text := `Day 1:
Start with the harbour district and its fish market
Continue through the botanical gardens after lunch
Finish with dinner in the old quarter`

	draft := e.extractItinerary(text, "itinerary please")
	require.NotNil(t, draft)
	acts := draft.Days[0].Activities
	require.Len(t, acts, 3)
	assert.Equal(t, "8:00 AM", acts[0].Time)
	assert.Equal(t, "10:00 AM", acts[1].Time)
	assert.Equal(t, "12:00 PM", acts[2].Time)
}

func TestExtractItinerary_DefaultTemplateWhenNoHeaders(t *testing.T) {
	e := testEngineNoNetwork(t)

	draft := e.extractItinerary(
		"I'd suggest a 4-day itinerary so you can see everything.",
		"what should I do?")
	require.NotNil(t, draft)
	assert.Equal(t, "Your Destination", draft.Destination)
	require.Len(t, draft.Days, 4)

	for _, day := range draft.Days {
		assert.Len(t, day.Activities, 6)
	}
	assert.Equal(t, "Arrival & Orientation", draft.Days[0].Title)
	assert.Equal(t, "Farewell Day", draft.Days[3].Title)
	assert.Equal(t, "4-Day Itinerary for Your Destination", draft.Title)
}

func TestExtractItinerary_DaysSortedAscending(t *testing.T) {
	e := testEngineNoNetwork(t)

	text := `Itinerary below.
Day 2: Second Day
9:00 AM - Museum morning
Day 1: First Day
9:00 AM - Arrival walk`

	draft := e.extractItinerary(text, "plan my trip")
	require.NotNil(t, draft)
	require.Len(t, draft.Days, 2)
	assert.Equal(t, 1, draft.Days[0].Day)
	assert.Equal(t, 2, draft.Days[1].Day)
}

func TestExtractItinerary_TitleFromKeywordBucket(t *testing.T) {
	e := testEngineNoNetwork(t)

	text := `Day 1 plan:
Day 1:
9:00 AM - Explore the grand temple complex and its gardens of statues
2:00 PM - Afternoon at the royal palace`

	draft := e.extractItinerary(text, "plan a trip to Bangkok")
	require.NotNil(t, draft)
	require.Len(t, draft.Days, 1)
	assert.Equal(t, "Cultural Exploration", draft.Days[0].Title)
}

func TestExtractItinerary_LongTitleLineTruncated(t *testing.T) {
	e := testEngineNoNetwork(t)

	text := `Itinerary:
Day 1:
A very long descriptive introduction to the day that runs well past fifty characters
9:00 AM - Morning museum visit`

	draft := e.extractItinerary(text, "plan a trip to Vienna")
	require.NotNil(t, draft)
	require.Len(t, draft.Days, 1)
	title := draft.Days[0].Title
	assert.True(t, strings.HasPrefix(title, "A very long descriptive"), title)
	assert.True(t, strings.HasSuffix(title, "..."), title)
	assert.LessOrEqual(t, len(title), 50)
}

func TestResolveNumberOfDays_ModelTextWinsOverUtterance(t *testing.T) {
	assert.Equal(t, 5, resolveNumberOfDays("a relaxed 5-day plan", "I asked for 3 days"))
	assert.Equal(t, 3, resolveNumberOfDays("no length mentioned", "no length here either"))
}

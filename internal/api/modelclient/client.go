package modelclient

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/wanderly/wanderly-api/internal/types"
)

// Client produces the assistant's raw reply text for a conversation window.
type Client interface {
	Generate(ctx context.Context, history []types.ConversationEntry) (string, error)
}

// systemInstruction fixes the persona, the capability list and the output
// contract for embedded structured blocks. The extraction engine depends on
// the LOCAL_FOOD / LOCAL_ATTRACTIONS markers emitted under this contract.
const systemInstruction = `You are Wanderly, a friendly travel-planning assistant.
You help users plan trips: destinations, day-by-day itineraries, weather
expectations, local food and attractions, flights and hotels.

When the user asks for an itinerary, format it with "Day N:" headers and
time-prefixed activities.

When you mention local dishes, append a machine-readable block:
LOCAL_FOOD:[{"name":"...","price":"...","description":"...","location":"...","image_keyword":"..."}]
When you mention sights or activities, append:
LOCAL_ATTRACTIONS:[{"name":"...","price":"...","description":"...","location":"...","duration":"...","image_keyword":"..."}]
Keep the blocks on their own lines after the prose.`

// GeminiClient talks to the Gemini chat-completion API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, history []types.ConversationEntry) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, entry := range history {
		role := genai.RoleUser
		if entry.Role == types.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: entry.Content}},
		})
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty completion")
	}
	return text, nil
}

package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiClient implements the Client interface using Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// LoadGeminiKey returns the Gemini API key from GEMINI_API_KEY or API_KEY.
func LoadGeminiKey() (string, error) {
	for _, name := range []string{"GEMINI_API_KEY", "API_KEY"} {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: set GEMINI_API_KEY", ErrMissingCredentials)
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(model string) (*GeminiClient, error) {
	if strings.TrimSpace(model) == "" {
		model = defaultGeminiModel
	}

	apiKey, err := LoadGeminiKey()
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Chat sends messages to the LLM and returns the response.
func (c *GeminiClient) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.generate(ctx, messages, false)
}

// ChatJSON sends messages and parses the response as JSON into the provided type.
func (c *GeminiClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.generate(ctx, messages, true)
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func (c *GeminiClient) generate(ctx context.Context, messages []Message, jsonMode bool) (string, error) {
	model := c.client.GenerativeModel(c.model)
	if jsonMode {
		model.ResponseMIMEType = "application/json"
	}

	system, history, last := splitGeminiMessages(messages)
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{Parts: system}
	}

	cs := model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, last...)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

// splitGeminiMessages maps chat messages onto Gemini's system instruction,
// chat history and the final user turn.
func splitGeminiMessages(messages []Message) (system []genai.Part, history []*genai.Content, last []genai.Part) {
	var turns []Message
	for _, msg := range messages {
		if msg.Role.normalize() == RoleSystem {
			system = append(system, genai.Text(msg.Content))
			continue
		}
		turns = append(turns, msg)
	}

	if len(turns) == 0 {
		// Only a system prompt: send it as the user turn instead.
		return nil, nil, system
	}

	for _, msg := range turns[:len(turns)-1] {
		role := "user"
		if msg.Role.normalize() == RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(msg.Content)}})
	}
	last = []genai.Part{genai.Text(turns[len(turns)-1].Content)}
	return system, history, last
}

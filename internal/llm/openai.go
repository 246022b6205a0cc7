package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// compatClient talks to any OpenAI-compatible chat completions endpoint.
type compatClient struct {
	client  openai.Client
	model   string
	baseURL string
	name    string // provider name used in errors

	// jsonObject asks the endpoint for a JSON object response. Not every
	// compatible server accepts the response_format field.
	jsonObject bool

	// authorize returns per-request options, e.g. a refreshed bearer token.
	authorize func(ctx context.Context) ([]option.RequestOption, error)
}

func newCompatClient(name, model, baseURL string, opts ...option.RequestOption) *compatClient {
	opts = append([]option.RequestOption{option.WithBaseURL(baseURL)}, opts...)
	return &compatClient{
		client:  openai.NewClient(opts...),
		model:   model,
		baseURL: baseURL,
		name:    name,
	}
}

// Chat sends messages to the LLM and returns the response.
func (c *compatClient) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.complete(ctx, messages, false)
}

// ChatJSON sends messages and parses the response as JSON into the provided type.
func (c *compatClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.complete(ctx, messages, c.jsonObject)
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

func (c *compatClient) complete(ctx context.Context, messages []Message, jsonObject bool) (string, error) {
	var reqOpts []option.RequestOption
	if c.authorize != nil {
		opts, err := c.authorize(ctx)
		if err != nil {
			return "", fmt.Errorf("%s auth: %w", c.name, err)
		}
		reqOpts = opts
	}

	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: toOpenAIMessages(messages),
	}
	if jsonObject {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params, reqOpts...)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && (apiErr.StatusCode == 401 || apiErr.StatusCode == 403) {
			return "", fmt.Errorf("%w: %s rejected the request (status %d)", ErrMissingCredentials, c.name, apiErr.StatusCode)
		}
		return "", fmt.Errorf("%s chat completion: %w", c.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no response choices returned", c.name)
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role.normalize() {
		case RoleSystem:
			out[i] = openai.SystemMessage(msg.Content)
		case RoleAssistant:
			out[i] = openai.AssistantMessage(msg.Content)
		default:
			out[i] = openai.UserMessage(msg.Content)
		}
	}
	return out
}

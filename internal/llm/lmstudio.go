package llm

import (
	"errors"
	"os"
	"strings"

	"github.com/openai/openai-go/option"
)

const defaultLMStudioBaseURL = "http://localhost:1234/v1"

// LMStudioClient implements the Client interface using LM Studio's
// OpenAI-compatible server. LM Studio only accepts json_schema response
// formats, so JSON answers are requested through the prompt alone.
type LMStudioClient struct {
	*compatClient
}

// NewLMStudioClient creates a new LM Studio client. The server ignores the
// API key unless authentication is turned on, so a placeholder is used when
// neither LMSTUDIO_API_KEY nor OPENAI_API_KEY is set.
func NewLMStudioClient(model, baseURL string) (*LMStudioClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("lm studio model is required")
	}
	if baseURL == "" {
		baseURL = defaultLMStudioBaseURL
	}

	apiKey := "lm-studio"
	for _, name := range []string{"LMSTUDIO_API_KEY", "OPENAI_API_KEY"} {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			apiKey = key
			break
		}
	}

	return &LMStudioClient{newCompatClient(ProviderLMStudio, model, baseURL, option.WithAPIKey(apiKey))}, nil
}

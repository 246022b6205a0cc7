package llm

import (
	"fmt"
	"strings"
)

const (
	ProviderCopilot  = "copilot"
	ProviderGemini   = "gemini"
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
)

// Providers lists the supported provider names.
var Providers = []string{ProviderCopilot, ProviderGemini, ProviderOllama, ProviderLMStudio}

var providerAliases = map[string]string{
	"":          ProviderCopilot,
	"google":    ProviderGemini,
	"lm-studio": ProviderLMStudio,
	"llmstudio": ProviderLMStudio,
}

// ParseProvider returns the canonical provider name. An empty name means
// Copilot.
func ParseProvider(name string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := providerAliases[p]; ok {
		return alias, nil
	}
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported LLM provider: %s", name)
}

// NewClient creates an LLM client based on provider configuration.
func NewClient(provider, model, baseURL string) (Client, error) {
	p, err := ParseProvider(provider)
	if err != nil {
		return nil, err
	}
	switch p {
	case ProviderGemini:
		return NewGeminiClient(model)
	case ProviderOllama:
		return NewOllamaClient(model, baseURL)
	case ProviderLMStudio:
		return NewLMStudioClient(model, baseURL)
	default:
		return NewCopilotClient(model)
	}
}

package llm

import (
	"testing"

	"github.com/tmc/langchaingo/llms"
)

func TestNewOllamaClient(t *testing.T) {
	client, err := NewOllamaClient("llama3", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if client.baseURL != defaultOllamaBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, defaultOllamaBaseURL)
	}

	if _, err := NewOllamaClient("", ""); err == nil {
		t.Fatal("expected error for empty model")
	}
}

func TestToLangChainMessages(t *testing.T) {
	got := toLangChainMessages([]Message{
		SystemMessage("rules"),
		{Role: "Assistant", Content: "draft"},
		{Role: "tool", Content: "odd role"},
		UserMessage("build it"),
	})

	want := []llms.ChatMessageType{
		llms.ChatMessageTypeSystem,
		llms.ChatMessageTypeAI,
		llms.ChatMessageTypeHuman,
		llms.ChatMessageTypeHuman,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d messages, want %d", len(got), len(want))
	}
	for i, msg := range got {
		if msg.Role != want[i] {
			t.Errorf("message %d role = %q, want %q", i, msg.Role, want[i])
		}
	}
}

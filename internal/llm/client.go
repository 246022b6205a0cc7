// Package llm provides LLM clients and the timetable suggestion generator built on them.
package llm

import (
	"context"
	"strings"
)

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// normalize maps loosely written roles onto the known ones; anything
// unrecognized is treated as the user.
func (r Role) normalize() Role {
	switch Role(strings.ToLower(strings.TrimSpace(string(r)))) {
	case RoleSystem:
		return RoleSystem
	case RoleAssistant, "ai", "model":
		return RoleAssistant
	default:
		return RoleUser
	}
}

// Message represents a chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage returns a system prompt message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage returns a user turn.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Client defines the interface for LLM providers.
type Client interface {
	// Chat sends messages to the LLM and returns the response.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ChatJSON sends messages and parses the response as JSON into the provided type.
	ChatJSON(ctx context.Context, messages []Message, result any) error
}

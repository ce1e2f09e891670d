// Package llm defines the narrow completion-client contract the assistant
// pipeline consumes. Providers live under providers/.
package llm

import (
	"context"
	"time"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	// Model overrides the provider's default model when set.
	Model    string
	Messages []Message
	// ForceJSON asks the provider for a JSON-object response when the
	// backing API supports it.
	ForceJSON bool
}

type Result struct {
	Text     string
	Duration time.Duration
}

// Client sends one role-tagged prompt and returns the top completion's text.
// No streaming, no tool calls.
type Client interface {
	Chat(ctx context.Context, req Request) (Result, error)
}

func System(content string) Message { return Message{Role: "system", Content: content} }
func User(content string) Message   { return Message{Role: "user", Content: content} }

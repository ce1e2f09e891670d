// Package openai implements llm.Client on top of the OpenAI chat
// completions API (and compatible endpoints).
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/nmunir/threadscout/llm"
)

type Config struct {
	// Endpoint overrides the API base URL, for OpenAI-compatible servers.
	Endpoint string
	APIKey   string
	// Model is the default model used when a request does not name one.
	Model string
	// RequestTimeout bounds each completion round trip. Zero means no
	// client-side deadline beyond the caller's context.
	RequestTimeout time.Duration
}

type Client struct {
	api     *goopenai.Client
	model   string
	timeout time.Duration
}

func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("llm api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("llm model is required")
	}
	apiCfg := goopenai.DefaultConfig(apiKey)
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		apiCfg.BaseURL = strings.TrimRight(endpoint, "/")
	}
	return &Client{
		api:     goopenai.NewClientWithConfig(apiCfg),
		model:   model,
		timeout: cfg.RequestTimeout,
	}, nil
}

func (c *Client) Chat(ctx context.Context, req llm.Request) (llm.Result, error) {
	if c == nil || c.api == nil {
		return llm.Result{}, fmt.Errorf("openai client is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if len(req.Messages) == 0 {
		return llm.Result{}, fmt.Errorf("messages are required")
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.model
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	apiReq := goopenai.ChatCompletionRequest{
		Model:    model,
		Messages: toAPIMessages(req.Messages),
	}
	if req.ForceJSON {
		apiReq.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	started := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return llm.Result{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return llm.Result{}, fmt.Errorf("chat completion returned no choices")
	}
	return llm.Result{
		Text:     strings.TrimSpace(resp.Choices[0].Message.Content),
		Duration: time.Since(started),
	}, nil
}

func toAPIMessages(messages []llm.Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, goopenai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return out
}

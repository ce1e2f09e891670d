package slackapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type PostMessageRequest struct {
	ChannelID string
	// Text is the plain body, also used as block fallback text.
	Text     string
	ThreadTS string
	// Blocks is a raw Block Kit array posted as-is when non-empty.
	Blocks json.RawMessage
}

type postMessagePayload struct {
	Channel  string          `json:"channel"`
	Text     string          `json:"text,omitempty"`
	ThreadTS string          `json:"thread_ts,omitempty"`
	Blocks   json.RawMessage `json:"blocks,omitempty"`
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	TS    string `json:"ts,omitempty"`
}

// PostMessage posts to a channel or thread. Rate-limited and 5xx responses
// are retried up to three attempts, honoring Retry-After.
func (c *Client) PostMessage(ctx context.Context, req PostMessageRequest) error {
	if c == nil {
		return fmt.Errorf("slack client is not initialized")
	}
	channelID := strings.TrimSpace(req.ChannelID)
	if channelID == "" {
		return fmt.Errorf("channel_id is required")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" && len(req.Blocks) == 0 {
		return fmt.Errorf("text or blocks are required")
	}
	payload := postMessagePayload{
		Channel:  channelID,
		Text:     text,
		ThreadTS: strings.TrimSpace(req.ThreadTS),
		Blocks:   req.Blocks,
	}

	const maxAttempts = 3
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		body, status, headers, err := c.roundTripJSON(ctx, c.botToken, "/chat.postMessage", payload)
		if err != nil {
			lastErr = err
		} else {
			var out postMessageResponse
			if parseErr := json.Unmarshal(body, &out); parseErr != nil {
				lastErr = parseErr
			} else if status < 200 || status >= 300 {
				lastErr = fmt.Errorf("slack chat.postMessage http %d", status)
			} else if out.OK {
				return nil
			} else {
				lastErr = fmt.Errorf("slack chat.postMessage failed: %s", errorCode(out.Error))
			}
		}

		if attempt >= maxAttempts {
			break
		}
		wait, retryable := retryDelay(status, headers, attempt)
		if !retryable {
			break
		}
		if err := sleepWithContext(ctx, wait); err != nil {
			return err
		}
	}
	return lastErr
}

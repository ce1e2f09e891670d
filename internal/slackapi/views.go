package slackapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type publishViewPayload struct {
	UserID string          `json:"user_id"`
	View   json.RawMessage `json:"view"`
}

type publishViewResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// PublishHomeView publishes a raw view payload to a user's App Home tab.
// The payload is sent verbatim; callers own its shape.
func (c *Client) PublishHomeView(ctx context.Context, userID string, view json.RawMessage) error {
	if c == nil {
		return fmt.Errorf("slack client is not initialized")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user_id is required")
	}
	if len(view) == 0 {
		return fmt.Errorf("view payload is required")
	}
	if !json.Valid(view) {
		return fmt.Errorf("view payload is not valid JSON")
	}

	var out publishViewResponse
	if err := c.callJSON(ctx, c.botToken, "/views.publish", publishViewPayload{UserID: userID, View: view}, &out); err != nil {
		return fmt.Errorf("slack views.publish: %w", err)
	}
	if !out.OK {
		return fmt.Errorf("slack views.publish failed: %s", errorCode(out.Error))
	}
	return nil
}

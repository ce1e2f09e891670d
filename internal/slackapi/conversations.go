package slackapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type ReplyMessage struct {
	UserID   string
	Text     string
	TS       string
	ThreadTS string
}

type replyPayload struct {
	User     string `json:"user,omitempty"`
	BotID    string `json:"bot_id,omitempty"`
	Text     string `json:"text,omitempty"`
	TS       string `json:"ts,omitempty"`
	ThreadTS string `json:"thread_ts,omitempty"`
}

type conversationsRepliesResponse struct {
	OK       bool           `json:"ok"`
	Error    string         `json:"error,omitempty"`
	Messages []replyPayload `json:"messages"`
}

// ConversationReplies fetches the messages of a thread anchored at
// threadTS, in the order Slack returns them. limit caps the page size;
// zero requests Slack's default page.
func (c *Client) ConversationReplies(ctx context.Context, channelID, threadTS string, limit int) ([]ReplyMessage, error) {
	if c == nil {
		return nil, fmt.Errorf("slack client is not initialized")
	}
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return nil, fmt.Errorf("channel_id is required")
	}
	threadTS = strings.TrimSpace(threadTS)
	if threadTS == "" {
		return nil, fmt.Errorf("thread_ts is required")
	}

	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("ts", threadTS)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var out conversationsRepliesResponse
	if err := c.callForm(ctx, c.botToken, "/conversations.replies", params, &out); err != nil {
		return nil, fmt.Errorf("slack conversations.replies: %w", err)
	}
	if !out.OK {
		return nil, fmt.Errorf("slack conversations.replies failed: %s", errorCode(out.Error))
	}

	messages := make([]ReplyMessage, 0, len(out.Messages))
	for _, m := range out.Messages {
		messages = append(messages, ReplyMessage{
			UserID:   strings.TrimSpace(m.User),
			Text:     strings.TrimSpace(m.Text),
			TS:       strings.TrimSpace(m.TS),
			ThreadTS: strings.TrimSpace(m.ThreadTS),
		})
	}
	return messages, nil
}

type userInfoResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	User  struct {
		ID       string `json:"id,omitempty"`
		Name     string `json:"name,omitempty"`
		RealName string `json:"real_name,omitempty"`
		Profile  struct {
			DisplayName string `json:"display_name,omitempty"`
			RealName    string `json:"real_name,omitempty"`
		} `json:"profile"`
	} `json:"user"`
}

// UserDisplayName resolves a user id to the best display name available:
// profile display name, then real name, then the handle.
func (c *Client) UserDisplayName(ctx context.Context, userID string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("slack client is not initialized")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("user_id is required")
	}

	params := url.Values{}
	params.Set("user", userID)

	var out userInfoResponse
	if err := c.callForm(ctx, c.botToken, "/users.info", params, &out); err != nil {
		return "", fmt.Errorf("slack users.info: %w", err)
	}
	if !out.OK {
		return "", fmt.Errorf("slack users.info failed: %s", errorCode(out.Error))
	}
	for _, name := range []string{out.User.Profile.DisplayName, out.User.Profile.RealName, out.User.RealName, out.User.Name} {
		if name = strings.TrimSpace(name); name != "" {
			return name, nil
		}
	}
	return "", fmt.Errorf("slack users.info returned no usable name")
}

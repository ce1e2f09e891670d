package slackapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type SearchMatch struct {
	ChannelID   string
	ChannelName string
	UserID      string
	Text        string
	Permalink   string
	TS          string
}

type searchChannel struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type searchMatchPayload struct {
	Channel   searchChannel `json:"channel"`
	User      string        `json:"user,omitempty"`
	Text      string        `json:"text,omitempty"`
	Permalink string        `json:"permalink,omitempty"`
	TS        string        `json:"ts,omitempty"`
}

type searchMessagesResponse struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
	Messages struct {
		Matches []searchMatchPayload `json:"matches"`
	} `json:"messages"`
}

// SearchMessages runs a workspace full-text search with the elevated user
// token. count is clamped to Slack's small-page range.
func (c *Client) SearchMessages(ctx context.Context, query, teamID string, count int) ([]SearchMatch, error) {
	if c == nil {
		return nil, fmt.Errorf("slack client is not initialized")
	}
	if strings.TrimSpace(c.userToken) == "" {
		return nil, fmt.Errorf("slack user token is required for search")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if count <= 0 || count > 10 {
		count = 10
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("count", strconv.Itoa(count))
	if teamID = strings.TrimSpace(teamID); teamID != "" {
		params.Set("team_id", teamID)
	}

	var out searchMessagesResponse
	if err := c.callForm(ctx, c.userToken, "/search.messages", params, &out); err != nil {
		return nil, fmt.Errorf("slack search.messages: %w", err)
	}
	if !out.OK {
		return nil, fmt.Errorf("slack search.messages failed: %s", errorCode(out.Error))
	}

	matches := make([]SearchMatch, 0, len(out.Messages.Matches))
	for _, m := range out.Messages.Matches {
		matches = append(matches, SearchMatch{
			ChannelID:   strings.TrimSpace(m.Channel.ID),
			ChannelName: strings.TrimSpace(m.Channel.Name),
			UserID:      strings.TrimSpace(m.User),
			Text:        strings.TrimSpace(m.Text),
			Permalink:   strings.TrimSpace(m.Permalink),
			TS:          strings.TrimSpace(m.TS),
		})
	}
	return matches, nil
}

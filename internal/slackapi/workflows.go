package slackapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type Workflow struct {
	Title       string
	Description string
}

type workflowPayload struct {
	Title       string `json:"title,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type workflowsSearchResponse struct {
	OK        bool              `json:"ok"`
	Error     string            `json:"error,omitempty"`
	Workflows []workflowPayload `json:"workflows"`
}

// ListWorkflows fetches workspace workflow descriptors, capped at limit.
// Results are not cached; the fallback responder wants a fresh list per
// request.
func (c *Client) ListWorkflows(ctx context.Context, limit int) ([]Workflow, error) {
	if c == nil {
		return nil, fmt.Errorf("slack client is not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	var out workflowsSearchResponse
	if err := c.callForm(ctx, c.botToken, "/workflows.search", params, &out); err != nil {
		return nil, fmt.Errorf("slack workflows.search: %w", err)
	}
	if !out.OK {
		return nil, fmt.Errorf("slack workflows.search failed: %s", errorCode(out.Error))
	}

	workflows := make([]Workflow, 0, len(out.Workflows))
	for _, w := range out.Workflows {
		title := strings.TrimSpace(w.Title)
		if title == "" {
			title = strings.TrimSpace(w.Name)
		}
		if title == "" {
			continue
		}
		workflows = append(workflows, Workflow{
			Title:       title,
			Description: strings.TrimSpace(w.Description),
		})
		if len(workflows) >= limit {
			break
		}
	}
	return workflows, nil
}

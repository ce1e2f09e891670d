package assistant

import (
	"context"
	"strings"
)

// SearchWorkspace runs a full-text search with the elevated credential and
// converts matches to SearchResult. A failed search is an empty result,
// never an error; the calling responder still answers.
func (a *Assistant) SearchWorkspace(ctx context.Context, query, teamID string) []SearchResult {
	matches, err := a.workspace.SearchMessages(ctx, query, teamID, defaultSearchPageSize)
	if err != nil {
		a.log.Warn("workspace_search_error", "query", query, "error", err.Error())
		return nil
	}

	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		userID := strings.TrimSpace(m.UserID)
		if userID == "" {
			userID = unknownSpeaker
		}
		results = append(results, SearchResult{
			ChannelName: m.ChannelName,
			UserID:      userID,
			Text:        flattenWhitespace(m.Text),
			Permalink:   m.Permalink,
		})
	}
	a.log.Info("workspace_search", "query", query, "matches", len(results))
	return results
}

func flattenWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/nmunir/threadscout/llm"
)

// topResults bounds the matches surfaced to the user.
func (a *Assistant) topResults(results []SearchResult) []SearchResult {
	if len(results) <= a.maxResults {
		return results
	}
	return results[:a.maxResults]
}

// Gist produces the short natural-language digest of the top matches. An
// empty result set yields the static no-results line; a failed summary
// call yields the static fallback line so the detailed list still posts.
func (a *Assistant) Gist(ctx context.Context, results []SearchResult) string {
	if len(results) == 0 {
		return a.profile.Replies.NoResults
	}
	top := a.topResults(results)
	plain := make([]string, 0, len(top))
	for _, r := range top {
		plain = append(plain, fmt.Sprintf("- Channel: #%s, User: <@%s>, Message: %s", r.ChannelName, r.UserID, r.Text))
	}

	res, err := a.llm.Chat(ctx, llm.Request{
		Messages: []llm.Message{
			llm.System(a.profile.Prompts.GistSystem),
			llm.User(renderTemplate(a.profile.Prompts.GistUser, map[string]string{
				"results": strings.Join(plain, "\n"),
			})),
		},
	})
	if err != nil || strings.TrimSpace(res.Text) == "" {
		if err != nil {
			a.log.Warn("gist_error", "error", err.Error())
		}
		return a.profile.Replies.GistFallback
	}
	return strings.TrimSpace(res.Text)
}

// FormatMatches renders the detailed per-match block for the search
// responder's reply body.
func (a *Assistant) FormatMatches(results []SearchResult) string {
	top := a.topResults(results)
	if len(top) == 0 {
		return "_No relevant messages found in Slack._"
	}
	lines := make([]string, 0, len(top))
	for _, r := range top {
		permalink := strings.TrimSpace(r.Permalink)
		if permalink == "" {
			permalink = "#"
		}
		lines = append(lines, fmt.Sprintf("- In *#%s*, <@%s> posted:\n> %s\n<%s|View message>", r.ChannelName, r.UserID, r.Text, permalink))
	}
	return strings.Join(lines, "\n")
}

// FormatReferences renders the numbered permalink list appended to
// fallback replies. Matches without a permalink are skipped; numbering
// stays contiguous.
func (a *Assistant) FormatReferences(results []SearchResult) string {
	top := a.topResults(results)
	lines := make([]string, 0, len(top))
	for _, r := range top {
		permalink := strings.TrimSpace(r.Permalink)
		if permalink == "" {
			continue
		}
		label := "#" + r.ChannelName
		if snippet := truncateSnippet(r.Text, 60); snippet != "" {
			label += ": " + snippet
		}
		lines = append(lines, fmt.Sprintf("%d. <%s|%s>", len(lines)+1, permalink, label))
	}
	return strings.Join(lines, "\n")
}

func truncateSnippet(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	cut := text[:limit]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}

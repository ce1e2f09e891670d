package assistant

import (
	"context"
	"strings"

	"github.com/nmunir/threadscout/llm"
)

// authorFilterMarker is the search operator an over-eager refinement tends
// to add; a query carrying it silently narrows results to one author.
const authorFilterMarker = "from:@"

// RefineQuery strips the bot's own mention from rawText and asks the model
// to rewrite the remainder as a minimal search query. Refinements that
// come back empty or author-filtered are discarded in favor of the cleaned
// original, as is the whole refinement on any model error.
func (a *Assistant) RefineQuery(ctx context.Context, rawText string) string {
	cleaned := a.stripBotMention(rawText)

	res, err := a.llm.Chat(ctx, llm.Request{
		Messages: []llm.Message{
			llm.System(a.profile.Prompts.RefineSystem),
			llm.User(renderTemplate(a.profile.Prompts.RefineUser, map[string]string{
				"message": cleaned,
			})),
		},
	})
	if err != nil {
		a.log.Warn("refine_query_error", "error", err.Error())
		return cleaned
	}

	refined := strings.TrimSpace(res.Text)
	if refined == "" || strings.Contains(refined, authorFilterMarker) {
		a.log.Warn("refine_query_rejected", "refined", refined)
		return cleaned
	}
	a.log.Info("refine_query", "refined", refined)
	return refined
}

func (a *Assistant) stripBotMention(rawText string) string {
	text := strings.TrimSpace(rawText)
	if a.botUserID == "" {
		return text
	}
	mention := "<@" + a.botUserID + ">"
	if strings.Contains(text, mention) {
		text = strings.TrimSpace(strings.ReplaceAll(text, mention, ""))
	}
	return text
}

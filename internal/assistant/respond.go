package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nmunir/threadscout/llm"
)

// respondSummarize sends the transcript to the model and returns its text
// verbatim. With no transcript there is nothing to summarize; the fallback
// responder handles the message instead.
func (a *Assistant) respondSummarize(ctx context.Context, transcript ConversationContext) (Response, error) {
	if transcript.Empty() {
		return Response{Text: a.profile.Replies.FeatureMissing}, nil
	}
	res, err := a.llm.Chat(ctx, llm.Request{
		Messages: []llm.Message{
			llm.System(a.profile.Prompts.SummarizeSystem),
			llm.User(renderTemplate(a.profile.Prompts.SummarizeUser, map[string]string{
				"context": transcript.Render(),
			})),
		},
	})
	if err != nil {
		return Response{}, fmt.Errorf("summarize thread: %w", err)
	}
	text := strings.TrimSpace(res.Text)
	if text == "" {
		return Response{}, fmt.Errorf("summarize thread returned empty text")
	}
	return Response{Text: text}, nil
}

// respondSearch refines the query, searches the workspace, and combines
// the generated gist with the formatted match list.
func (a *Assistant) respondSearch(ctx context.Context, event InboundEvent) (Response, error) {
	query := a.RefineQuery(ctx, event.Text)
	results := a.SearchWorkspace(ctx, query, event.TeamID)
	gist := a.Gist(ctx, results)
	return Response{
		Text: gist + "\n\n" + a.FormatMatches(results),
	}, nil
}

// respondFallback handles everything the two canned behaviors don't: it
// gathers workflow descriptors and a search digest as supplementary
// context, asks the model for a short stylistically-constrained reply, and
// attaches the numbered reference links.
func (a *Assistant) respondFallback(ctx context.Context, event InboundEvent, transcript ConversationContext, speakerName string) (Response, error) {
	workflows, err := a.workspace.ListWorkflows(ctx, defaultWorkflowLimit)
	if err != nil {
		a.log.Warn("workflow_list_error", "error", err.Error())
		workflows = nil
	}

	query := a.RefineQuery(ctx, event.Text)
	results := a.SearchWorkspace(ctx, query, event.TeamID)
	gist := a.Gist(ctx, results)

	workflowLines := make([]string, 0, len(workflows))
	for _, w := range workflows {
		line := "- " + w.Title
		if desc := strings.TrimSpace(w.Description); desc != "" {
			line += ": " + desc
		}
		workflowLines = append(workflowLines, line)
	}
	workflowBlock := strings.Join(workflowLines, "\n")
	if workflowBlock == "" {
		workflowBlock = "(none)"
	}
	contextBlock := transcript.Render()
	if contextBlock == "" {
		contextBlock = "(no prior thread context)"
	}

	res, err := a.llm.Chat(ctx, llm.Request{
		Messages: []llm.Message{
			llm.System(a.profile.Prompts.FallbackSystem),
			llm.User(renderTemplate(a.profile.Prompts.FallbackUser, map[string]string{
				"context":   contextBlock,
				"gist":      gist,
				"workflows": workflowBlock,
				"speaker":   speakerName,
				"message":   a.stripBotMention(event.Text),
			})),
		},
	})
	if err != nil {
		return Response{}, fmt.Errorf("fallback reply: %w", err)
	}
	text := strings.TrimSpace(res.Text)
	if text == "" {
		return Response{}, fmt.Errorf("fallback reply returned empty text")
	}
	return Response{
		Text:       text,
		References: a.FormatReferences(results),
		AsBlocks:   true,
	}, nil
}

// buildBlocks renders a Response as a Block Kit payload: one section for
// the body, an optional divider plus context section for the references.
func buildBlocks(resp Response) (json.RawMessage, error) {
	type textObject struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	type block struct {
		Type string      `json:"type"`
		Text *textObject `json:"text,omitempty"`
	}

	blocks := []block{
		{Type: "section", Text: &textObject{Type: "mrkdwn", Text: resp.Text}},
	}
	if refs := strings.TrimSpace(resp.References); refs != "" {
		blocks = append(blocks,
			block{Type: "divider"},
			block{Type: "section", Text: &textObject{Type: "mrkdwn", Text: refs}},
		)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(blocks); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

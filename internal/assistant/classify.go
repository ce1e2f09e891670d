package assistant

import (
	"context"
	"strings"

	"github.com/nmunir/threadscout/internal/jsonutil"
	"github.com/nmunir/threadscout/llm"
)

type intentAnswer struct {
	Intent string `json:"intent"`
}

// Classify determines the intent of message with one constrained-choice
// LLM call. The model must answer strict JSON {"intent": "<label>"} with a
// label from the profile's allowed set; one retry is granted on a
// malformed or unrecognized answer, after which the default role applies.
// Errors never escape: any failure maps to IntentOther.
func (a *Assistant) Classify(ctx context.Context, transcript ConversationContext, message, speakerName string) Intent {
	prompt := a.buildClassifyPrompt(transcript, message, speakerName)

	const maxAttempts = 2
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res, err := a.llm.Chat(ctx, llm.Request{
			ForceJSON: true,
			Messages: []llm.Message{
				llm.System(a.profile.Prompts.ClassifySystem),
				llm.User(prompt),
			},
		})
		if err != nil {
			a.log.Warn("classify_error", "attempt", attempt, "error", err.Error())
			return IntentOther
		}

		var answer intentAnswer
		if err := jsonutil.DecodeWithFallback(res.Text, &answer); err != nil {
			a.log.Warn("classify_parse_error", "attempt", attempt, "raw", res.Text)
			continue
		}
		if intent, ok := a.intentForLabel(answer.Intent); ok {
			a.log.Info("intent_classified", "intent", string(intent), "label", strings.TrimSpace(answer.Intent))
			return intent
		}
		a.log.Warn("classify_unknown_label", "attempt", attempt, "label", answer.Intent)
	}
	return IntentOther
}

func (a *Assistant) buildClassifyPrompt(transcript ConversationContext, message, speakerName string) string {
	labels := a.profile.Labels()
	quoted := make([]string, 0, len(labels))
	for _, label := range labels {
		quoted = append(quoted, `"`+label+`"`)
	}

	var b strings.Builder
	b.WriteString("Here are some messages to use as background:\n")
	if transcript.Empty() {
		b.WriteString("(no prior thread context)\n")
	} else {
		b.WriteString(transcript.Render())
		b.WriteString("\n")
	}
	b.WriteString("\nUse that context to determine the intent of this message from ")
	b.WriteString(speakerName)
	b.WriteString(": ")
	b.WriteString(strings.TrimSpace(message))
	b.WriteString("\n\nRespond with strict JSON {\"intent\": <label>} where <label> is exactly one of ")
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString(". No other text.")
	return b.String()
}

func (a *Assistant) intentForLabel(label string) (Intent, bool) {
	switch strings.TrimSpace(label) {
	case a.profile.Intents.Search:
		return IntentSearch, true
	case a.profile.Intents.Summarize:
		return IntentSummarize, true
	case a.profile.Intents.Other:
		return IntentOther, true
	default:
		return IntentOther, false
	}
}

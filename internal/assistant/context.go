package assistant

import (
	"context"
	"strings"
)

// BuildContext fetches up to the configured number of thread replies
// anchored at threadAnchor and snapshots them as a transcript. No anchor
// means no context; a fetch failure degrades to an empty context.
func (a *Assistant) BuildContext(ctx context.Context, channelID, threadAnchor string) ConversationContext {
	threadAnchor = strings.TrimSpace(threadAnchor)
	if threadAnchor == "" {
		return ConversationContext{}
	}

	replies, err := a.workspace.ConversationReplies(ctx, channelID, threadAnchor, a.contextLimit)
	if err != nil {
		a.log.Warn("context_fetch_error", "channel_id", channelID, "thread_ts", threadAnchor, "error", err.Error())
		return ConversationContext{}
	}

	lines := make([]ContextLine, 0, a.contextLimit)
	for _, reply := range replies {
		if len(lines) >= a.contextLimit {
			break
		}
		speaker := strings.TrimSpace(reply.UserID)
		if speaker == "" {
			speaker = unknownSpeaker
		}
		lines = append(lines, ContextLine{
			SpeakerID: speaker,
			Text:      strings.TrimSpace(reply.Text),
		})
	}
	return NewConversationContext(lines)
}

package assistant

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/nmunir/threadscout/internal/slackapi"
)

// EventKind mirrors the subset of Slack event types the pipeline reacts to.
type EventKind string

const (
	KindMessage       EventKind = "message"
	KindAppMention    EventKind = "app_mention"
	KindAppHomeOpened EventKind = "app_home_opened"
	KindThreadStarted EventKind = "assistant_thread_started"
)

// InboundEvent is the read-only unit handed to Dispatch. One event
// triggers at most one pipeline run.
type InboundEvent struct {
	Kind        EventKind
	EventID     string
	Text        string
	UserID      string
	ChannelID   string
	ChannelType string
	TeamID      string
	// ThreadTS is the explicit thread anchor; empty outside threads.
	ThreadTS  string
	MessageTS string
	Subtype   string
}

// ThreadAnchor returns the anchor replies are addressed to: the explicit
// thread anchor when present, otherwise the event's own timestamp.
func (e InboundEvent) ThreadAnchor() string {
	if anchor := strings.TrimSpace(e.ThreadTS); anchor != "" {
		return anchor
	}
	return strings.TrimSpace(e.MessageTS)
}

// ContextLine is one rendered transcript entry.
type ContextLine struct {
	SpeakerID string
	Text      string
}

// ConversationContext is an immutable transcript snapshot in the order the
// platform returned the messages.
type ConversationContext struct {
	lines []ContextLine
}

func NewConversationContext(lines []ContextLine) ConversationContext {
	return ConversationContext{lines: append([]ContextLine(nil), lines...)}
}

func (c ConversationContext) Empty() bool { return len(c.lines) == 0 }

func (c ConversationContext) Len() int { return len(c.lines) }

// Render flattens the transcript to "speaker: text" lines for prompt
// inclusion.
func (c ConversationContext) Render() string {
	if len(c.lines) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(c.lines))
	for _, line := range c.lines {
		speaker := strings.TrimSpace(line.SpeakerID)
		if speaker == "" {
			speaker = "unknown"
		}
		rendered = append(rendered, "<@"+speaker+">: "+strings.TrimSpace(line.Text))
	}
	return strings.Join(rendered, "\n")
}

// Intent is a routing role, not a display label. Display labels live in
// the prompt profile.
type Intent string

const (
	IntentSearch    Intent = "search"
	IntentSummarize Intent = "summarize"
	IntentOther     Intent = "other"
)

// SearchResult is one workspace search match, already trimmed.
type SearchResult struct {
	ChannelName string
	UserID      string
	Text        string
	Permalink   string
}

// Response is the unit handed to the posting step.
type Response struct {
	Text string
	// References holds the numbered permalink list, already formatted.
	References string
	// AsBlocks requests a Block Kit post; Text doubles as fallback text.
	AsBlocks bool
}

// Workspace is the chat-data surface the pipeline consumes. Implemented by
// *slackapi.Client; stubbed in tests.
type Workspace interface {
	SearchMessages(ctx context.Context, query, teamID string, count int) ([]slackapi.SearchMatch, error)
	ConversationReplies(ctx context.Context, channelID, threadTS string, limit int) ([]slackapi.ReplyMessage, error)
	UserDisplayName(ctx context.Context, userID string) (string, error)
	ListWorkflows(ctx context.Context, limit int) ([]slackapi.Workflow, error)
	PostMessage(ctx context.Context, req slackapi.PostMessageRequest) error
	PublishHomeView(ctx context.Context, userID string, view json.RawMessage) error
}

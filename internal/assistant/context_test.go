package assistant

import (
	"context"
	"fmt"
	"testing"

	"github.com/nmunir/threadscout/internal/slackapi"
)

func TestBuildContextWithoutAnchor(t *testing.T) {
	t.Parallel()

	a := newTestAssistant(t, &fakeLLM{}, &fakeWorkspace{
		repliesFn: func(channelID, threadTS string, limit int) ([]slackapi.ReplyMessage, error) {
			t.Errorf("unexpected replies fetch for empty anchor")
			return nil, nil
		},
	})

	transcript := a.BuildContext(context.Background(), "C222", "  ")
	if !transcript.Empty() {
		t.Fatalf("expected empty context, got %d lines", transcript.Len())
	}
}

func TestBuildContextCapsAndKeepsSourceOrder(t *testing.T) {
	t.Parallel()

	ws := &fakeWorkspace{
		repliesFn: func(channelID, threadTS string, limit int) ([]slackapi.ReplyMessage, error) {
			if channelID != "C222" || threadTS != "1.0" {
				t.Errorf("unexpected fetch args: %q %q", channelID, threadTS)
			}
			var out []slackapi.ReplyMessage
			for i := 0; i < 12; i++ {
				out = append(out, slackapi.ReplyMessage{UserID: fmt.Sprintf("U%d", i), Text: fmt.Sprintf("m%d", i)})
			}
			return out, nil
		},
	}
	a := newTestAssistant(t, &fakeLLM{}, ws)

	transcript := a.BuildContext(context.Background(), "C222", "1.0")
	if transcript.Len() != defaultContextLimit {
		t.Fatalf("Len() = %d, want %d", transcript.Len(), defaultContextLimit)
	}
	rendered := transcript.Render()
	first := "<@U0>: m0"
	if rendered[:len(first)] != first {
		t.Fatalf("transcript does not start with first reply: %q", rendered)
	}
}

func TestBuildContextDegradesOnFetchError(t *testing.T) {
	t.Parallel()

	ws := &fakeWorkspace{
		repliesFn: func(channelID, threadTS string, limit int) ([]slackapi.ReplyMessage, error) {
			return nil, fmt.Errorf("missing_scope")
		},
	}
	a := newTestAssistant(t, &fakeLLM{}, ws)

	transcript := a.BuildContext(context.Background(), "C222", "1.0")
	if !transcript.Empty() {
		t.Fatalf("expected empty context on fetch error")
	}
}

func TestConversationContextRenderUsesUnknownSpeaker(t *testing.T) {
	t.Parallel()

	transcript := NewConversationContext([]ContextLine{
		{SpeakerID: "", Text: "hello"},
		{SpeakerID: "U2", Text: "world"},
	})
	want := "<@unknown>: hello\n<@U2>: world"
	if got := transcript.Render(); got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

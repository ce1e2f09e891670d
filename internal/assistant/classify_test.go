package assistant

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/nmunir/threadscout/llm"
)

func TestClassifyReturnsRoleForEachLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		label string
		want  Intent
	}{
		{"Slack Search", IntentSearch},
		{"Summarize Thread", IntentSummarize},
		{"Other", IntentOther},
	}
	for _, tc := range cases {
		fake := &fakeLLM{fn: func(req llm.Request) (llm.Result, error) {
			if !req.ForceJSON {
				t.Errorf("classify request must force JSON")
			}
			return intentReply(tc.label), nil
		}}
		a := newTestAssistant(t, fake, &fakeWorkspace{})
		got := a.Classify(context.Background(), ConversationContext{}, "do the thing", "alice")
		if got != tc.want {
			t.Fatalf("Classify(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestClassifyUnrecognizedLabelDefaultsToOther(t *testing.T) {
	t.Parallel()

	fake := &fakeLLM{fn: func(req llm.Request) (llm.Result, error) {
		return llm.Result{Text: `{"intent": "Maybe?"}`}, nil
	}}
	a := newTestAssistant(t, fake, &fakeWorkspace{})

	if got := a.Classify(context.Background(), ConversationContext{}, "hmm", "alice"); got != IntentOther {
		t.Fatalf("Classify() = %q, want %q", got, IntentOther)
	}
	if fake.callCount() != 2 {
		t.Fatalf("calls = %d, want 2 (one retry)", fake.callCount())
	}
}

func TestClassifyRetriesOnceOnUnparseableOutput(t *testing.T) {
	t.Parallel()

	var attempt int
	fake := &fakeLLM{fn: func(req llm.Request) (llm.Result, error) {
		attempt++
		if attempt == 1 {
			return llm.Result{Text: "definitely a search, friend"}, nil
		}
		return intentReply("Slack Search"), nil
	}}
	a := newTestAssistant(t, fake, &fakeWorkspace{})

	if got := a.Classify(context.Background(), ConversationContext{}, "find it", "alice"); got != IntentSearch {
		t.Fatalf("Classify() = %q, want %q", got, IntentSearch)
	}
	if attempt != 2 {
		t.Fatalf("attempt = %d, want 2", attempt)
	}
}

func TestClassifyModelErrorDefaultsToOther(t *testing.T) {
	t.Parallel()

	fake := &fakeLLM{fn: func(req llm.Request) (llm.Result, error) {
		return llm.Result{}, fmt.Errorf("model unavailable")
	}}
	a := newTestAssistant(t, fake, &fakeWorkspace{})

	if got := a.Classify(context.Background(), ConversationContext{}, "hi", "alice"); got != IntentOther {
		t.Fatalf("Classify() = %q, want %q", got, IntentOther)
	}
	if fake.callCount() != 1 {
		t.Fatalf("calls = %d, want 1 (no retry on transport error)", fake.callCount())
	}
}

func TestClassifyPromptCarriesContextAndLabels(t *testing.T) {
	t.Parallel()

	fake := &fakeLLM{fn: func(req llm.Request) (llm.Result, error) {
		prompt := req.Messages[1].Content
		for _, want := range []string{"<@U1>: first", `"Slack Search"`, `"Summarize Thread"`, `"Other"`, "alice", "what happened"} {
			if !strings.Contains(prompt, want) {
				t.Errorf("classify prompt missing %q:\n%s", want, prompt)
			}
		}
		return intentReply("Other"), nil
	}}
	a := newTestAssistant(t, fake, &fakeWorkspace{})

	transcript := NewConversationContext([]ContextLine{{SpeakerID: "U1", Text: "first"}})
	a.Classify(context.Background(), transcript, "what happened", "alice")
}

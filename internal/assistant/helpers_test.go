package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/nmunir/threadscout/internal/slackapi"
	"github.com/nmunir/threadscout/llm"
)

type fakeLLM struct {
	mu    sync.Mutex
	fn    func(req llm.Request) (llm.Result, error)
	calls []llm.Request
}

func (f *fakeLLM) Chat(ctx context.Context, req llm.Request) (llm.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.fn == nil {
		return llm.Result{Text: "ok"}, nil
	}
	return f.fn(req)
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeLLM) call(i int) llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

type postedMessage struct {
	ChannelID string
	Text      string
	ThreadTS  string
	Blocks    json.RawMessage
}

type fakeWorkspace struct {
	mu sync.Mutex

	searchFn    func(query, teamID string, count int) ([]slackapi.SearchMatch, error)
	repliesFn   func(channelID, threadTS string, limit int) ([]slackapi.ReplyMessage, error)
	userFn      func(userID string) (string, error)
	workflowsFn func(limit int) ([]slackapi.Workflow, error)
	postFn      func(req slackapi.PostMessageRequest) error
	publishFn   func(userID string, view json.RawMessage) error

	posts     []postedMessage
	published []string
}

func (f *fakeWorkspace) SearchMessages(ctx context.Context, query, teamID string, count int) ([]slackapi.SearchMatch, error) {
	if f.searchFn == nil {
		return nil, nil
	}
	return f.searchFn(query, teamID, count)
}

func (f *fakeWorkspace) ConversationReplies(ctx context.Context, channelID, threadTS string, limit int) ([]slackapi.ReplyMessage, error) {
	if f.repliesFn == nil {
		return nil, nil
	}
	return f.repliesFn(channelID, threadTS, limit)
}

func (f *fakeWorkspace) UserDisplayName(ctx context.Context, userID string) (string, error) {
	if f.userFn == nil {
		return "someone", nil
	}
	return f.userFn(userID)
}

func (f *fakeWorkspace) ListWorkflows(ctx context.Context, limit int) ([]slackapi.Workflow, error) {
	if f.workflowsFn == nil {
		return nil, nil
	}
	return f.workflowsFn(limit)
}

func (f *fakeWorkspace) PostMessage(ctx context.Context, req slackapi.PostMessageRequest) error {
	f.mu.Lock()
	f.posts = append(f.posts, postedMessage{
		ChannelID: req.ChannelID,
		Text:      req.Text,
		ThreadTS:  req.ThreadTS,
		Blocks:    req.Blocks,
	})
	f.mu.Unlock()
	if f.postFn == nil {
		return nil
	}
	return f.postFn(req)
}

func (f *fakeWorkspace) PublishHomeView(ctx context.Context, userID string, view json.RawMessage) error {
	f.mu.Lock()
	f.published = append(f.published, userID)
	f.mu.Unlock()
	if f.publishFn == nil {
		return nil
	}
	return f.publishFn(userID, view)
}

func (f *fakeWorkspace) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

func (f *fakeWorkspace) post(i int) postedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts[i]
}

func newTestAssistant(t *testing.T, fake *fakeLLM, ws *fakeWorkspace) *Assistant {
	t.Helper()
	profile, err := DefaultProfile()
	if err != nil {
		t.Fatalf("DefaultProfile() error = %v", err)
	}
	a, err := New(Options{
		LLM:       fake,
		Workspace: ws,
		Profile:   profile,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		BotUserID: "UBOT",
		HomeView:  json.RawMessage(`{"type":"home","blocks":[]}`),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

// intentReply scripts the classifier response for a display label.
func intentReply(label string) llm.Result {
	return llm.Result{Text: fmt.Sprintf(`{"intent": %q}`, label)}
}

// Package assistant implements the event-to-response pipeline: classify
// the intent of an inbound Slack message with one LLM call, route to a
// responder (workspace search, thread summary, or a free-form fallback),
// and post the result back to the originating thread. External failures
// degrade to safe defaults; the user never sees a raw error.
package assistant

import (
	"fmt"
	"log/slog"

	"github.com/nmunir/threadscout/llm"
)

const (
	defaultContextLimit   = 8
	defaultMaxResults     = 5
	defaultSearchPageSize = 10
	defaultWorkflowLimit  = 20

	// unknownSpeaker stands in when an event carries no author id.
	unknownSpeaker = "unknown"
)

type Options struct {
	LLM       llm.Client
	Workspace Workspace
	Profile   Profile
	Logger    *slog.Logger
	// BotUserID is the bot's own identity, used to strip self-mentions.
	BotUserID string
	// ContextLimit caps transcript entries fetched per request.
	ContextLimit int
	// MaxResults caps search matches surfaced to the user.
	MaxResults int
	// HomeView is the static App Home payload published on
	// app_home_opened; nil disables the home tab.
	HomeView []byte
}

type Assistant struct {
	llm          llm.Client
	workspace    Workspace
	profile      Profile
	log          *slog.Logger
	botUserID    string
	contextLimit int
	maxResults   int
	homeView     []byte
}

func New(opts Options) (*Assistant, error) {
	if opts.LLM == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if opts.Workspace == nil {
		return nil, fmt.Errorf("workspace client is required")
	}
	if err := opts.Profile.validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	contextLimit := opts.ContextLimit
	if contextLimit <= 0 {
		contextLimit = defaultContextLimit
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 || maxResults > defaultSearchPageSize {
		maxResults = defaultMaxResults
	}
	return &Assistant{
		llm:          opts.LLM,
		workspace:    opts.Workspace,
		profile:      opts.Profile,
		log:          logger,
		botUserID:    opts.BotUserID,
		contextLimit: contextLimit,
		maxResults:   maxResults,
		homeView:     opts.HomeView,
	}, nil
}

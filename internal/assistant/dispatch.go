package assistant

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nmunir/threadscout/internal/slackapi"
)

// ignoredSubtypes short-circuit processing with no reply. Edits and
// deletions are platform bookkeeping, not new requests.
var ignoredSubtypes = map[string]bool{
	"message_deleted": true,
	"message_changed": true,
}

// Dispatch runs the full pipeline for one event: guard, context build,
// classify, respond, post. Every event reaches a terminal state here;
// failures inside the pipeline degrade to one apology post and no error
// escapes to the event source.
func (a *Assistant) Dispatch(ctx context.Context, event InboundEvent) {
	log := a.log.With("correlation_id", "evt_"+uuid.NewString(), "channel_id", event.ChannelID, "event_id", event.EventID)

	if event.Kind == KindAppHomeOpened {
		a.publishHome(ctx, event, log)
		return
	}
	if ignoredSubtypes[strings.TrimSpace(event.Subtype)] {
		log.Info("event_ignored", "subtype", event.Subtype)
		return
	}
	anchor := event.ThreadAnchor()
	if anchor == "" {
		log.Warn("event_missing_anchor")
		return
	}
	text := strings.TrimSpace(event.Text)
	if text == "" {
		log.Info("event_ignored", "reason", "empty_text")
		return
	}

	speakerName := a.resolveSpeakerName(ctx, event.UserID)

	// Context is only fetched for messages that arrived inside a thread.
	var transcript ConversationContext
	if strings.TrimSpace(event.ThreadTS) != "" {
		transcript = a.BuildContext(ctx, event.ChannelID, anchor)
	}

	intent := a.Classify(ctx, transcript, text, speakerName)
	log.Info("event_routed", "intent", string(intent), "context_lines", transcript.Len())

	var (
		resp Response
		err  error
	)
	switch intent {
	case IntentSummarize:
		resp, err = a.respondSummarize(ctx, transcript)
	case IntentSearch:
		resp, err = a.respondSearch(ctx, event)
	default:
		resp, err = a.respondFallback(ctx, event, transcript, speakerName)
	}
	if err != nil {
		log.Error("responder_error", "intent", string(intent), "error", err.Error())
		a.postApology(ctx, event, anchor, log)
		return
	}

	if err := a.post(ctx, event, anchor, resp); err != nil {
		log.Error("post_error", "intent", string(intent), "error", err.Error())
		a.postApology(ctx, event, anchor, log)
		return
	}
	log.Info("event_done", "intent", string(intent))
}

func (a *Assistant) post(ctx context.Context, event InboundEvent, anchor string, resp Response) error {
	if resp.AsBlocks {
		blocks, err := buildBlocks(resp)
		if err == nil {
			err = a.workspace.PostMessage(ctx, slackapi.PostMessageRequest{
				ChannelID: event.ChannelID,
				Text:      resp.Text,
				ThreadTS:  anchor,
				Blocks:    blocks,
			})
			if err == nil {
				return nil
			}
		}
		a.log.Warn("blocks_post_error", "channel_id", event.ChannelID, "error", err.Error())
		// Degrade to the plain feature-missing text, matching the
		// pre-blocks behavior.
		return a.workspace.PostMessage(ctx, slackapi.PostMessageRequest{
			ChannelID: event.ChannelID,
			Text:      a.profile.Replies.FeatureMissing,
			ThreadTS:  anchor,
		})
	}

	text := resp.Text
	if refs := strings.TrimSpace(resp.References); refs != "" {
		text += "\n\n" + refs
	}
	return a.workspace.PostMessage(ctx, slackapi.PostMessageRequest{
		ChannelID: event.ChannelID,
		Text:      text,
		ThreadTS:  anchor,
	})
}

func (a *Assistant) postApology(ctx context.Context, event InboundEvent, anchor string, log *slog.Logger) {
	err := a.workspace.PostMessage(ctx, slackapi.PostMessageRequest{
		ChannelID: event.ChannelID,
		Text:      a.profile.Replies.Apology,
		ThreadTS:  anchor,
	})
	if err != nil {
		log.Warn("apology_post_error", "error", err.Error())
	}
}

func (a *Assistant) resolveSpeakerName(ctx context.Context, userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return unknownSpeaker
	}
	name, err := a.workspace.UserDisplayName(ctx, userID)
	if err != nil {
		a.log.Warn("user_lookup_error", "user_id", userID, "error", err.Error())
		return unknownSpeaker
	}
	return name
}

func (a *Assistant) publishHome(ctx context.Context, event InboundEvent, log *slog.Logger) {
	if len(a.homeView) == 0 {
		log.Info("home_view_disabled")
		return
	}
	if err := a.workspace.PublishHomeView(ctx, event.UserID, a.homeView); err != nil {
		log.Warn("home_view_publish_error", "user_id", event.UserID, "error", err.Error())
		return
	}
	log.Info("home_view_published", "user_id", event.UserID)
}

package slackcmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nmunir/threadscout/internal/assistant"
)

type socketEnvelope struct {
	EnvelopeID string          `json:"envelope_id,omitempty"`
	Type       string          `json:"type,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

type eventsAPIPayload struct {
	TeamID         string               `json:"team_id,omitempty"`
	EventID        string               `json:"event_id,omitempty"`
	Event          json.RawMessage      `json:"event,omitempty"`
	Authorizations []eventAuthorization `json:"authorizations,omitempty"`
}

type eventAuthorization struct {
	TeamID string `json:"team_id,omitempty"`
	UserID string `json:"user_id,omitempty"`
	IsBot  bool   `json:"is_bot,omitempty"`
}

type slackEvent struct {
	Type        string `json:"type,omitempty"`
	Subtype     string `json:"subtype,omitempty"`
	User        string `json:"user,omitempty"`
	Text        string `json:"text,omitempty"`
	Channel     string `json:"channel,omitempty"`
	ChannelType string `json:"channel_type,omitempty"`
	TS          string `json:"ts,omitempty"`
	ThreadTS    string `json:"thread_ts,omitempty"`
	BotID       string `json:"bot_id,omitempty"`
	Team        string `json:"team,omitempty"`
	EventTS     string `json:"event_ts,omitempty"`
}

// parseInboundEvent extracts an assistant event from an events_api
// envelope. Events from bots (this one included) and envelope types the
// pipeline has no use for are dropped with ok=false. Subtypes pass
// through: the dispatcher owns the edit/delete guard.
func parseInboundEvent(envelope socketEnvelope, botUserID string) (assistant.InboundEvent, bool, error) {
	if strings.TrimSpace(envelope.Type) != "events_api" || len(envelope.Payload) == 0 {
		return assistant.InboundEvent{}, false, nil
	}
	var payload eventsAPIPayload
	if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
		return assistant.InboundEvent{}, false, err
	}
	var event slackEvent
	if err := json.Unmarshal(payload.Event, &event); err != nil {
		return assistant.InboundEvent{}, false, err
	}

	kind, ok := eventKind(event.Type)
	if !ok {
		return assistant.InboundEvent{}, false, nil
	}
	userID := strings.TrimSpace(event.User)
	if strings.TrimSpace(event.BotID) != "" || userID == strings.TrimSpace(botUserID) {
		return assistant.InboundEvent{}, false, nil
	}

	if kind == assistant.KindAppHomeOpened {
		if userID == "" {
			return assistant.InboundEvent{}, false, nil
		}
		return assistant.InboundEvent{
			Kind:    kind,
			EventID: strings.TrimSpace(payload.EventID),
			UserID:  userID,
			TeamID:  eventTeamID(payload, event),
		}, true, nil
	}

	channelID := strings.TrimSpace(event.Channel)
	if channelID == "" {
		return assistant.InboundEvent{}, false, nil
	}
	messageTS := strings.TrimSpace(event.TS)
	if messageTS == "" {
		messageTS = strings.TrimSpace(event.EventTS)
	}
	teamID := eventTeamID(payload, event)
	if teamID == "" {
		return assistant.InboundEvent{}, false, fmt.Errorf("missing team_id in slack event")
	}

	return assistant.InboundEvent{
		Kind:        kind,
		EventID:     strings.TrimSpace(payload.EventID),
		Text:        strings.TrimSpace(event.Text),
		UserID:      userID,
		ChannelID:   channelID,
		ChannelType: strings.TrimSpace(event.ChannelType),
		TeamID:      teamID,
		ThreadTS:    strings.TrimSpace(event.ThreadTS),
		MessageTS:   messageTS,
		Subtype:     strings.TrimSpace(event.Subtype),
	}, true, nil
}

func eventKind(raw string) (assistant.EventKind, bool) {
	switch strings.TrimSpace(raw) {
	case "message":
		return assistant.KindMessage, true
	case "app_mention":
		return assistant.KindAppMention, true
	case "app_home_opened":
		return assistant.KindAppHomeOpened, true
	case "assistant_thread_started":
		return assistant.KindThreadStarted, true
	default:
		return "", false
	}
}

func eventTeamID(payload eventsAPIPayload, event slackEvent) string {
	if teamID := strings.TrimSpace(payload.TeamID); teamID != "" {
		return teamID
	}
	if teamID := strings.TrimSpace(event.Team); teamID != "" {
		return teamID
	}
	if len(payload.Authorizations) > 0 {
		return strings.TrimSpace(payload.Authorizations[0].TeamID)
	}
	return ""
}

func toAllowlist(items []string) map[string]bool {
	out := make(map[string]bool)
	for _, raw := range items {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}
		out[item] = true
	}
	return out
}

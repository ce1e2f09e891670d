package slackcmd

import (
	"encoding/json"
	"testing"

	"github.com/nmunir/threadscout/internal/assistant"
)

func makeEnvelope(t *testing.T, payload map[string]any) socketEnvelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return socketEnvelope{EnvelopeID: "env-1", Type: "events_api", Payload: raw}
}

func TestParseInboundEventMessage(t *testing.T) {
	t.Parallel()
	envelope := makeEnvelope(t, map[string]any{
		"team_id":  "T1",
		"event_id": "Ev1",
		"event": map[string]any{
			"type":         "message",
			"user":         "U1",
			"text":         "  hello there  ",
			"channel":      "C1",
			"channel_type": "channel",
			"ts":           "2.0",
			"thread_ts":    "1.0",
		},
	})
	event, ok, err := parseInboundEvent(envelope, "UBOT")
	if err != nil {
		t.Fatalf("parseInboundEvent() error = %v", err)
	}
	if !ok {
		t.Fatalf("parseInboundEvent() ok = false, want true")
	}
	if event.Kind != assistant.KindMessage {
		t.Fatalf("Kind = %q, want %q", event.Kind, assistant.KindMessage)
	}
	if event.EventID != "Ev1" || event.TeamID != "T1" || event.ChannelID != "C1" {
		t.Fatalf("unexpected ids: %+v", event)
	}
	if event.Text != "hello there" {
		t.Fatalf("Text = %q", event.Text)
	}
	if event.ThreadTS != "1.0" || event.MessageTS != "2.0" {
		t.Fatalf("timestamps = %q/%q", event.ThreadTS, event.MessageTS)
	}
}

func TestParseInboundEventKeepsSubtype(t *testing.T) {
	t.Parallel()
	envelope := makeEnvelope(t, map[string]any{
		"team_id": "T1",
		"event": map[string]any{
			"type":    "message",
			"subtype": "message_deleted",
			"user":    "U1",
			"channel": "C1",
			"ts":      "2.0",
		},
	})
	event, ok, err := parseInboundEvent(envelope, "UBOT")
	if err != nil {
		t.Fatalf("parseInboundEvent() error = %v", err)
	}
	if !ok {
		t.Fatalf("parseInboundEvent() ok = false, want true")
	}
	if event.Subtype != "message_deleted" {
		t.Fatalf("Subtype = %q, want message_deleted", event.Subtype)
	}
}

func TestParseInboundEventDropsBotsAndSelf(t *testing.T) {
	t.Parallel()
	cases := map[string]map[string]any{
		"bot_id": {
			"type": "message", "bot_id": "B1", "user": "U1", "channel": "C1", "ts": "1.0",
		},
		"self": {
			"type": "message", "user": "UBOT", "channel": "C1", "ts": "1.0",
		},
	}
	for name, event := range cases {
		envelope := makeEnvelope(t, map[string]any{"team_id": "T1", "event": event})
		_, ok, err := parseInboundEvent(envelope, "UBOT")
		if err != nil {
			t.Fatalf("%s: parseInboundEvent() error = %v", name, err)
		}
		if ok {
			t.Fatalf("%s: parseInboundEvent() ok = true, want false", name)
		}
	}
}

func TestParseInboundEventIgnoresOtherEnvelopes(t *testing.T) {
	t.Parallel()
	envelope := socketEnvelope{Type: "hello"}
	_, ok, err := parseInboundEvent(envelope, "UBOT")
	if err != nil {
		t.Fatalf("parseInboundEvent() error = %v", err)
	}
	if ok {
		t.Fatalf("parseInboundEvent() ok = true, want false")
	}
}

func TestParseInboundEventAppHomeOpened(t *testing.T) {
	t.Parallel()
	envelope := makeEnvelope(t, map[string]any{
		"team_id":  "T1",
		"event_id": "Ev2",
		"event": map[string]any{
			"type": "app_home_opened",
			"user": "U9",
		},
	})
	event, ok, err := parseInboundEvent(envelope, "UBOT")
	if err != nil {
		t.Fatalf("parseInboundEvent() error = %v", err)
	}
	if !ok {
		t.Fatalf("parseInboundEvent() ok = false, want true")
	}
	if event.Kind != assistant.KindAppHomeOpened || event.UserID != "U9" || event.EventID != "Ev2" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestParseInboundEventRequiresTeamID(t *testing.T) {
	t.Parallel()
	envelope := makeEnvelope(t, map[string]any{
		"event": map[string]any{
			"type": "app_mention", "user": "U1", "channel": "C1", "ts": "1.0",
		},
	})
	if _, _, err := parseInboundEvent(envelope, "UBOT"); err == nil {
		t.Fatalf("parseInboundEvent() error = nil, want missing team_id error")
	}
}

func TestParseInboundEventTeamFromAuthorizations(t *testing.T) {
	t.Parallel()
	envelope := makeEnvelope(t, map[string]any{
		"authorizations": []map[string]any{{"team_id": "T7"}},
		"event": map[string]any{
			"type": "app_mention", "user": "U1", "channel": "C1", "ts": "1.0", "text": "hi",
		},
	})
	event, ok, err := parseInboundEvent(envelope, "UBOT")
	if err != nil {
		t.Fatalf("parseInboundEvent() error = %v", err)
	}
	if !ok {
		t.Fatalf("parseInboundEvent() ok = false, want true")
	}
	if event.Kind != assistant.KindAppMention {
		t.Fatalf("Kind = %q, want %q", event.Kind, assistant.KindAppMention)
	}
	if event.TeamID != "T7" {
		t.Fatalf("TeamID = %q, want T7", event.TeamID)
	}
}

func TestToAllowlist(t *testing.T) {
	t.Parallel()
	got := toAllowlist([]string{" T1 ", "", "C2"})
	if len(got) != 2 || !got["T1"] || !got["C2"] {
		t.Fatalf("toAllowlist() = %v", got)
	}
}

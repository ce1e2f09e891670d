package assistant

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultProfile(t *testing.T) {
	t.Parallel()

	profile, err := DefaultProfile()
	if err != nil {
		t.Fatalf("DefaultProfile() error = %v", err)
	}
	if profile.Intents.Search != "Slack Search" {
		t.Fatalf("search label = %q, want %q", profile.Intents.Search, "Slack Search")
	}
	if profile.Intents.Summarize != "Summarize Thread" {
		t.Fatalf("summarize label = %q, want %q", profile.Intents.Summarize, "Summarize Thread")
	}
	if profile.Intents.Other != "Other" {
		t.Fatalf("other label = %q, want %q", profile.Intents.Other, "Other")
	}
	if profile.Replies.Apology == "" || profile.Prompts.RefineSystem == "" {
		t.Fatalf("default profile has empty required fields: %+v", profile)
	}
}

func TestLoadProfileOverlaysPartialFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.yaml")
	raw := "intents:\n  search: \"Workspace Search\"\n  summarize: \"Summarize Thread\"\n  other: \"Other\"\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	profile, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if profile.Intents.Search != "Workspace Search" {
		t.Fatalf("search label = %q, want overridden value", profile.Intents.Search)
	}
	// Untouched sections keep the embedded defaults.
	if profile.Prompts.RefineSystem == "" {
		t.Fatalf("refine prompt lost in overlay")
	}
}

func TestLoadProfileRejectsDuplicateLabels(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.yaml")
	raw := "intents:\n  search: \"Same\"\n  summarize: \"Same\"\n  other: \"Other\"\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	if _, err := LoadProfile(path); err == nil {
		t.Fatalf("LoadProfile() expected error for duplicate labels")
	}
}

func TestRenderTemplate(t *testing.T) {
	t.Parallel()

	got := renderTemplate("ask {speaker}: {message}", map[string]string{
		"speaker": "alice",
		"message": "hello",
	})
	if got != "ask alice: hello" {
		t.Fatalf("renderTemplate() = %q", got)
	}
	// Unknown placeholders survive so profile typos stay visible.
	if got := renderTemplate("{nope}", nil); got != "{nope}" {
		t.Fatalf("renderTemplate() = %q, want placeholder kept", got)
	}
}

package homeview

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedDefault(t *testing.T) {
	t.Parallel()

	view, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	var payload struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(view, &payload); err != nil {
		t.Fatalf("default view is not valid JSON: %v", err)
	}
	if payload.Type != "home" {
		t.Fatalf("view type = %q, want home", payload.Type)
	}
}

func TestLoadFromFileVerbatim(t *testing.T) {
	t.Parallel()

	raw := `{"type":"home","blocks":[]}`
	path := filepath.Join(t.TempDir(), "view.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write view: %v", err)
	}

	view, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(view) != raw {
		t.Fatalf("view altered: got %s want %s", view, raw)
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "view.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write view: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load() expected error for invalid JSON")
	}
}

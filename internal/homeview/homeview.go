// Package homeview loads the static App Home view payload. The payload is
// published verbatim; nothing here inspects its block structure beyond
// checking that it is valid JSON.
package homeview

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

//go:embed default_view.json
var defaultView []byte

// Load returns the view payload from path, or the embedded default when
// path is empty.
func Load(path string) (json.RawMessage, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return json.RawMessage(defaultView), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read home view: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("home view %s is not valid JSON", path)
	}
	return json.RawMessage(raw), nil
}

// Package jsonutil decodes JSON payloads from LLM output, tolerating the
// code fences models tend to wrap strict-JSON answers in.
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyInput = errors.New("jsonutil: empty input")

// DecodeWithFallback unmarshals raw into out. When raw is not valid JSON as
// given, it retries with markdown code fences stripped and, failing that,
// with the outermost {...} slice of the text.
func DecodeWithFallback(raw string, out any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrEmptyInput
	}
	if err := json.Unmarshal([]byte(raw), out); err == nil {
		return nil
	}
	if stripped := stripCodeFence(raw); stripped != "" {
		if err := json.Unmarshal([]byte(stripped), out); err == nil {
			return nil
		}
	}
	if inner := outerObjectSlice(raw); inner != "" {
		if err := json.Unmarshal([]byte(inner), out); err == nil {
			return nil
		}
	}
	return fmt.Errorf("jsonutil: input is not valid JSON")
}

func stripCodeFence(raw string) string {
	if !strings.HasPrefix(raw, "```") {
		return ""
	}
	body := strings.TrimPrefix(raw, "```")
	if idx := strings.Index(body, "\n"); idx >= 0 {
		body = body[idx+1:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}

func outerObjectSlice(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

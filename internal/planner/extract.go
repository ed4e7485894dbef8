package planner

import (
	"encoding/json"
	"strings"
)

// ExtractObject locates the first {...} span in text (greedy to the last
// closing brace, across newlines) and parses it. Delimiter absence, parse
// failure or empty input all yield an empty map, never an error.
func ExtractObject(text string) map[string]any {
	span := extractSpan(text, '{', '}')
	if span == "" {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(span), &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

// ExtractArray locates the first [...] span in text (greedy to the last
// closing bracket) and parses it. Failures yield an empty sequence.
func ExtractArray(text string) []any {
	span := extractSpan(text, '[', ']')
	if span == "" {
		return []any{}
	}
	var out []any
	if err := json.Unmarshal([]byte(span), &out); err != nil || out == nil {
		return []any{}
	}
	return out
}

func extractSpan(text string, open, close byte) string {
	start := strings.IndexByte(text, open)
	if start == -1 {
		return ""
	}
	end := strings.LastIndexByte(text, close)
	if end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}

package agent

import (
	"encoding/json"
	"regexp"
	"strings"

	"cobalt/internal/logging"
)

// ToolCall is a structured request recovered from model text: a registered
// tool name, its arguments, and the model's stated reasoning.
type ToolCall struct {
	Name       string
	Parameters map[string]any
	Reasoning  string
}

// markerTokens are provider-specific delimiter strings some local models
// emit before a JSON payload instead of a fenced block. Order matters:
// the longer token must be tried first since the shorter one is its suffix.
var markerTokens = []string{
	"<|constrain|>json<|message|>",
	"<|message|>",
}

// doneWords signal task completion when no tool call can be recovered.
// Known-fragile: a stray "success" mid-sentence reads as completion.
var doneWords = []string{
	"done", "completed", "finished", "success", "task completed",
}

var fencedJSON = regexp.MustCompile("(?is)```json\\s*\\n(.*?)\\n```")

// Parse extracts tool calls from raw model output. It never fails; any
// malformed input degrades to fewer results. Three recovery tiers run in
// order, each only when the previous produced nothing:
//
//  1. fenced ```json blocks
//  2. marker-delimited JSON (with truncation repair)
//  3. whole-text brace scan
func Parse(raw string) []ToolCall {
	if calls := parseFenced(raw); len(calls) > 0 {
		logging.ParserDebug("fenced blocks yielded %d calls", len(calls))
		return calls
	}
	if calls := parseMarkers(raw); len(calls) > 0 {
		logging.Parser("marker recovery yielded %d calls", len(calls))
		return calls
	}
	if calls := scanBraces(raw); len(calls) > 0 {
		logging.Parser("brace scan yielded %d calls", len(calls))
		return calls
	}
	return nil
}

// LooksCompleted reports whether raw text reads as a completion signal.
// Used only when Parse yields nothing.
func LooksCompleted(raw string) bool {
	lower := strings.ToLower(raw)
	for _, word := range doneWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// parseFenced extracts calls from fenced json blocks. A block that fails
// to parse is skipped without aborting the scan of the others.
func parseFenced(raw string) []ToolCall {
	var calls []ToolCall
	for _, m := range fencedJSON.FindAllStringSubmatch(raw, -1) {
		if call, ok := decodeCall(strings.TrimSpace(m[1])); ok {
			calls = append(calls, call)
		}
	}
	return calls
}

// parseMarkers recovers calls following provider marker tokens. The first
// marker kind that yields any result wins. Objects truncated by the
// generation limit are repaired by appending the unmatched-brace deficit
// of closing braces and re-parsing once.
func parseMarkers(raw string) []ToolCall {
	for _, marker := range markerTokens {
		var calls []ToolCall

		offset := 0
		for {
			idx := strings.Index(raw[offset:], marker)
			if idx < 0 {
				break
			}
			start := offset + idx + len(marker)
			offset = start

			// Skip leading whitespace; the payload must open an object.
			for start < len(raw) && (raw[start] == ' ' || raw[start] == '\n' || raw[start] == '\t') {
				start++
			}
			if start >= len(raw) || raw[start] != '{' {
				continue
			}

			end, deficit := matchBrace(raw, start)
			if deficit == 0 {
				if call, ok := decodeCall(raw[start : end+1]); ok {
					calls = append(calls, call)
				}
				continue
			}

			// Truncated generation: close the unmatched braces and retry.
			repaired := raw[start:] + strings.Repeat("}", deficit)
			if call, ok := decodeCall(repaired); ok {
				logging.Parser("repaired truncated payload (%d missing braces)", deficit)
				calls = append(calls, call)
			}
		}

		if len(calls) > 0 {
			return calls
		}
	}
	return nil
}

// scanBraces is the last resort: every opening brace in the text is tried
// as the start of a balanced object, and the first one containing a tool
// key is accepted.
func scanBraces(raw string) []ToolCall {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}
		end, deficit := matchBrace(raw, i)
		if deficit != 0 {
			continue
		}
		if call, ok := decodeCall(raw[i : end+1]); ok {
			return []ToolCall{call}
		}
	}
	return nil
}

// matchBrace walks forward from an opening brace counting depth. Returns
// the index of the matching close and a zero deficit, or the number of
// unmatched opens when the text ends first.
func matchBrace(s string, start int) (end, deficit int) {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, 0
			}
		}
	}
	return len(s) - 1, depth
}

// decodeCall parses a JSON object and maps it onto a ToolCall. Objects
// without a tool key are not calls.
func decodeCall(payload string) (ToolCall, bool) {
	var data map[string]any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return ToolCall{}, false
	}

	name, ok := data["tool"].(string)
	if !ok || name == "" {
		return ToolCall{}, false
	}

	params, _ := data["parameters"].(map[string]any)
	if params == nil {
		params = map[string]any{}
	}

	reasoning, _ := data["reason"].(string)
	if reasoning == "" {
		reasoning, _ = data["reasoning"].(string)
	}

	return ToolCall{Name: name, Parameters: params, Reasoning: reasoning}, true
}

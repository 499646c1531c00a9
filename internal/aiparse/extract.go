// Package aiparse recovers structured data from free-text model replies.
// Gemini routinely wraps JSON in prose or markdown fences, so the extractor
// scans for an embedded object or array instead of requiring the whole
// reply to be valid JSON.
package aiparse

import (
	"encoding/json"
	"strings"
)

// ExtractJSON locates the first JSON object or array embedded in text,
// parses it, and returns the decoded value. The second result is false when
// the reply holds no parseable JSON region at all; callers are expected to
// fall back rather than treat that as an error.
func ExtractJSON(text string) (interface{}, bool) {
	region, ok := ExtractRaw(text)
	if !ok {
		return nil, false
	}

	var v interface{}
	if err := json.Unmarshal([]byte(region), &v); err != nil {
		return nil, false
	}
	return v, true
}

// ExtractObject is ExtractJSON restricted to object-shaped payloads, with
// the sanitizer applied. This is the shape most generation prompts ask for.
func ExtractObject(text string) (map[string]interface{}, bool) {
	v, ok := ExtractJSON(text)
	if !ok {
		return nil, false
	}
	obj, ok := Sanitize(v).(map[string]interface{})
	return obj, ok
}

// ExtractRaw strips markdown fences and slices out the first brace-balanced
// region that is valid JSON. Prose can contain balanced brackets of its own
// ("[см. ниже]"), so each candidate region is validated and the scan moves
// on to the next opening character until one parses. The winning slice is
// returned verbatim.
func ExtractRaw(text string) (string, bool) {
	text = stripFences(text)

	for from := 0; from < len(text); {
		idx := strings.IndexAny(text[from:], "{[")
		if idx < 0 {
			return "", false
		}
		start := from + idx

		if end, ok := scanBalanced(text, start); ok && json.Valid([]byte(text[start:end])) {
			return text[start:end], true
		}
		from = start + 1
	}
	return "", false
}

// scanBalanced walks text from the opening brace/bracket at start and
// returns the index just past its matching close. The scan is quote-aware:
// braces inside JSON strings do not affect the depth counter.
func scanBalanced(text string, start int) (int, bool) {
	open := text[start]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}

	return 0, false
}

func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

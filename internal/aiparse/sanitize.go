package aiparse

import (
	"html"
	"strings"
)

// Sanitize walks a decoded JSON tree and returns a structurally identical
// copy where every string leaf is safe to render as plain or markdown text.
// Markup-significant characters are escaped, then literal backslash-n
// sequences the model emitted inside JSON strings are restored to real line
// breaks. Non-string scalars pass through unchanged.
func Sanitize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = Sanitize(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = Sanitize(item)
		}
		return out
	case string:
		return SanitizeString(val)
	default:
		return v
	}
}

// SanitizeString applies the string-leaf rules of Sanitize.
func SanitizeString(s string) string {
	s = html.EscapeString(s)
	return strings.ReplaceAll(s, `\n`, "\n")
}

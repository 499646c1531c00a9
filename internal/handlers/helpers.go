package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

// generator is the slice of the Gemini service the handlers call. Tests
// substitute a stub so no network is involved.
type generator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string, maxTokens int32) (string, error)
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// fail writes the common error envelope. Every endpoint reports failures
// the same way: {"success": false, "error": "..."}.
func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

package cli

import (
	"encoding/json"
	"io"
	"log/slog"
)

// writeJSON writes v to w as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Error("write JSON output", "error", err)
		return err
	}
	return nil
}

// errorBody is what the command writes to stderr when it fails.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

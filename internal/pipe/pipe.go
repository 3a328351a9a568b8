// Package pipe provides utilities for detecting pipeline execution
// and passing session context between pipeline stages.
package pipe

import (
	"encoding/json"
	"io"
	"os"

	"golang.org/x/term"
)

// SessionContextEnvVar is the environment variable used to pass session context.
const SessionContextEnvVar = "QUILL_SESSION"

// SessionContext correlates pipeline stages that feed one transcript. The
// orchestrating process exports it; quill render --record appends to the
// named session instead of starting a fresh one.
type SessionContext struct {
	// SessionID is the transcript session identifier
	SessionID string `json:"session_id"`

	// Title is a human-readable session title
	Title string `json:"title,omitempty"`
}

// IsStdinPiped returns true if stdin is receiving piped input.
func IsStdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	// Check if stdin is a pipe or has data
	return (stat.Mode()&os.ModeCharDevice) == 0 || stat.Size() > 0
}

// IsStdoutPiped returns true if stdout is being piped to another process.
func IsStdoutPiped() bool {
	return !term.IsTerminal(int(os.Stdout.Fd()))
}

// ReadStdin reads all available data from stdin.
// Returns empty string if stdin is not piped or has no data.
func ReadStdin() (string, error) {
	if !IsStdinPiped() {
		return "", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetSessionContext retrieves session context from the environment.
// Returns nil if no session is active.
func GetSessionContext() *SessionContext {
	envVal := os.Getenv(SessionContextEnvVar)
	if envVal == "" {
		return nil
	}

	var ctx SessionContext
	if err := json.Unmarshal([]byte(envVal), &ctx); err != nil {
		return nil
	}
	return &ctx
}

// ExportSessionContext encodes the context for child pipeline stages.
func ExportSessionContext(ctx SessionContext) (string, error) {
	data, err := json.Marshal(ctx)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// FormatDuration formats a duration in seconds for display.
func FormatDuration(seconds float64) string {
	if seconds < 0.1 {
		return "<0.1s"
	}
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	minutes := int(seconds) / 60
	secs := int(seconds) % 60
	return fmt.Sprintf("%dm%ds", minutes, secs)
}

// SanitizeCommand flattens a command string onto one line for display.
func SanitizeCommand(cmd string) string {
	cmd = strings.ReplaceAll(cmd, "\n", " ")
	cmd = strings.ReplaceAll(cmd, "\t", "    ")
	return cmd
}

// CleanText unescapes quoted payloads and strips stray ANSI sequences so
// producer output cannot corrupt the transcript's own styling.
func CleanText(text string) string {
	if strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) && len(text) > 1 {
		if unquoted, err := strconv.Unquote(text); err == nil {
			text = unquoted
		}
	}
	return ansi.Strip(text)
}

// StripANSI removes all ANSI escape sequences from the string.
func StripANSI(text string) string {
	return ansi.Strip(text)
}

// TruncateLine truncates a single line to the given display width,
// appending an ellipsis when content was cut. ANSI-aware.
func TruncateLine(line string, width int) string {
	if width <= 0 || ansi.StringWidth(line) <= width {
		return line
	}
	return ansi.Truncate(line, width, "…")
}

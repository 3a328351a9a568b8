// Package paste classifies input bursts as pasted multi-line blocks and
// produces one-line summaries for collapsed transcript display.
package paste

import (
	"strings"
	"unicode/utf8"

	"github.com/quillhq/quill/internal/ui"
)

const (
	// minLength is the smallest trimmed content length treated as a
	// paste. A stray newline or a lone blank line stays verbatim input.
	minLength = 10
	// previewWidth caps the summary preview.
	previewWidth = 80
)

// Summary describes a classified input burst. When IsMultiline is false the
// renderer ignores the summary and passes the original text through
// verbatim; the counts are still populated honestly.
type Summary struct {
	IsMultiline bool
	LineCount   int
	CharCount   int
	Preview     string
}

// IsMultiline reports whether the burst looks like a pasted block: at least
// two newline-delimited lines and enough trimmed content to rule out stray
// separators. Heuristic, not exact.
func IsMultiline(raw string) bool {
	normalized := normalize(raw)
	if !strings.Contains(normalized, "\n") {
		return false
	}
	return len(strings.TrimSpace(normalized)) > minLength
}

// Summarize builds a display summary for a burst. It never fails: degenerate
// input yields a placeholder preview instead of an empty string.
func Summarize(raw string) Summary {
	normalized := normalize(raw)
	return Summary{
		IsMultiline: IsMultiline(raw),
		LineCount:   countLines(normalized),
		CharCount:   utf8.RuneCountInString(normalized),
		Preview:     preview(normalized),
	}
}

// normalize folds carriage returns so Windows-style bursts classify the
// same as Unix ones.
func normalize(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.ReplaceAll(raw, "\r", "\n")
}

// countLines counts newline-delimited lines, ignoring a trailing newline so
// a block ending in one does not report a phantom final line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Count(s, "\n") + 1
}

// preview returns the first non-empty trimmed line, truncated with a
// trailing ellipsis when it exceeds the preview width.
func preview(s string) string {
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		return ui.TruncateLine(trimmed, previewWidth)
	}
	return "blank content"
}

package transcript

import (
	"strings"

	"github.com/quillhq/quill/internal/format"
	"github.com/quillhq/quill/internal/ui"
)

// RenderEntries re-renders stored entries as transcript text at the given
// width. Dedup already ran when the session was recorded, so every entry
// renders. An entry whose payload no longer decodes falls back to the
// block text captured at record time.
func RenderEntries(entries []Entry, width int, expanded, color bool) string {
	styles := ui.DefaultStyles()
	if !color {
		styles = ui.PlainStyles()
	}
	f := format.New(styles, !color)
	if expanded {
		f = f.WithExpandedDiffs()
	}

	blocks := make([]string, 0, len(entries))
	for _, en := range entries {
		if en.Event.Kind == "" {
			if en.Block != "" {
				blocks = append(blocks, en.Block)
			}
			continue
		}
		block := f.Format(en.Event, width)
		if block == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n")
}

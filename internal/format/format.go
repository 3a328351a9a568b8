// Package format turns renderer events into styled transcript blocks. Every
// method is best-effort and total: degenerate input produces a well-defined
// block or an empty string, never an error.
package format

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/quillhq/quill/internal/diff"
	"github.com/quillhq/quill/internal/event"
	"github.com/quillhq/quill/internal/paste"
	"github.com/quillhq/quill/internal/ui"
)

const (
	// outputHeadLines and outputTailLines bound how much raw tool output
	// a single block shows before eliding the middle.
	outputHeadLines = 10
	outputTailLines = 5

	minWidth = 20
)

// Formatter renders events against an injected style set. Plain mode swaps
// icons for ASCII fallbacks; callers pass ui.PlainStyles alongside it when
// the sink has no color support.
type Formatter struct {
	styles      ui.Styles
	plain       bool
	expandDiffs bool
}

// New builds a Formatter. Instances are stateless and safe to share.
func New(styles ui.Styles, plain bool) *Formatter {
	return &Formatter{styles: styles, plain: plain}
}

// WithExpandedDiffs returns a copy whose edit blocks render every unchanged
// line instead of eliding long runs.
func (f *Formatter) WithExpandedDiffs() *Formatter {
	clone := *f
	clone.expandDiffs = true
	return &clone
}

// Format renders one event at the given width. Nil payloads and unknown
// kinds degrade to plain text; the result is empty only when there is
// nothing to show.
func (f *Formatter) Format(e event.Event, width int) string {
	switch e.Kind {
	case event.KindThought:
		return f.Thought(e.Text, 0, width)
	case event.KindToolCall:
		return f.ToolCall(e.Tool, width)
	case event.KindToolResult:
		return f.ToolResult(e.Result, width)
	case event.KindResponse:
		return f.Response(e.Text, width)
	case event.KindError:
		return f.Error(e.Text, width)
	case event.KindUser:
		return f.User(e.Text, width)
	default:
		return f.styles.Muted.Render(strings.TrimSpace(e.Text))
	}
}

// Thought renders a reasoning fragment with its category icon and color.
// A non-zero duration is appended when the fragment accumulated over a
// noticeable stretch of streaming.
func (f *Formatter) Thought(text string, dur time.Duration, width int) string {
	width = clampWidth(width)
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	icon, style := f.thoughtVisuals(ClassifyThought(text))
	rows := wrapLines(text, width-2)
	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		prefix := "  "
		if i == 0 {
			prefix = icon + " "
		}
		lines = append(lines, style.Render(prefix+row))
	}
	if dur >= time.Second {
		lines[len(lines)-1] += " " + f.styles.Dim.Render("("+ui.FormatDuration(dur.Seconds())+")")
	}
	return strings.Join(lines, "\n")
}

// ToolCall renders the bracketed tool name followed by one line per
// parameter. Values are colorized by sniffed type but always rendered
// verbatim, so embedded quotes, escapes, and nested delimiters survive.
func (f *Formatter) ToolCall(tc *event.ToolCall, width int) string {
	if tc == nil {
		return ""
	}
	name := tc.Name
	if name == "" {
		name = "tool"
	}
	lines := []string{f.icon(ui.IconTool) + " " + f.styles.ToolName.Render("["+name+"]")}
	for _, p := range tc.Params {
		lines = append(lines, f.paramLine(p))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) paramLine(p event.Param) string {
	style := f.styles.ParamPlain
	switch SniffParamType(p.Value) {
	case ParamPath:
		style = f.styles.ParamPath
	case ParamShell:
		style = f.styles.ParamShell
	case ParamPattern:
		style = f.styles.ParamPattern
	case ParamNumber:
		style = f.styles.ParamNumber
	}

	key := f.styles.ParamKey.Render(p.Key + ":")
	first, rest, multiline := strings.Cut(p.Value, "\n")
	line := "  " + key + " " + style.Render(first)
	if multiline {
		line += "\n" + style.Render(ui.IndentText(rest, "    "))
	}
	return line
}

// ToolResult renders a status glyph, then either a nested diff when edit
// metadata is present or the wrapped output text with its middle elided.
func (f *Formatter) ToolResult(tr *event.ToolResult, width int) string {
	if tr == nil {
		return ""
	}
	width = clampWidth(width)

	icon, style := f.icon(ui.IconSuccess), f.styles.ResultSuccess
	if tr.Failed {
		icon, style = f.icon(ui.IconError), f.styles.ResultError
	}
	header := style.Render(icon)
	if tr.Name != "" {
		header += " " + f.styles.Muted.Render(tr.Name)
	}
	if tr.DurationSecs > 0 {
		header += " " + f.styles.Dim.Render("("+ui.FormatDuration(tr.DurationSecs)+")")
	}

	if tr.Edit != nil {
		return f.editBlock(header, tr.Edit, width)
	}

	output := strings.TrimSpace(ui.CleanText(tr.Output))
	if output == "" {
		return header
	}

	rows := wrapLines(output, width-2)
	lines := []string{header}
	if hidden := len(rows) - outputHeadLines - outputTailLines; hidden > 1 {
		for _, row := range rows[:outputHeadLines] {
			lines = append(lines, f.outputRow(row))
		}
		marker := fmt.Sprintf("%s (%d more lines)", f.icon(ui.IconEllipsis), hidden)
		lines = append(lines, "  "+f.styles.Dim.Render(marker))
		for _, row := range rows[len(rows)-outputTailLines:] {
			lines = append(lines, f.outputRow(row))
		}
	} else {
		for _, row := range rows {
			lines = append(lines, f.outputRow(row))
		}
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) outputRow(row string) string {
	if row == "" {
		return ""
	}
	return "  " + f.styles.ResultOutput.Render(row)
}

func (f *Formatter) editBlock(header string, edit *event.EditMetadata, width int) string {
	rendered := diff.Render(diff.Compute(edit.Before, edit.After), diff.RenderOptions{
		Width:     width - 2,
		Styles:    f.styles,
		Plain:     f.plain,
		ExpandAll: f.expandDiffs,
	})

	lines := []string{header}
	if edit.FilePath != "" {
		lines = append(lines, "  "+f.styles.DiffFile.Render(edit.FilePath))
	}
	for _, l := range rendered.Lines {
		if l == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, "  "+l)
	}
	return strings.Join(lines, "\n")
}

// Response renders a completed answer as a markdown block under a distinct
// glyph so readers can tell final answers from reasoning at a glance.
func (f *Formatter) Response(text string, width int) string {
	width = clampWidth(width)
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	header := f.styles.Response.Render(f.icon(ui.IconResponse))
	body := ""
	if !f.plain {
		if r := ui.MarkdownRenderer(width); r != nil {
			if out, err := r.Render(text); err == nil {
				body = strings.Trim(out, "\n")
			}
		}
	}
	if body == "" {
		body = f.styles.Response.Render(strings.Join(wrapLines(text, width), "\n"))
	}
	return header + "\n" + body
}

// Error renders with the dedicated error glyph and color. Errors always
// surface; callers must not route them through the dedup filter.
func (f *Formatter) Error(text string, width int) string {
	width = clampWidth(width)
	text = strings.TrimSpace(text)
	if text == "" {
		text = "unknown error"
	}

	label := f.styles.ErrorLabel.Render(f.icon(ui.IconError) + " Error:")
	rows := wrapLines(text, width-2)
	if len(rows) == 1 {
		return label + " " + f.styles.ErrorText.Render(rows[0])
	}
	lines := []string{label}
	for _, row := range rows {
		lines = append(lines, "  "+f.styles.ErrorText.Render(row))
	}
	return strings.Join(lines, "\n")
}

// User renders submitted input. Multi-line pastes collapse to a one-line
// summary; everything else passes through verbatim.
func (f *Formatter) User(text string, width int) string {
	width = clampWidth(width)
	label := f.styles.UserLabel.Render(f.icon(ui.IconUser))

	s := paste.Summarize(text)
	if s.IsMultiline {
		desc := fmt.Sprintf("%s pasted %d lines (%d chars): %s",
			f.icon(ui.IconPaste), s.LineCount, s.CharCount, s.Preview)
		return label + " " + f.styles.PasteSummary.Render(desc)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	rows := wrapLines(trimmed, width-2)
	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			lines = append(lines, label+" "+f.styles.Response.Render(row))
			continue
		}
		lines = append(lines, "  "+f.styles.Response.Render(row))
	}
	return strings.Join(lines, "\n")
}

// Rule renders a horizontal divider, optionally titled, spanning the width.
func (f *Formatter) Rule(title string, width int) string {
	width = clampWidth(width)
	fill := "─"
	if f.plain {
		fill = "-"
	}
	if title == "" {
		return f.styles.Muted.Render(strings.Repeat(fill, width))
	}
	rest := width - utf8.RuneCountInString(title) - 5
	if rest < 3 {
		rest = 3
	}
	return f.styles.Muted.Render(strings.Repeat(fill, 3) + " " + title + " " + strings.Repeat(fill, rest))
}

func (f *Formatter) icon(icon string) string {
	if f.plain {
		return ui.PlainIcon(icon)
	}
	return icon
}

func (f *Formatter) thoughtVisuals(c ThoughtCategory) (string, lipgloss.Style) {
	switch c {
	case ThoughtPlanning:
		return f.icon(ui.IconPlanning), f.styles.ThoughtPlanning
	case ThoughtAnalyzing:
		return f.icon(ui.IconAnalyzing), f.styles.ThoughtAnalyzing
	case ThoughtExecuting:
		return f.icon(ui.IconExecuting), f.styles.ThoughtExecuting
	case ThoughtCompleting:
		return f.icon(ui.IconComplete), f.styles.ThoughtCompleting
	default:
		return f.icon(ui.IconThinking), f.styles.ThoughtGeneric
	}
}

func clampWidth(width int) int {
	if width <= 0 {
		width = 80
	}
	if width < minWidth {
		width = minWidth
	}
	if width > ui.MaxContentWidth {
		width = ui.MaxContentWidth
	}
	return width
}

// wrapLines wraps text at word boundaries and returns its display rows.
// The second pass splits words longer than the limit, which plain wordwrap
// would let overflow.
func wrapLines(text string, limit int) []string {
	if limit < 8 {
		limit = 8
	}
	return strings.Split(wrap.String(wordwrap.String(text, limit), limit), "\n")
}

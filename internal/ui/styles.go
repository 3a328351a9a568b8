package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// MaxContentWidth caps block width on very wide terminals.
const MaxContentWidth = 120

// Styles holds the lipgloss styles for every transcript block element.
// Renderers receive a Styles value at construction; there is no package-level
// default in use, so instances never interfere.
type Styles struct {
	// Thought categories
	ThoughtGeneric    lipgloss.Style
	ThoughtPlanning   lipgloss.Style
	ThoughtAnalyzing  lipgloss.Style
	ThoughtExecuting  lipgloss.Style
	ThoughtCompleting lipgloss.Style

	// Tool invocations
	ToolName     lipgloss.Style
	ParamKey     lipgloss.Style
	ParamPlain   lipgloss.Style
	ParamPath    lipgloss.Style
	ParamShell   lipgloss.Style
	ParamPattern lipgloss.Style
	ParamNumber  lipgloss.Style

	// Tool results
	ResultSuccess lipgloss.Style
	ResultError   lipgloss.Style
	ResultOutput  lipgloss.Style

	// Responses and errors
	Response   lipgloss.Style
	ErrorLabel lipgloss.Style
	ErrorText  lipgloss.Style

	// User input
	UserLabel    lipgloss.Style
	PasteSummary lipgloss.Style

	// Diff blocks
	DiffAdd     lipgloss.Style
	DiffDelete  lipgloss.Style
	DiffContext lipgloss.Style
	DiffMarker  lipgloss.Style
	DiffFooter  lipgloss.Style
	DiffFile    lipgloss.Style

	// General text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Dim      lipgloss.Style
}

// DefaultStyles returns the colored style set.
func DefaultStyles() Styles {
	return Styles{
		ThoughtGeneric:    lipgloss.NewStyle().Foreground(ColorTextDim).Italic(true),
		ThoughtPlanning:   lipgloss.NewStyle().Foreground(ColorTertiary).Italic(true),
		ThoughtAnalyzing:  lipgloss.NewStyle().Foreground(ColorSecondary).Italic(true),
		ThoughtExecuting:  lipgloss.NewStyle().Foreground(ColorPrimary).Italic(true),
		ThoughtCompleting: lipgloss.NewStyle().Foreground(ColorSuccess).Italic(true),

		ToolName:     lipgloss.NewStyle().Foreground(ColorToolName).Bold(true),
		ParamKey:     lipgloss.NewStyle().Foreground(ColorMuted),
		ParamPlain:   lipgloss.NewStyle().Foreground(ColorText),
		ParamPath:    lipgloss.NewStyle().Foreground(ColorParamPath),
		ParamShell:   lipgloss.NewStyle().Foreground(ColorParamShell),
		ParamPattern: lipgloss.NewStyle().Foreground(ColorParamRegex),
		ParamNumber:  lipgloss.NewStyle().Foreground(ColorParamNum),

		ResultSuccess: lipgloss.NewStyle().Foreground(ColorSuccess),
		ResultError:   lipgloss.NewStyle().Foreground(ColorError),
		ResultOutput:  lipgloss.NewStyle().Foreground(ColorTextDim),

		Response:   lipgloss.NewStyle().Foreground(ColorText),
		ErrorLabel: lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		ErrorText:  lipgloss.NewStyle().Foreground(ColorError),

		UserLabel:    lipgloss.NewStyle().Foreground(ColorTextBright).Bold(true),
		PasteSummary: lipgloss.NewStyle().Foreground(ColorMuted).Italic(true),

		DiffAdd:     lipgloss.NewStyle().Foreground(ColorDiffAdded),
		DiffDelete:  lipgloss.NewStyle().Foreground(ColorDiffRemove),
		DiffContext: lipgloss.NewStyle().Foreground(ColorTextDim),
		DiffMarker:  lipgloss.NewStyle().Foreground(ColorMuted).Italic(true),
		DiffFooter:  lipgloss.NewStyle().Foreground(ColorMuted),
		DiffFile:    lipgloss.NewStyle().Foreground(ColorParamPath).Underline(true),

		Title:    lipgloss.NewStyle().Foreground(ColorTextBright).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(ColorTextDim).Italic(true),
		Muted:    lipgloss.NewStyle().Foreground(ColorMuted),
		Dim:      lipgloss.NewStyle().Foreground(ColorTextDim),
	}
}

// PlainStyles returns attribute-free styles for sinks without color support.
// Every Render call passes text through unchanged.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		ThoughtGeneric:    plain,
		ThoughtPlanning:   plain,
		ThoughtAnalyzing:  plain,
		ThoughtExecuting:  plain,
		ThoughtCompleting: plain,
		ToolName:          plain,
		ParamKey:          plain,
		ParamPlain:        plain,
		ParamPath:         plain,
		ParamShell:        plain,
		ParamPattern:      plain,
		ParamNumber:       plain,
		ResultSuccess:     plain,
		ResultError:       plain,
		ResultOutput:      plain,
		Response:          plain,
		ErrorLabel:        plain,
		ErrorText:         plain,
		UserLabel:         plain,
		PasteSummary:      plain,
		DiffAdd:           plain,
		DiffDelete:        plain,
		DiffContext:       plain,
		DiffMarker:        plain,
		DiffFooter:        plain,
		DiffFile:          plain,
		Title:             plain,
		Subtitle:          plain,
		Muted:             plain,
		Dim:               plain,
	}
}

// TruncateWithEllipsis truncates a string and adds ellipsis if needed.
func TruncateWithEllipsis(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// IndentText indents each non-empty line of text with the given prefix.
func IndentText(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// TerminalWidth returns the current terminal width, or the fallback when
// stdout is not a terminal.
func TerminalWidth(fallback int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

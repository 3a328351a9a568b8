package ui

// Icons for transcript blocks - colorless Unicode glyphs that respect
// terminal themes, drawn from box drawing and geometric shape ranges.
const (
	// Status icons
	IconSuccess = "✓" // Check mark - success
	IconError   = "✗" // Ballot X - error
	IconWarning = "△" // White up-pointing triangle - warning
	IconInfo    = "●" // Black circle - info
	IconPending = "○" // White circle - pending

	// Thought category icons
	IconThinking  = "◇" // White diamond - generic thought
	IconPlanning  = "□" // White square - planning
	IconAnalyzing = "◈" // Diamond with inset - analyzing
	IconExecuting = "▸" // Small right-pointing triangle - executing
	IconComplete  = "✓" // Check mark - completing

	// Block icons
	IconTool     = "▶" // Black right-pointing triangle - tool invocation
	IconResponse = "◆" // Black diamond - assistant response
	IconUser     = "❯" // Heavy right angle bracket - user input
	IconPaste    = "≡" // Stacked lines - collapsed paste block

	// Decoration icons
	IconArrowRight = "→" // Rightwards arrow - continuation
	IconBullet     = "•" // Bullet - list items
	IconEllipsis   = "⋯" // Midline ellipsis - truncated content
)

// ASCII fallbacks used when the sink reports no color/unicode capability.
const (
	asciiSuccess   = "ok"
	asciiError     = "x"
	asciiThinking  = "*"
	asciiTool      = ">"
	asciiResponse  = ">>"
	asciiUser      = ">"
	asciiEllipsis  = "..."
	asciiArrowsep  = "->"
	asciiPasteMark = "="
)

// PlainIcon maps a unicode glyph to its ASCII fallback. Unknown glyphs map
// to the empty string so degraded output carries no decoration at all.
func PlainIcon(icon string) string {
	switch icon {
	case IconSuccess, IconComplete:
		return asciiSuccess
	case IconError:
		return asciiError
	case IconThinking, IconPlanning, IconAnalyzing, IconExecuting:
		return asciiThinking
	case IconTool:
		return asciiTool
	case IconResponse:
		return asciiResponse
	case IconUser:
		return asciiUser
	case IconEllipsis:
		return asciiEllipsis
	case IconArrowRight:
		return asciiArrowsep
	case IconPaste:
		return asciiPasteMark
	default:
		return ""
	}
}

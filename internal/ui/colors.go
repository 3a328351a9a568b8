// Package ui provides the color palette, icon vocabulary, and lipgloss styles
// shared by the transcript renderer and the interactive commands.
package ui

import "github.com/charmbracelet/lipgloss"

// Color palette - a cohesive dark theme inspired by popular terminal themes.
var (
	// Primary colors
	ColorPrimary   = lipgloss.Color("#a78bfa") // Purple - main accent, responses
	ColorSecondary = lipgloss.Color("#67e8f9") // Cyan - secondary accent, analysis
	ColorTertiary  = lipgloss.Color("#fbbf24") // Amber - planning, warnings
	ColorSuccess   = lipgloss.Color("#22c55e") // Green - success states
	ColorError     = lipgloss.Color("#ef4444") // Red - errors, failures
	ColorMuted     = lipgloss.Color("#6b7280") // Gray - muted text
	ColorSubtle    = lipgloss.Color("#374151") // Dark gray - borders, separators

	// Text colors
	ColorText       = lipgloss.Color("#e5e7eb") // Light gray - main text
	ColorTextDim    = lipgloss.Color("#9ca3af") // Medium gray - dim text
	ColorTextBright = lipgloss.Color("#f9fafb") // White - bright text

	// Background colors
	ColorBgDark   = lipgloss.Color("#1f2937") // Dark background
	ColorBgSubtle = lipgloss.Color("#111827") // Darker background

	// Block-specific colors
	ColorToolName   = lipgloss.Color("#3b82f6") // Blue - tool names
	ColorDiffAdded  = lipgloss.Color("#4ade80") // Light green - inserted lines
	ColorDiffRemove = lipgloss.Color("#f87171") // Light red - deleted lines
	ColorParamPath  = lipgloss.Color("#67e8f9") // Cyan - path-like values
	ColorParamShell = lipgloss.Color("#4ade80") // Green - shell commands
	ColorParamRegex = lipgloss.Color("#f472b6") // Pink - search patterns
	ColorParamNum   = lipgloss.Color("#fbbf24") // Amber - numeric values
)

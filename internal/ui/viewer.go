package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ContentFunc renders viewer content for a width. The viewer calls it again
// whenever the window resizes or diff expansion is toggled.
type ContentFunc func(width int, expanded bool) string

// viewerKeyMap defines keybindings for the transcript viewer.
type viewerKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Diffs    key.Binding
	Quit     key.Binding
}

func defaultViewerKeyMap() viewerKeyMap {
	return viewerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "f", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		Diffs: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle diffs"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// TranscriptViewer is a bubbletea model that scrolls a rendered transcript.
// Content re-renders on resize and when diff expansion is toggled, so edit
// blocks can switch between elided and full context in place.
type TranscriptViewer struct {
	viewport viewport.Model
	keyMap   viewerKeyMap
	title    string
	info     string
	render   ContentFunc
	expanded bool
	ready    bool
	width    int
	height   int
}

// NewTranscriptViewer creates a viewer. The render function is consulted
// lazily; nothing renders until the first window size arrives.
func NewTranscriptViewer(title, info string, render ContentFunc) TranscriptViewer {
	return TranscriptViewer{
		keyMap: defaultViewerKeyMap(),
		title:  title,
		info:   info,
		render: render,
	}
}

// WithExpanded sets the initial diff expansion state.
func (m TranscriptViewer) WithExpanded(expanded bool) TranscriptViewer {
	m.expanded = expanded
	return m
}

// Expanded reports whether diff expansion is on.
func (m TranscriptViewer) Expanded() bool {
	return m.expanded
}

// Init implements tea.Model.
func (m TranscriptViewer) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m TranscriptViewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keyMap.Diffs):
			m.expanded = !m.expanded
			if m.ready {
				m.viewport.SetContent(m.render(m.viewport.Width, m.expanded))
			}

		case key.Matches(msg, m.keyMap.Top):
			m.viewport.GotoTop()

		case key.Matches(msg, m.keyMap.Bottom):
			m.viewport.GotoBottom()
		}

	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.headerView())
		footerHeight := lipgloss.Height(m.footerView())
		verticalMargin := headerHeight + footerHeight

		m.width = msg.Width
		m.height = msg.Height

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-verticalMargin)
			m.viewport.YPosition = headerHeight
			m.viewport.SetContent(m.render(msg.Width, m.expanded))
			m.viewport.MouseWheelEnabled = true
			m.viewport.MouseWheelDelta = 3
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - verticalMargin
			m.viewport.SetContent(m.render(msg.Width, m.expanded))
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m TranscriptViewer) View() string {
	if !m.ready {
		return "\n  Loading transcript..."
	}
	return fmt.Sprintf("%s\n%s\n%s", m.headerView(), m.viewport.View(), m.footerView())
}

// headerView renders the title line with a rule fill.
func (m TranscriptViewer) headerView() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	infoStyle := lipgloss.NewStyle().
		Foreground(ColorMuted)

	lineStyle := lipgloss.NewStyle().
		Foreground(ColorSubtle)

	title := titleStyle.Render(m.title)
	info := ""
	if m.info != "" {
		info = infoStyle.Render(" " + m.info)
	}

	contentWidth := lipgloss.Width(title) + lipgloss.Width(info)
	lineWidth := m.viewport.Width - contentWidth
	if lineWidth < 0 {
		lineWidth = 0
	}
	line := lineStyle.Render(strings.Repeat("─", lineWidth))

	return lipgloss.JoinHorizontal(lipgloss.Center, title, info, line)
}

// footerView renders scroll position, the diff mode, and key help.
func (m TranscriptViewer) footerView() string {
	lineStyle := lipgloss.NewStyle().
		Foreground(ColorSubtle)

	percentStyle := lipgloss.NewStyle().
		Foreground(ColorMuted)

	helpStyle := lipgloss.NewStyle().
		Foreground(ColorMuted)

	percent := percentStyle.Render(fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100))

	help := "↑/↓ scroll · d expand diffs · q quit"
	if m.expanded {
		help = "↑/↓ scroll · d collapse diffs · q quit"
	}
	helpText := helpStyle.Render(help)

	contentWidth := lipgloss.Width(percent) + lipgloss.Width(helpText) + 4
	lineWidth := m.viewport.Width - contentWidth
	if lineWidth < 0 {
		lineWidth = 0
	}
	line := lineStyle.Render(strings.Repeat("─", lineWidth))

	return lipgloss.JoinHorizontal(lipgloss.Center, percent, " ", line, " ", helpText)
}

// RunTranscriptViewer displays a transcript in a fullscreen viewport.
func RunTranscriptViewer(title, info string, expanded bool, render ContentFunc) error {
	viewer := NewTranscriptViewer(title, info, render).WithExpanded(expanded)

	p := tea.NewProgram(
		viewer,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}

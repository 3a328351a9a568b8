package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/input"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/event"
	"github.com/quillhq/quill/internal/paste"
	"github.com/quillhq/quill/internal/pipe"
	"github.com/quillhq/quill/internal/ui"
)

// Bracketed paste markers. With the mode on, a paste arrives as a single
// input event instead of a burst of keystrokes.
const (
	bracketedPasteOn  = "\x1b[?2004h"
	bracketedPasteOff = "\x1b[?2004l"
)

func newPromptCmd(cfgPath *string) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Compose user messages as an event stream",
		Long: `Read messages interactively and emit each one as a user event, one JSONL
line on stdout. All prompt decorations go to stderr, so the output pipes
cleanly into an agent process:

  quill prompt | my-agent --stdin-events

Multi-line pastes collapse to a one-line placeholder in the prompt; the
submitted message carries the full pasted text. Press ctrl+e to review
pending pastes before submitting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cfgPath, func(cfg config.Config) error {
				if pipe.IsStdinPiped() {
					return errors.New("prompt needs an interactive terminal on stdin")
				}
				return runPromptLoop(cmd.Context(), once)
			})
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "exit after the first submitted message")

	return cmd
}

// runPromptLoop reads messages until interrupted, emitting each submission
// as a user event on stdout.
func runPromptLoop(ctx context.Context, once bool) error {
	enc := event.NewEncoder(os.Stdout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)

	printPromptHeader()

	for {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr)
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		res, err := readMessage(ctx, sigChan)
		if err != nil {
			return err
		}
		if res.interrupted {
			fmt.Fprintln(os.Stderr)
			return nil
		}

		text := res.message()
		if strings.TrimSpace(text) == "" {
			continue
		}

		if err := enc.Encode(event.NewUser(text)); err != nil {
			return fmt.Errorf("write event: %w", err)
		}

		if once {
			return nil
		}
	}
}

func printPromptHeader() {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, headerStyle.Render("  quill prompt"))
	fmt.Fprintln(os.Stderr, mutedStyle.Render("  enter submits · ctrl+e shows pending pastes · ctrl+c exits"))
	fmt.Fprintln(os.Stderr)
}

// messageResult holds one composed message.
type messageResult struct {
	segments    []segment
	interrupted bool
}

// message joins typed text and pasted blocks in composition order.
func (m messageResult) message() string {
	var b strings.Builder
	for _, seg := range m.segments {
		b.WriteString(seg.text)
	}
	return b.String()
}

// readMessage reads one message in raw mode. Pastes arrive as bracketed
// paste events; multi-line ones echo as collapsed placeholders.
func readMessage(ctx context.Context, sigChan <-chan os.Signal) (messageResult, error) {
	oldState, err := term.MakeRaw(os.Stdin.Fd())
	if err != nil {
		return messageResult{}, fmt.Errorf("enter raw mode: %w", err)
	}
	defer term.Restore(os.Stdin.Fd(), oldState)

	fmt.Fprint(os.Stderr, bracketedPasteOn)
	defer fmt.Fprint(os.Stderr, bracketedPasteOff)

	drv, err := input.NewReader(os.Stdin, os.Getenv("TERM"), 0)
	if err != nil {
		return messageResult{}, fmt.Errorf("create input reader: %w", err)
	}
	defer drv.Close()

	var msg composer
	msg.redraw()

	for {
		select {
		case <-ctx.Done():
			return messageResult{interrupted: true}, nil
		case <-sigChan:
			return messageResult{interrupted: true}, nil
		default:
		}

		evs, err := drv.ReadEvents()
		if err != nil {
			return messageResult{}, err
		}

		for _, ev := range evs {
			switch ev := ev.(type) {
			case input.PasteEvent:
				msg.paste(string(ev))
				msg.redraw()

			case input.KeyPressEvent:
				keyStr := ev.String()

				switch keyStr {
				case "ctrl+c":
					return messageResult{interrupted: true}, nil

				case "ctrl+d":
					if msg.empty() {
						return messageResult{interrupted: true}, nil
					}

				case "ctrl+e":
					msg.showPastes()
					msg.redraw()

				case "enter":
					fmt.Fprint(os.Stderr, "\r\n")
					return messageResult{segments: msg.segments}, nil

				case "backspace":
					msg.backspace()
					msg.redraw()

				case "space":
					msg.typeText(" ")

				case "tab":
					msg.typeText("\t")

				default:
					if len(keyStr) == 1 && keyStr[0] >= 32 && keyStr[0] < 127 {
						msg.typeText(keyStr)
					} else if len(ev.Text) > 0 {
						msg.typeText(ev.Text)
					}
				}
			}
		}
	}
}

// segment is one run of a composed message: either typed text or a pasted
// block that echoes as a placeholder.
type segment struct {
	text    string
	isPaste bool
}

// composer accumulates one message as typed text interleaved with pasted
// blocks, echoing to stderr as it goes.
type composer struct {
	segments []segment
}

func (c *composer) typeText(s string) {
	if n := len(c.segments); n > 0 && !c.segments[n-1].isPaste {
		c.segments[n-1].text += s
	} else {
		c.segments = append(c.segments, segment{text: s})
	}
	fmt.Fprint(os.Stderr, s)
}

func (c *composer) paste(text string) {
	if text == "" {
		return
	}
	if !paste.IsMultiline(text) {
		// A single-line paste behaves like typing.
		c.appendTyped(strings.TrimRight(text, "\r\n"))
		return
	}
	c.segments = append(c.segments, segment{text: text, isPaste: true})
}

// appendTyped adds text to the buffer without echoing; the caller redraws.
func (c *composer) appendTyped(s string) {
	if s == "" {
		return
	}
	if n := len(c.segments); n > 0 && !c.segments[n-1].isPaste {
		c.segments[n-1].text += s
	} else {
		c.segments = append(c.segments, segment{text: s})
	}
}

func (c *composer) backspace() {
	n := len(c.segments)
	if n == 0 {
		return
	}
	last := &c.segments[n-1]
	if last.isPaste || last.text == "" {
		// Deleting into a placeholder removes the whole paste.
		c.segments = c.segments[:n-1]
		return
	}
	_, size := utf8.DecodeLastRuneInString(last.text)
	last.text = last.text[:len(last.text)-size]
	if last.text == "" {
		c.segments = c.segments[:n-1]
	}
}

func (c *composer) empty() bool {
	for _, seg := range c.segments {
		if seg.isPaste || strings.TrimSpace(seg.text) != "" {
			return false
		}
	}
	return true
}

// redraw repaints the single prompt line, rendering paste segments as
// collapsed placeholders.
func (c *composer) redraw() {
	glyphStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("141"))

	fmt.Fprint(os.Stderr, "\r\x1b[K")
	fmt.Fprint(os.Stderr, glyphStyle.Render(ui.IconUser+" "))
	for _, seg := range c.segments {
		if seg.isPaste {
			fmt.Fprint(os.Stderr, pastePlaceholder(seg.text))
			continue
		}
		fmt.Fprint(os.Stderr, seg.text)
	}
}

// showPastes prints each pending paste in full, the expand affordance for
// the collapsed placeholders.
func (c *composer) showPastes() {
	ruleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	n := 0
	for _, seg := range c.segments {
		if !seg.isPaste {
			continue
		}
		n++
		fmt.Fprintf(os.Stderr, "\r\n%s\r\n", ruleStyle.Render(fmt.Sprintf("--- paste %d ---", n)))
		body := strings.TrimRight(seg.text, "\n")
		// Raw mode needs explicit carriage returns.
		fmt.Fprint(os.Stderr, strings.ReplaceAll(body, "\n", "\r\n"))
		fmt.Fprint(os.Stderr, "\r\n")
	}
	if n == 0 {
		fmt.Fprintf(os.Stderr, "\r\n%s\r\n", ruleStyle.Render("no pending pastes"))
	}
}

func pastePlaceholder(text string) string {
	placeholderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	s := paste.Summarize(text)
	return placeholderStyle.Render(fmt.Sprintf("[%s %d lines, %d chars]", ui.IconPaste, s.LineCount, s.CharCount))
}

package render

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Sink is an appendable output stream. The renderer queries width and color
// capability before formatting each block and never repositions the cursor,
// so any append-only byte stream qualifies. A write error is fatal to the
// session; there is no buffering or retry layer behind a sink.
type Sink interface {
	Write(block string) error
	Width() int
	Color() bool
}

// TerminalSink writes to a file-backed stream, answering live width queries
// when the stream is a terminal and falling back to a fixed width when not.
type TerminalSink struct {
	w        io.Writer
	file     *os.File
	color    bool
	fallback int
}

// NewTerminalSink wraps a writer. Color is enabled only when the writer is
// a real terminal and the environment does not opt out via NO_COLOR or
// TERM=dumb.
func NewTerminalSink(w io.Writer, fallbackWidth int) *TerminalSink {
	if fallbackWidth <= 0 {
		fallbackWidth = 80
	}
	s := &TerminalSink{w: w, fallback: fallbackWidth}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		s.file = f
		s.color = colorEnabled()
	}
	return s
}

func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return true
}

// Width returns the current terminal width, re-read on every call so
// resizes take effect on the next block.
func (s *TerminalSink) Width() int {
	if s.file != nil {
		if w, _, err := term.GetSize(int(s.file.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return s.fallback
}

// Color reports whether the sink accepts ANSI styling.
func (s *TerminalSink) Color() bool {
	return s.color
}

// Write appends one block to the stream.
func (s *TerminalSink) Write(block string) error {
	if _, err := io.WriteString(s.w, block); err != nil {
		return fmt.Errorf("write block: %w", err)
	}
	return nil
}

// PlainSink is a fixed-width, colorless sink for piped output and captures.
type PlainSink struct {
	w     io.Writer
	width int
}

// NewPlainSink wraps a writer with a fixed width and no color capability.
func NewPlainSink(w io.Writer, width int) *PlainSink {
	if width <= 0 {
		width = 80
	}
	return &PlainSink{w: w, width: width}
}

func (s *PlainSink) Width() int {
	return s.width
}

func (s *PlainSink) Color() bool {
	return false
}

func (s *PlainSink) Write(block string) error {
	if _, err := io.WriteString(s.w, block); err != nil {
		return fmt.Errorf("write block: %w", err)
	}
	return nil
}

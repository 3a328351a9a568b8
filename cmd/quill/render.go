package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/bridge"
	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/event"
	"github.com/quillhq/quill/internal/pipe"
	"github.com/quillhq/quill/internal/render"
	"github.com/quillhq/quill/internal/transcript"
)

const (
	formatJSONL   = "jsonl"
	formatFantasy = "fantasy"
)

// renderOptions carries the render command's flags.
type renderOptions struct {
	width       int
	noColor     bool
	expandDiffs bool
	record      bool
	format      string
	title       string
}

func newRenderCmd(cfgPath *string) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render an event stream as a transcript",
		Long: `Render a recorded or piped event stream as a terminal transcript.

The default input format is quill's own JSONL event stream, one kind-tagged
event per line. Use --format fantasy to import an exported agent
conversation instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cfgPath, func(cfg config.Config) error {
				in := cmd.InOrStdin()
				if len(args) == 1 {
					f, err := os.Open(args[0])
					if err != nil {
						return err
					}
					defer f.Close()
					in = f
					if opts.title == "" {
						opts.title = filepath.Base(args[0])
					}
				} else if !pipe.IsStdinPiped() {
					return errors.New("no input: pass a file or pipe events on stdin")
				}
				return renderStream(cmd, cfg, in, opts)
			})
		},
	}

	cmd.Flags().IntVar(&opts.width, "width", 0, "force output width in columns")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable color output")
	cmd.Flags().BoolVar(&opts.expandDiffs, "expand-diffs", false, "show every unchanged line in edit diffs")
	cmd.Flags().BoolVar(&opts.record, "record", false, "persist the rendered session to the transcript store")
	cmd.Flags().StringVar(&opts.title, "title", "", "session title when recording")
	cmd.Flags().StringVar(&opts.format, "format", formatJSONL, "input format: jsonl or fantasy")

	return cmd
}

// renderStream drives the renderer over one input stream. It owns the full
// lifecycle: sink selection, optional recording, feeding, and shutdown.
func renderStream(cmd *cobra.Command, cfg config.Config, in io.Reader, opts renderOptions) error {
	if opts.format != formatJSONL && opts.format != formatFantasy {
		return fmt.Errorf("unknown input format %q (want %s or %s)", opts.format, formatJSONL, formatFantasy)
	}

	sink := buildSink(cmd.OutOrStdout(), cfg, opts)

	var recorder render.Recorder
	if opts.record || cfg.RecordSessions {
		store, err := transcript.Open(cmd.Context(), cfg.Database())
		if err != nil {
			return fmt.Errorf("open transcript store: %w", err)
		}
		defer store.Close()

		rec, err := openRecorder(cmd, store, sink, opts)
		if err != nil {
			return err
		}
		recorder = rec
		defer fmt.Fprintf(cmd.ErrOrStderr(), "recorded session %s\n", rec.SessionID()[:8])
	}

	r := render.New(render.Options{
		Config:      cfg,
		Sink:        sink,
		Recorder:    recorder,
		ExpandDiffs: opts.expandDiffs,
	})
	r.Start()

	var feedErr error
	switch opts.format {
	case formatJSONL:
		feedErr = feedJSONL(r, in)
	case formatFantasy:
		feedErr = feedFantasy(r, in)
	}

	stopErr := r.Stop(cmd.Context())
	if feedErr != nil {
		return feedErr
	}
	return stopErr
}

// openRecorder starts a fresh session, or resumes the one named by the
// QUILL_SESSION pipeline context when an orchestrator exported it.
func openRecorder(cmd *cobra.Command, store *transcript.Store, sink render.Sink, opts renderOptions) (*transcript.Recorder, error) {
	if sc := pipe.GetSessionContext(); sc != nil {
		rec, err := store.Resume(cmd.Context(), sc.SessionID)
		if err != nil {
			return nil, fmt.Errorf("resume session %s: %w", sc.SessionID, err)
		}
		return rec, nil
	}
	rec, err := store.StartSession(cmd.Context(), transcript.StartParams{
		Title: opts.title,
		Width: sink.Width(),
		Color: sink.Color(),
	})
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return rec, nil
}

// feedJSONL enqueues events from a JSONL stream. Malformed lines surface as
// error blocks in the transcript; the stream keeps going.
func feedJSONL(r *render.Renderer, in io.Reader) error {
	dec := event.NewDecoder(in)
	for {
		e, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var derr *event.DecodeError
			if errors.As(err, &derr) {
				r.Enqueue(event.NewError(derr.Error()))
				continue
			}
			return err
		}
		r.Enqueue(e)
		if rerr := r.Err(); rerr != nil {
			return rerr
		}
	}
}

// feedFantasy decodes an exported conversation and enqueues the
// corresponding events.
func feedFantasy(r *render.Renderer, in io.Reader) error {
	msgs, err := bridge.DecodeConversation(in)
	if err != nil {
		return fmt.Errorf("decode conversation: %w", err)
	}
	for _, e := range bridge.EventsFromMessages(msgs) {
		r.Enqueue(e)
	}
	return nil
}

// buildSink picks the output sink. A forced width or piped stdout gets the
// fixed-width plain sink; an interactive terminal answers live width
// queries so resizes take effect mid-session.
func buildSink(out io.Writer, cfg config.Config, opts renderOptions) render.Sink {
	if opts.width > 0 || pipe.IsStdoutPiped() {
		width := opts.width
		if width <= 0 {
			width = cfg.FallbackWidth
		}
		return render.NewPlainSink(out, width)
	}
	sink := render.NewTerminalSink(out, cfg.FallbackWidth)
	if opts.noColor {
		return monoSink{sink}
	}
	return sink
}

// monoSink strips color capability from a sink while keeping its live
// width queries.
type monoSink struct {
	render.Sink
}

func (monoSink) Color() bool { return false }

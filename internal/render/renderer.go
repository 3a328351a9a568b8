// Package render orchestrates the streaming transcript. A single worker
// goroutine drains an unbounded event queue, deduplicates thought
// fragments, formats each event, and appends the result to the output
// sink. Output is append-only: previously written content is never
// rewritten or erased.
package render

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/dedup"
	"github.com/quillhq/quill/internal/event"
	"github.com/quillhq/quill/internal/format"
	"github.com/quillhq/quill/internal/log"
	"github.com/quillhq/quill/internal/ui"
)

// Recorder observes renderer activity for persistence. Calls happen on the
// render worker, so implementations must not block for long.
type Recorder interface {
	RecordEvent(e event.Event, block string)
	RecordSuppression(fragment, reason string)
}

// kindFlush is an internal queue marker that forces the open streaming
// message to be written. It keeps explicit flushes ordered with respect to
// previously enqueued events.
const kindFlush event.Kind = "__flush"

// Options configures a Renderer. A nil Sink falls back to stdout; a nil
// Recorder disables persistence.
type Options struct {
	Config   config.Config
	Sink     Sink
	Recorder Recorder

	// ExpandDiffs renders every unchanged line in edit diffs instead of
	// eliding long runs.
	ExpandDiffs bool
}

// openMessage is the currently accumulating streaming message. Owned by
// the worker goroutine.
type openMessage struct {
	kind     event.Kind
	text     strings.Builder
	first    time.Time
	last     time.Time
	firstSeq int64
}

// Renderer is the transcript orchestrator. Producers enqueue events from
// any goroutine; one worker processes each event fully (dedup, format,
// write) before accepting the next.
type Renderer struct {
	sink   Sink
	fmtr   *format.Formatter
	filter *dedup.Filter
	rec    Recorder
	logger *log.Entry

	mu      sync.Mutex
	queue   []event.Event
	seq     int64
	stopped bool
	err     error

	wake chan struct{}
	done chan struct{}

	open *openMessage
}

// New builds a Renderer. Style and icon degradation follow the sink's
// color capability. Call Start exactly once before enqueueing.
func New(opts Options) *Renderer {
	cfg := opts.Config
	if cfg.FallbackWidth <= 0 {
		cfg = config.Default()
	}

	sink := opts.Sink
	if sink == nil {
		sink = NewTerminalSink(os.Stdout, cfg.FallbackWidth)
	}

	styles, plain := ui.DefaultStyles(), false
	if !sink.Color() {
		styles, plain = ui.PlainStyles(), true
	}

	fmtr := format.New(styles, plain)
	if opts.ExpandDiffs {
		fmtr = fmtr.WithExpandedDiffs()
	}

	var onSuppress func(fragment, reason string)
	if opts.Recorder != nil {
		onSuppress = opts.Recorder.RecordSuppression
	}

	return &Renderer{
		sink: sink,
		fmtr: fmtr,
		filter: dedup.New(dedup.Options{
			Threshold:   cfg.SimilarityThreshold,
			Window:      cfg.DedupWindow(),
			MinWords:    cfg.MinThoughtWords,
			MinChars:    cfg.MinThoughtChars,
			DenyPhrases: cfg.DenyPhrases,
			OnSuppress:  onSuppress,
		}),
		rec:    opts.Recorder,
		logger: log.Named("render"),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Start spawns the worker goroutine that drains the queue.
func (r *Renderer) Start() {
	go r.run()
}

// Enqueue adds an event to the render queue and returns immediately. The
// queue is unbounded: enqueue never blocks and never drops. Events
// enqueued after Stop are ignored.
func (r *Renderer) Enqueue(e event.Event) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.seq++
	e.Seq = r.seq
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	r.queue = append(r.queue, e)
	r.mu.Unlock()
	r.notify()
}

// Flush forces the open streaming message to be written once every event
// enqueued before it has been processed.
func (r *Renderer) Flush() {
	r.Enqueue(event.Event{Kind: kindFlush})
}

// Stop drains the queue, flushes any accumulating message rather than
// dropping it, and shuts the worker down. It returns the sink write error
// that halted rendering, if any, or ctx.Err() when the drain outlives the
// context.
func (r *Renderer) Stop(ctx context.Context) error {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
	r.notify()

	select {
	case <-r.done:
		return r.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err reports the sink write failure that halted the renderer, if any.
// Sink failures are fatal to the session; the host should stop producing
// events once Err is non-nil.
func (r *Renderer) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Renderer) notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Renderer) run() {
	defer close(r.done)
	for {
		for {
			e, ok := r.next()
			if !ok {
				break
			}
			if err := r.process(e); err != nil {
				r.fail(err)
				return
			}
		}
		if r.stopping() {
			if err := r.flushOpen(); err != nil {
				r.fail(err)
			}
			return
		}
		<-r.wake
	}
}

func (r *Renderer) next() (event.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return event.Event{}, false
	}
	e := r.queue[0]
	r.queue = r.queue[1:]
	if len(r.queue) == 0 {
		r.queue = nil
	}
	return e, true
}

func (r *Renderer) stopping() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped && len(r.queue) == 0
}

func (r *Renderer) fail(err error) {
	r.logger.WithError(err).Error("sink write failed, halting renderer")
	r.mu.Lock()
	if r.err == nil {
		r.err = err
	}
	r.stopped = true
	r.mu.Unlock()
}

// accumulates reports whether a kind participates in streaming
// accumulation. Tool events always arrive complete.
func accumulates(kind event.Kind) bool {
	return kind == event.KindThought || kind == event.KindResponse
}

// process runs the state machine for one event: accumulate streaming
// fragments, implicitly flush the open message when a different kind
// arrives, then dedup, format, and write.
func (r *Renderer) process(e event.Event) error {
	if e.Kind == kindFlush {
		return r.flushOpen()
	}

	if accumulates(e.Kind) && e.Streaming {
		if r.open != nil && r.open.kind != e.Kind {
			if err := r.flushOpen(); err != nil {
				return err
			}
		}
		if r.open == nil {
			r.open = &openMessage{kind: e.Kind, first: e.Time, firstSeq: e.Seq}
		}
		r.open.text.WriteString(e.Text)
		r.open.last = e.Time
		return nil
	}

	if r.open != nil {
		if accumulates(e.Kind) && r.open.kind == e.Kind {
			// Terminal fragment: complete and flush as one block.
			r.open.text.WriteString(e.Text)
			r.open.last = e.Time
			return r.flushOpen()
		}
		if err := r.flushOpen(); err != nil {
			return err
		}
	}

	return r.write(e, 0)
}

func (r *Renderer) flushOpen() error {
	if r.open == nil {
		return nil
	}
	open := r.open
	r.open = nil

	e := event.Event{
		Kind: open.kind,
		Seq:  open.firstSeq,
		Time: open.last,
		Text: open.text.String(),
	}
	return r.write(e, open.last.Sub(open.first))
}

func (r *Renderer) write(e event.Event, dur time.Duration) error {
	if e.Kind == event.KindThought && !r.filter.ShouldRender(e.Text, e.Time) {
		return nil
	}

	width := r.sink.Width()
	var block string
	if e.Kind == event.KindThought {
		block = r.fmtr.Thought(e.Text, dur, width)
	} else {
		block = r.fmtr.Format(e, width)
	}
	if block == "" {
		return nil
	}

	if err := r.sink.Write(block + "\n"); err != nil {
		return err
	}
	if r.rec != nil {
		r.rec.RecordEvent(e, block)
	}
	return nil
}

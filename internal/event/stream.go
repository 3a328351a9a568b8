package event

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// maxLineBytes bounds a single stream line. Edit payloads carry full file
// blobs, so the limit is generous.
const maxLineBytes = 16 * 1024 * 1024

// DecodeError reports a malformed stream line. The decoder recovers and
// continues with the next line, so callers can surface the error and keep
// reading.
type DecodeError struct {
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode event at line %d: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decoder reads a JSONL event stream, one kind-tagged event per line.
type Decoder struct {
	scanner *bufio.Scanner
	line    int
}

// NewDecoder creates a stream decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &Decoder{scanner: scanner}
}

// Next returns the next event in the stream. It returns io.EOF at the end
// of the stream and *DecodeError for a malformed line; after a DecodeError
// the decoder is positioned at the following line.
func (d *Decoder) Next() (Event, error) {
	for d.scanner.Scan() {
		d.line++
		raw := bytes.TrimSpace(d.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		e, err := Unmarshal(raw)
		if err != nil {
			return Event{}, &DecodeError{Line: d.line, Err: err}
		}
		return e, nil
	}
	if err := d.scanner.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}

// Encoder writes events as a JSONL stream.
type Encoder struct {
	w *bufio.Writer
}

// NewEncoder creates a stream encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// Encode writes one event as a single line and flushes it, so pipeline
// consumers see events as they are produced.
func (e *Encoder) Encode(ev Event) error {
	data, err := Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(data); err != nil {
		return err
	}
	if err := e.w.WriteByte('\n'); err != nil {
		return err
	}
	return e.w.Flush()
}

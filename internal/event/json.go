package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// textPayload carries the body of thought, response, error, and user events.
type textPayload struct {
	Text string `json:"text"`
}

// eventWrapper tags the payload with its kind for JSON serialization.
type eventWrapper struct {
	Kind      Kind            `json:"kind"`
	Seq       int64           `json:"seq,omitempty"`
	Time      time.Time       `json:"time"`
	Streaming bool            `json:"streaming,omitempty"`
	Data      json.RawMessage `json:"data"`
}

// Marshal serializes an event to its kind-tagged JSON form.
func Marshal(e Event) ([]byte, error) {
	var payload any
	switch e.Kind {
	case KindThought, KindResponse, KindError, KindUser:
		payload = textPayload{Text: e.Text}
	case KindToolCall:
		if e.Tool == nil {
			return nil, fmt.Errorf("tool-call event has no tool payload")
		}
		payload = e.Tool
	case KindToolResult:
		if e.Result == nil {
			return nil, fmt.Errorf("tool-result event has no result payload")
		}
		payload = e.Result
	default:
		return nil, fmt.Errorf("unknown event kind: %s", e.Kind)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(eventWrapper{
		Kind:      e.Kind,
		Seq:       e.Seq,
		Time:      e.Time,
		Streaming: e.Streaming,
		Data:      data,
	})
}

// Unmarshal deserializes a kind-tagged JSON event.
func Unmarshal(data []byte) (Event, error) {
	var wrapper eventWrapper
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return Event{}, err
	}

	e := Event{
		Kind:      wrapper.Kind,
		Seq:       wrapper.Seq,
		Time:      wrapper.Time,
		Streaming: wrapper.Streaming,
	}

	switch wrapper.Kind {
	case KindThought, KindResponse, KindError, KindUser:
		var p textPayload
		if err := json.Unmarshal(wrapper.Data, &p); err != nil {
			return Event{}, err
		}
		e.Text = p.Text
	case KindToolCall:
		var p ToolCall
		if err := json.Unmarshal(wrapper.Data, &p); err != nil {
			return Event{}, err
		}
		e.Tool = &p
	case KindToolResult:
		var p ToolResult
		if err := json.Unmarshal(wrapper.Data, &p); err != nil {
			return Event{}, err
		}
		e.Result = &p
	default:
		return Event{}, fmt.Errorf("unknown event kind: %s", wrapper.Kind)
	}

	return e, nil
}

// paramPair is the canonical wire form of one parameter.
type paramPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// MarshalJSON writes parameters as an ordered array of key/value pairs.
func (ps ParamList) MarshalJSON() ([]byte, error) {
	pairs := make([]paramPair, len(ps))
	for i, p := range ps {
		pairs[i] = paramPair(p)
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON accepts either the canonical pair array or a plain JSON
// object. Object keys keep document order; non-string values are preserved
// as their compact JSON source text so embedded quotes, escapes, and nested
// delimiters survive intact.
func (ps *ParamList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*ps = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var pairs []paramPair
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return err
		}
		out := make(ParamList, len(pairs))
		for i, pair := range pairs {
			out[i] = Param(pair)
		}
		*ps = out
		return nil

	case '{':
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		if _, err := dec.Token(); err != nil {
			return err
		}
		var out ParamList
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			key, ok := keyTok.(string)
			if !ok {
				return fmt.Errorf("unexpected parameter key token: %v", keyTok)
			}
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return err
			}
			out = append(out, Param{Key: key, Value: rawValueString(raw)})
		}
		*ps = out
		return nil
	}

	return fmt.Errorf("parameters must be an object or a pair array")
}

// rawValueString renders a JSON value as a display string: strings are
// unquoted, everything else keeps its JSON source text.
func rawValueString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

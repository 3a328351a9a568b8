// Package event defines the typed events the transcript renderer consumes.
package event

import "time"

// Kind identifies the event variant.
type Kind string

const (
	KindThought    Kind = "thought"
	KindToolCall   Kind = "tool-call"
	KindToolResult Kind = "tool-result"
	KindResponse   Kind = "response"
	KindError      Kind = "error"
	KindUser       Kind = "user"
)

// Valid reports whether k names a known event kind.
func (k Kind) Valid() bool {
	switch k {
	case KindThought, KindToolCall, KindToolResult, KindResponse, KindError, KindUser:
		return true
	}
	return false
}

// Event is one atomic unit of renderer input. Events are immutable once
// created: build them with the constructors and treat fields as read-only.
//
// Exactly one payload is populated per kind: Text for thought, response,
// error, and user events; Tool for tool-call; Result for tool-result.
type Event struct {
	Kind Kind

	// Seq is a monotonically increasing integer assigned at enqueue time.
	// It defines the total display order.
	Seq int64

	// Time is the creation time, consumed only by the dedup window.
	Time time.Time

	// Streaming marks a partial fragment of a still-open logical message.
	// The terminal fragment carries Streaming == false.
	Streaming bool

	Text   string
	Tool   *ToolCall
	Result *ToolResult
}

// ToolCall describes a tool invocation.
type ToolCall struct {
	Name   string    `json:"name"`
	Params ParamList `json:"params,omitempty"`
}

// Param is one tool parameter. Order is preserved from the producer.
type Param struct {
	Key   string
	Value string
}

// ParamList is an ordered list of tool parameters.
type ParamList []Param

// ToolResult describes the outcome of a tool invocation.
type ToolResult struct {
	Name         string        `json:"name"`
	Output       string        `json:"output,omitempty"`
	Failed       bool          `json:"failed,omitempty"`
	DurationSecs float64       `json:"duration_secs,omitempty"`
	Edit         *EditMetadata `json:"edit,omitempty"`
}

// EditMetadata is attached to a tool result when the tool edited a file.
// Before and After are independently complete blobs, never deltas; the
// diff engine derives the delta.
type EditMetadata struct {
	FilePath string `json:"file_path"`
	Before   string `json:"before"`
	After    string `json:"after"`
}

// NewThought creates a thought event.
func NewThought(text string) Event {
	return Event{Kind: KindThought, Time: time.Now(), Text: text}
}

// NewResponse creates a response event. Streaming fragments carry
// streaming == true; the terminal fragment closes the logical message.
func NewResponse(text string, streaming bool) Event {
	return Event{Kind: KindResponse, Time: time.Now(), Streaming: streaming, Text: text}
}

// NewError creates an error event.
func NewError(text string) Event {
	return Event{Kind: KindError, Time: time.Now(), Text: text}
}

// NewUser creates a user-message event.
func NewUser(text string) Event {
	return Event{Kind: KindUser, Time: time.Now(), Text: text}
}

// NewToolCall creates a tool-call event.
func NewToolCall(name string, params ParamList) Event {
	return Event{
		Kind: KindToolCall,
		Time: time.Now(),
		Tool: &ToolCall{Name: name, Params: params},
	}
}

// NewToolResult creates a tool-result event.
func NewToolResult(result ToolResult) Event {
	return Event{Kind: KindToolResult, Time: time.Now(), Result: &result}
}

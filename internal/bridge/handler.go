// Package bridge adapts fantasy agent streams to renderer events, so a
// fantasy-based host can point its stream at a quill renderer without
// knowing quill's event types.
package bridge

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"charm.land/fantasy"
	"github.com/sirupsen/logrus"

	"github.com/quillhq/quill/internal/event"
	"github.com/quillhq/quill/internal/log"
	"github.com/quillhq/quill/internal/render"
)

// Handler translates streaming callbacks into renderer events. Callbacks
// return the renderer's sink error once rendering has failed, which lets
// the host stop its stream loop.
type Handler struct {
	renderer *render.Renderer
	logger   *logrus.Entry
	calls    map[string]string // tool-call ID -> tool name
}

// NewHandler creates a handler that drives r.
func NewHandler(r *render.Renderer) *Handler {
	return &Handler{
		renderer: r,
		logger:   log.Named("bridge"),
		calls:    make(map[string]string),
	}
}

func (h *Handler) OnTextDelta(id, text string) error {
	h.renderer.Enqueue(event.NewResponse(text, true))
	return h.renderer.Err()
}

func (h *Handler) OnTextEnd(id string) error {
	h.renderer.Flush()
	return h.renderer.Err()
}

func (h *Handler) OnReasoningStart(id string) error {
	// The first delta opens the thought block.
	return nil
}

func (h *Handler) OnReasoningDelta(id, text string) error {
	e := event.NewThought(text)
	e.Streaming = true
	h.renderer.Enqueue(e)
	return h.renderer.Err()
}

func (h *Handler) OnReasoningEnd(id string, duration time.Duration) error {
	h.renderer.Flush()
	return h.renderer.Err()
}

func (h *Handler) OnToolCall(tc fantasy.ToolCallContent) error {
	h.calls[tc.ToolCallID] = tc.ToolName
	h.renderer.Enqueue(event.NewToolCall(tc.ToolName, paramsFromInput(tc.Input)))
	return h.renderer.Err()
}

func (h *Handler) OnToolResult(result fantasy.ToolResultContent, duration time.Duration) error {
	name := result.ToolName
	if name == "" {
		name = h.calls[result.ToolCallID]
	}
	delete(h.calls, result.ToolCallID)

	res := event.ToolResult{
		Name:         name,
		Output:       resultText(result),
		Failed:       result.Result != nil && result.Result.GetType() == fantasy.ToolResultContentTypeError,
		DurationSecs: duration.Seconds(),
	}
	res.Edit = editFromMetadata(result.ClientMetadata)

	h.renderer.Enqueue(event.NewToolResult(res))
	return h.renderer.Err()
}

func (h *Handler) OnAgentStart(handle, prompt string) error {
	h.logger.WithField("agent", handle).Debug("sub-agent started")
	return nil
}

func (h *Handler) OnAgentEnd(handle string, duration time.Duration, err error) error {
	h.logger.WithFields(logrus.Fields{
		"agent":    handle,
		"duration": duration,
		"failed":   err != nil,
	}).Debug("sub-agent finished")
	return nil
}

func (h *Handler) OnMemoryEvent(name string, count int) error {
	h.logger.WithFields(logrus.Fields{"event": name, "count": count}).Debug("memory event")
	return nil
}

func (h *Handler) OnError(err error) error {
	h.renderer.Enqueue(event.NewError(err.Error()))
	return h.renderer.Err()
}

// paramsFromInput parses a tool input JSON object into ordered parameters.
// Input that is not a JSON object is kept verbatim under a single key.
func paramsFromInput(input string) event.ParamList {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	var params event.ParamList
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return event.ParamList{{Key: "input", Value: input}}
	}
	return params
}

func resultText(result fantasy.ToolResultContent) string {
	if result.Result == nil {
		return ""
	}
	switch result.Result.GetType() {
	case fantasy.ToolResultContentTypeText:
		if r, ok := fantasy.AsToolResultOutputType[fantasy.ToolResultOutputContentText](result.Result); ok {
			return r.Text
		}
	case fantasy.ToolResultContentTypeError:
		if r, ok := fantasy.AsToolResultOutputType[fantasy.ToolResultOutputContentError](result.Result); ok {
			return r.Error.Error()
		}
	case fantasy.ToolResultContentTypeMedia:
		if r, ok := fantasy.AsToolResultOutputType[fantasy.ToolResultOutputContentMedia](result.Result); ok {
			if r.Text != "" {
				return r.Text
			}
			return fmt.Sprintf("[media: %s]", r.MediaType)
		}
	}
	return ""
}

// editMetadata is the shape file-editing tools attach to their result
// metadata: the full before and after blobs plus the path.
type editMetadata struct {
	FilePath string  `json:"file_path"`
	Before   *string `json:"before"`
	After    *string `json:"after"`
}

func editFromMetadata(raw string) *event.EditMetadata {
	if raw == "" {
		return nil
	}
	var meta editMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil
	}
	if meta.FilePath == "" || (meta.Before == nil && meta.After == nil) {
		return nil
	}
	edit := &event.EditMetadata{FilePath: meta.FilePath}
	if meta.Before != nil {
		edit.Before = *meta.Before
	}
	if meta.After != nil {
		edit.After = *meta.After
	}
	return edit
}

package bridge

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"charm.land/fantasy"

	"github.com/quillhq/quill/internal/event"
)

// EventsFromMessages converts a finished fantasy conversation into renderer
// events in display order. System messages are skipped; tool names for
// results are resolved from the preceding calls.
func EventsFromMessages(msgs []fantasy.Message) []event.Event {
	var events []event.Event
	names := make(map[string]string)

	for _, msg := range msgs {
		if msg.Role == fantasy.MessageRoleSystem {
			continue
		}
		isUser := msg.Role == fantasy.MessageRoleUser

		for _, part := range msg.Content {
			switch p := part.(type) {
			case fantasy.TextPart:
				if strings.TrimSpace(p.Text) == "" {
					continue
				}
				if isUser {
					events = append(events, event.NewUser(p.Text))
				} else {
					events = append(events, event.NewResponse(p.Text, false))
				}
			case fantasy.ReasoningPart:
				if strings.TrimSpace(p.Text) != "" {
					events = append(events, event.NewThought(p.Text))
				}
			case fantasy.ToolCallPart:
				names[p.ToolCallID] = p.ToolName
				events = append(events, event.NewToolCall(p.ToolName, paramsFromInput(p.Input)))
			case fantasy.ToolResultPart:
				res := event.ToolResult{Name: names[p.ToolCallID]}
				switch out := p.Output.(type) {
				case fantasy.ToolResultOutputContentText:
					res.Output = out.Text
				case fantasy.ToolResultOutputContentError:
					res.Output = out.Error.Error()
					res.Failed = true
				case fantasy.ToolResultOutputContentMedia:
					res.Output = out.Text
				}
				events = append(events, event.NewToolResult(res))
			}
		}
	}
	return events
}

// Exported conversations carry one message per element with kind-tagged
// parts, the same tagged-union shape used for persisted message content.
type exportMessage struct {
	Role  string       `json:"role"`
	Parts []exportPart `json:"parts"`
}

type exportPart struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type exportText struct {
	Text string `json:"text"`
}

type exportToolCall struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Input string `json:"input"`
}

type exportToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error,omitempty"`
}

type exportFile struct {
	Filename  string `json:"filename"`
	Data      []byte `json:"data"`
	MediaType string `json:"media_type"`
}

// DecodeConversation reads an exported conversation, a JSON array of
// messages with kind-tagged parts, and rebuilds the fantasy messages.
func DecodeConversation(r io.Reader) ([]fantasy.Message, error) {
	var raw []exportMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode conversation: %w", err)
	}

	msgs := make([]fantasy.Message, 0, len(raw))
	for i, m := range raw {
		msg := fantasy.Message{Role: roleFromString(m.Role)}
		for _, part := range m.Parts {
			fp, err := partFromExport(part)
			if err != nil {
				return nil, fmt.Errorf("message %d: %w", i, err)
			}
			if fp != nil {
				msg.Content = append(msg.Content, fp)
			}
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func partFromExport(part exportPart) (fantasy.MessagePart, error) {
	switch part.Type {
	case "text":
		var p exportText
		if err := json.Unmarshal(part.Data, &p); err != nil {
			return nil, fmt.Errorf("text part: %w", err)
		}
		return fantasy.TextPart{Text: p.Text}, nil
	case "reasoning":
		var p exportText
		if err := json.Unmarshal(part.Data, &p); err != nil {
			return nil, fmt.Errorf("reasoning part: %w", err)
		}
		return fantasy.ReasoningPart{Text: p.Text}, nil
	case "tool_call":
		var p exportToolCall
		if err := json.Unmarshal(part.Data, &p); err != nil {
			return nil, fmt.Errorf("tool_call part: %w", err)
		}
		return fantasy.ToolCallPart{
			ToolCallID: p.ID,
			ToolName:   p.Name,
			Input:      p.Input,
		}, nil
	case "tool_result":
		var p exportToolResult
		if err := json.Unmarshal(part.Data, &p); err != nil {
			return nil, fmt.Errorf("tool_result part: %w", err)
		}
		var output fantasy.ToolResultOutputContent
		if p.IsError {
			output = fantasy.ToolResultOutputContentError{Error: errorString(p.Content)}
		} else {
			output = fantasy.ToolResultOutputContentText{Text: p.Content}
		}
		return fantasy.ToolResultPart{
			ToolCallID: p.ToolCallID,
			Output:     output,
		}, nil
	case "file":
		var p exportFile
		if err := json.Unmarshal(part.Data, &p); err != nil {
			return nil, fmt.Errorf("file part: %w", err)
		}
		return fantasy.FilePart{
			Filename:  p.Filename,
			Data:      p.Data,
			MediaType: p.MediaType,
		}, nil
	case "finish":
		// Finish markers carry no renderable content.
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown part type: %s", part.Type)
	}
}

func roleFromString(role string) fantasy.MessageRole {
	switch role {
	case "system":
		return fantasy.MessageRoleSystem
	case "assistant":
		return fantasy.MessageRoleAssistant
	case "tool":
		return fantasy.MessageRoleTool
	default:
		return fantasy.MessageRoleUser
	}
}

// errorString implements error interface for string.
type errorString string

func (e errorString) Error() string { return string(e) }

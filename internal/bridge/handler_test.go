package bridge

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"charm.land/fantasy"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/render"
)

type captureSink struct {
	mu     sync.Mutex
	blocks []string
}

func (s *captureSink) Write(block string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = append(s.blocks, strings.TrimSuffix(block, "\n"))
	return nil
}

func (s *captureSink) Width() int  { return 80 }
func (s *captureSink) Color() bool { return false }

func (s *captureSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.blocks))
	copy(out, s.blocks)
	return out
}

func newTestHandler(t *testing.T) (*Handler, *captureSink, func()) {
	t.Helper()
	sink := &captureSink{}
	r := render.New(render.Options{Config: config.Default(), Sink: sink})
	r.Start()
	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.Stop(ctx); err != nil {
			t.Fatalf("renderer stop failed: %v", err)
		}
	}
	return NewHandler(r), sink, stop
}

func TestHandlerStreamsResponse(t *testing.T) {
	h, sink, stop := newTestHandler(t)

	if err := h.OnTextDelta("m1", "The fix "); err != nil {
		t.Fatalf("OnTextDelta failed: %v", err)
	}
	if err := h.OnTextDelta("m1", "is in."); err != nil {
		t.Fatalf("OnTextDelta failed: %v", err)
	}
	if err := h.OnTextEnd("m1"); err != nil {
		t.Fatalf("OnTextEnd failed: %v", err)
	}
	stop()

	blocks := sink.all()
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1 coalesced response: %q", len(blocks), blocks)
	}
	if !strings.Contains(blocks[0], "The fix is in.") {
		t.Errorf("block missing joined text: %q", blocks[0])
	}
}

func TestHandlerToolCallAndResult(t *testing.T) {
	h, sink, stop := newTestHandler(t)

	err := h.OnToolCall(fantasy.ToolCallContent{
		ToolCallID: "tc1",
		ToolName:   "read_file",
		Input:      `{"path":"src/a.ts","limit":50}`,
	})
	if err != nil {
		t.Fatalf("OnToolCall failed: %v", err)
	}
	err = h.OnToolResult(fantasy.ToolResultContent{
		ToolCallID: "tc1",
		Result:     fantasy.ToolResultOutputContentText{Text: "50 lines"},
	}, 1500*time.Millisecond)
	if err != nil {
		t.Fatalf("OnToolResult failed: %v", err)
	}
	stop()

	blocks := sink.all()
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2: %q", len(blocks), blocks)
	}
	if !strings.Contains(blocks[0], "[read_file]") {
		t.Errorf("call block missing tool name: %q", blocks[0])
	}
	if !strings.Contains(blocks[0], "path: src/a.ts") {
		t.Errorf("call block missing first param: %q", blocks[0])
	}
	if !strings.Contains(blocks[0], "limit: 50") {
		t.Errorf("call block missing second param: %q", blocks[0])
	}
	// Tool name resolved from the pending call, duration formatted.
	if !strings.Contains(blocks[1], "read_file") {
		t.Errorf("result block missing resolved tool name: %q", blocks[1])
	}
	if !strings.Contains(blocks[1], "(1.5s)") {
		t.Errorf("result block missing duration: %q", blocks[1])
	}
	if !strings.Contains(blocks[1], "50 lines") {
		t.Errorf("result block missing output: %q", blocks[1])
	}
}

func TestHandlerToolFailure(t *testing.T) {
	h, sink, stop := newTestHandler(t)

	err := h.OnToolResult(fantasy.ToolResultContent{
		ToolCallID: "tc9",
		ToolName:   "bash",
		Result:     fantasy.ToolResultOutputContentError{Error: errorString("exit status 1")},
	}, 0)
	if err != nil {
		t.Fatalf("OnToolResult failed: %v", err)
	}
	stop()

	blocks := sink.all()
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1: %q", len(blocks), blocks)
	}
	if !strings.HasPrefix(blocks[0], "x bash") {
		t.Errorf("failed result should start with failure glyph: %q", blocks[0])
	}
	if !strings.Contains(blocks[0], "exit status 1") {
		t.Errorf("result block missing error text: %q", blocks[0])
	}
}

func TestHandlerEditMetadataRendersDiff(t *testing.T) {
	h, sink, stop := newTestHandler(t)

	err := h.OnToolResult(fantasy.ToolResultContent{
		ToolCallID:     "tc2",
		ToolName:       "edit",
		Result:         fantasy.ToolResultOutputContentText{Text: "ok"},
		ClientMetadata: `{"file_path":"src/a.ts","before":"x = 1\n","after":"x = 2\n"}`,
	}, 0)
	if err != nil {
		t.Fatalf("OnToolResult failed: %v", err)
	}
	stop()

	blocks := sink.all()
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1: %q", len(blocks), blocks)
	}
	if !strings.Contains(blocks[0], "src/a.ts") {
		t.Errorf("edit block missing file path: %q", blocks[0])
	}
	if !strings.Contains(blocks[0], "- x = 1") || !strings.Contains(blocks[0], "+ x = 2") {
		t.Errorf("edit block missing diff rows: %q", blocks[0])
	}
}

func TestHandlerReasoningCoalesces(t *testing.T) {
	h, sink, stop := newTestHandler(t)

	if err := h.OnReasoningStart("r1"); err != nil {
		t.Fatalf("OnReasoningStart failed: %v", err)
	}
	deltas := []string{"Scanning the failing test ", "to isolate the assertion ", "that regressed offline."}
	for _, d := range deltas {
		if err := h.OnReasoningDelta("r1", d); err != nil {
			t.Fatalf("OnReasoningDelta failed: %v", err)
		}
	}
	if err := h.OnReasoningEnd("r1", 2*time.Second); err != nil {
		t.Fatalf("OnReasoningEnd failed: %v", err)
	}
	stop()

	blocks := sink.all()
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1 coalesced thought: %q", len(blocks), blocks)
	}
	if !strings.Contains(blocks[0], "Scanning the failing test to isolate the assertion that regressed offline.") {
		t.Errorf("thought block missing joined text: %q", blocks[0])
	}
}

func TestHandlerError(t *testing.T) {
	h, sink, stop := newTestHandler(t)

	if err := h.OnError(errorString("connection refused")); err != nil {
		t.Fatalf("OnError failed: %v", err)
	}
	stop()

	blocks := sink.all()
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1: %q", len(blocks), blocks)
	}
	if !strings.Contains(blocks[0], "connection refused") {
		t.Errorf("error block missing message: %q", blocks[0])
	}
}

func TestParamsFromInput(t *testing.T) {
	params := paramsFromInput(`{"path":"a.go","pattern":"func \\w+","limit":10}`)
	if len(params) != 3 {
		t.Fatalf("got %d params, want 3: %+v", len(params), params)
	}
	if params[0].Key != "path" || params[1].Key != "pattern" || params[2].Key != "limit" {
		t.Errorf("params out of document order: %+v", params)
	}
	if params[1].Value != `func \w+` {
		t.Errorf("pattern value = %q, want %q", params[1].Value, `func \w+`)
	}
	if params[2].Value != "10" {
		t.Errorf("numeric value = %q, want %q", params[2].Value, "10")
	}
}

func TestParamsFromInputNonObject(t *testing.T) {
	params := paramsFromInput("not json at all")
	if len(params) != 1 || params[0].Key != "input" || params[0].Value != "not json at all" {
		t.Errorf("unexpected fallback params: %+v", params)
	}

	if params := paramsFromInput("  "); params != nil {
		t.Errorf("blank input should produce no params, got %+v", params)
	}
}

func TestEditFromMetadata(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"full edit", `{"file_path":"a.go","before":"x","after":"y"}`, true},
		{"creation", `{"file_path":"a.go","after":"y"}`, true},
		{"deletion", `{"file_path":"a.go","before":"x"}`, true},
		{"no path", `{"before":"x","after":"y"}`, false},
		{"no blobs", `{"file_path":"a.go"}`, false},
		{"empty", ``, false},
		{"not json", `todo metadata`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edit := editFromMetadata(tt.raw)
			if (edit != nil) != tt.want {
				t.Errorf("editFromMetadata(%q) = %+v, want present=%v", tt.raw, edit, tt.want)
			}
		})
	}

	edit := editFromMetadata(`{"file_path":"a.go","before":"","after":"x = 1\n"}`)
	if edit == nil {
		t.Fatal("empty before blob should still count as a creation")
	}
	if edit.Before != "" || edit.After != "x = 1\n" {
		t.Errorf("unexpected blobs: %+v", edit)
	}
}

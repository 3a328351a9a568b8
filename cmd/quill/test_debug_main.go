//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/event"
	"github.com/quillhq/quill/internal/render"
)

// Feeds a scripted event stream through the renderer with realistic pacing.
// Run directly: go run test_debug_main.go

func main() {
	fmt.Fprintln(os.Stderr, "DEBUG TEST: Starting")
	ctx := context.Background()

	cfg := config.Default()
	sink := render.NewTerminalSink(os.Stdout, cfg.FallbackWidth)

	r := render.New(render.Options{Config: cfg, Sink: sink})
	r.Start()

	thought := func(text string) event.Event {
		e := event.NewThought(text)
		e.Streaming = true
		return e
	}

	script := []event.Event{
		event.NewUser("fix the failing parser test"),
		thought("Let me look at the failing test "),
		thought("to see which assertion breaks."),
		event.NewThought("Let me look at the failing test to see which assertion breaks."),
		event.NewToolCall("read_file", event.ParamList{
			{Key: "path", Value: "internal/parser/parse_test.go"},
			{Key: "limit", Value: "40"},
		}),
		event.NewToolResult(event.ToolResult{
			Name:         "read_file",
			Output:       "40 lines",
			DurationSecs: 0.4,
		}),
		event.NewToolCall("edit_file", event.ParamList{
			{Key: "path", Value: "internal/parser/parse.go"},
		}),
		event.NewToolResult(event.ToolResult{
			Name:         "edit_file",
			Output:       "applied",
			DurationSecs: 1.2,
			Edit: &event.EditMetadata{
				FilePath: "internal/parser/parse.go",
				Before:   "func parse(s string) int {\n\treturn 0\n}\n",
				After:    "func parse(s string) int {\n\tn, _ := strconv.Atoi(s)\n\treturn n\n}\n",
			},
		}),
		event.NewToolCall("bash", event.ParamList{
			{Key: "command", Value: "go test ./internal/parser/"},
		}),
		event.NewToolResult(event.ToolResult{
			Name:         "bash",
			Output:       "ok  \tinternal/parser\t0.31s",
			DurationSecs: 2.1,
		}),
		event.NewResponse("The parser ignored its input. ", true),
		event.NewResponse("I wired the argument through strconv and the test passes now.", true),
	}

	for _, e := range script {
		r.Enqueue(e)
		time.Sleep(150 * time.Millisecond)
	}
	r.Flush()

	if err := r.Stop(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

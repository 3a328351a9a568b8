package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/render"
)

func TestBuildSinkForcedWidth(t *testing.T) {
	var buf bytes.Buffer
	sink := buildSink(&buf, config.Default(), renderOptions{width: 120})

	if sink.Width() != 120 {
		t.Errorf("Width() = %d, want 120", sink.Width())
	}
	if sink.Color() {
		t.Error("forced-width sink should not report color")
	}
}

func TestMonoSinkDropsColor(t *testing.T) {
	var buf bytes.Buffer
	sink := monoSink{render.NewTerminalSink(&buf, 90)}

	if sink.Color() {
		t.Error("mono sink must report no color")
	}
	if sink.Width() != 90 {
		t.Errorf("Width() = %d, want fallback 90", sink.Width())
	}

	if err := sink.Write("hello"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != "hello" {
		t.Errorf("written %q, want %q", buf.String(), "hello")
	}
}

func TestRenderStreamJSONL(t *testing.T) {
	input := strings.Join([]string{
		`{"kind":"user","data":{"text":"please fix the bug"}}`,
		`this line is not an event`,
		`{"kind":"response","data":{"text":"The fix is ready."}}`,
	}, "\n")

	var out bytes.Buffer
	cmd := newRenderCmd(new(string))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetContext(context.Background())

	opts := renderOptions{width: 80, format: formatJSONL}
	if err := renderStream(cmd, config.Default(), strings.NewReader(input), opts); err != nil {
		t.Fatalf("renderStream: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "please fix the bug") {
		t.Errorf("output missing user message: %q", got)
	}
	if !strings.Contains(got, "The fix is ready.") {
		t.Errorf("output missing response: %q", got)
	}
	if !strings.Contains(got, "decode event at line 2") {
		t.Errorf("malformed line should surface as an error block: %q", got)
	}

	// The malformed line must not abort the stream.
	if strings.Index(got, "decode event") > strings.Index(got, "The fix is ready.") {
		t.Errorf("blocks out of order: %q", got)
	}
}

func TestRenderStreamFantasy(t *testing.T) {
	input := `[
		{"role": "user", "parts": [{"type": "text", "data": {"text": "rename the helper"}}]},
		{"role": "assistant", "parts": [{"type": "text", "data": {"text": "Done, renamed it."}}]}
	]`

	var out bytes.Buffer
	cmd := newRenderCmd(new(string))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetContext(context.Background())

	opts := renderOptions{width: 80, format: formatFantasy}
	if err := renderStream(cmd, config.Default(), strings.NewReader(input), opts); err != nil {
		t.Fatalf("renderStream: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "rename the helper") {
		t.Errorf("output missing user message: %q", got)
	}
	if !strings.Contains(got, "Done, renamed it.") {
		t.Errorf("output missing assistant text: %q", got)
	}
}

func TestRenderStreamRejectsUnknownFormat(t *testing.T) {
	cmd := newRenderCmd(new(string))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetContext(context.Background())

	opts := renderOptions{width: 80, format: "csv"}
	err := renderStream(cmd, config.Default(), strings.NewReader(""), opts)
	if err == nil {
		t.Fatal("expected an error for unknown format")
	}
	if !strings.Contains(err.Error(), "csv") {
		t.Errorf("error should name the format: %v", err)
	}
}

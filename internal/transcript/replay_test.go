package transcript

import (
	"fmt"
	"strings"
	"testing"

	"github.com/quillhq/quill/internal/event"
)

func TestRenderEntries(t *testing.T) {
	entries := []Entry{
		{Seq: 1, Kind: event.KindUser, Event: event.NewUser("fix the flaky test")},
		{Seq: 2, Kind: event.KindResponse, Event: event.NewResponse("Done, it passes now.", false)},
	}

	out := RenderEntries(entries, 80, false, false)
	if !strings.Contains(out, "fix the flaky test") {
		t.Errorf("output missing user text:\n%s", out)
	}
	if !strings.Contains(out, "Done, it passes now.") {
		t.Errorf("output missing response text:\n%s", out)
	}

	userIdx := strings.Index(out, "fix the flaky test")
	respIdx := strings.Index(out, "Done, it passes now.")
	if userIdx > respIdx {
		t.Error("entries rendered out of order")
	}
}

func TestRenderEntriesFallsBackToStoredBlock(t *testing.T) {
	// An entry whose payload no longer decodes keeps its stored block.
	entries := []Entry{
		{Seq: 1, Kind: "mystery", Block: "something we rendered once"},
		{Seq: 2, Kind: event.KindUser, Event: event.NewUser("still decodes")},
	}

	out := RenderEntries(entries, 80, false, false)
	if !strings.Contains(out, "something we rendered once") {
		t.Errorf("stored block not used as fallback:\n%s", out)
	}
	if !strings.Contains(out, "still decodes") {
		t.Errorf("decodable entry not re-rendered:\n%s", out)
	}
}

func TestRenderEntriesExpandDiffs(t *testing.T) {
	lines := make([]string, 14)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %02d", i)
	}
	before := "old header\n" + strings.Join(lines, "\n")
	after := "new header\n" + strings.Join(lines, "\n")

	entries := []Entry{
		{Seq: 1, Kind: event.KindToolResult, Event: event.NewToolResult(event.ToolResult{
			Name:   "edit_file",
			Output: "ok",
			Edit: &event.EditMetadata{
				FilePath: "internal/server/handler.go",
				Before:   before,
				After:    after,
			},
		})},
	}

	collapsed := RenderEntries(entries, 80, false, false)
	if !strings.Contains(collapsed, "lines unchanged") {
		t.Errorf("collapsed render should elide the long unchanged run:\n%s", collapsed)
	}

	expanded := RenderEntries(entries, 80, true, false)
	if strings.Contains(expanded, "lines unchanged") {
		t.Errorf("expanded render should show every line:\n%s", expanded)
	}
	if !strings.Contains(expanded, "line 12") {
		t.Errorf("expanded render missing deep context line:\n%s", expanded)
	}
}

func TestRenderEntriesEmpty(t *testing.T) {
	if out := RenderEntries(nil, 80, false, false); out != "" {
		t.Errorf("no entries should render nothing, got %q", out)
	}
}

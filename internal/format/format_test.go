package format

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/quillhq/quill/internal/event"
	"github.com/quillhq/quill/internal/ui"
)

func plainFormatter() *Formatter {
	return New(ui.PlainStyles(), true)
}

func TestClassifyThought(t *testing.T) {
	tests := []struct {
		text string
		want ThoughtCategory
	}{
		{"I'll refactor the parser next", ThoughtPlanning},
		{"going to split this into two passes", ThoughtPlanning},
		{"checking the test output for failures", ThoughtAnalyzing},
		{"comparing both traces side by side", ThoughtAnalyzing},
		{"running the build with race detection", ThoughtExecuting},
		{"writing the migration file", ThoughtExecuting},
		{"all tests pass, work is done", ThoughtCompleting},
		{"migration finished without errors", ThoughtCompleting},
		{"hmm, curious", ThoughtGeneric},
		{"", ThoughtGeneric},
	}

	for _, tt := range tests {
		if got := ClassifyThought(tt.text); got != tt.want {
			t.Errorf("ClassifyThought(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestSniffParamType(t *testing.T) {
	tests := []struct {
		value string
		want  ParamType
	}{
		{"50", ParamNumber},
		{"3.14", ParamNumber},
		{"-12", ParamNumber},
		{"src/a.ts", ParamPath},
		{"./cmd/quill/main.go", ParamPath},
		{"/usr/local/bin", ParamPath},
		{"~/notes/todo.md", ParamPath},
		{"main.go", ParamPath},
		{`C:\temp\file.txt`, ParamPath},
		{"git commit -m 'fix: parser'", ParamShell},
		{"ls -la | grep foo", ParamShell},
		{"sudo systemctl restart nginx", ParamShell},
		{`*.go`, ParamPattern},
		{`func\s+\w+`, ParamPattern},
		{`^Error: .+$`, ParamPattern},
		{"hello world", ParamPlain},
		{"", ParamPlain},
		{"just a sentence of text", ParamPlain},
	}

	for _, tt := range tests {
		if got := SniffParamType(tt.value); got != tt.want {
			t.Errorf("SniffParamType(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestThoughtBlock(t *testing.T) {
	f := plainFormatter()

	got := f.Thought("checking the failing test output", 0, 80)
	if !strings.HasPrefix(got, "* ") {
		t.Errorf("thought block missing icon prefix: %q", got)
	}
	if !strings.Contains(got, "checking the failing test output") {
		t.Errorf("thought block lost its text: %q", got)
	}

	if got := f.Thought("   ", 0, 80); got != "" {
		t.Errorf("blank thought rendered %q, want empty", got)
	}
}

func TestThoughtDurationSuffix(t *testing.T) {
	f := plainFormatter()

	got := f.Thought("checking the failing test output", 3*time.Second, 80)
	if !strings.HasSuffix(got, "(3.0s)") {
		t.Errorf("got %q, want duration suffix", got)
	}

	got = f.Thought("checking the failing test output", 0, 80)
	if strings.Contains(got, "(") {
		t.Errorf("zero duration rendered a suffix: %q", got)
	}
}

func TestToolCallLayout(t *testing.T) {
	f := plainFormatter()
	tc := event.NewToolCall("read_file", event.ParamList{
		{Key: "path", Value: "src/a.ts"},
		{Key: "limit", Value: "50"},
	})

	got := strings.Split(f.ToolCall(tc.Tool, 80), "\n")
	want := []string{
		"> [read_file]",
		"  path: src/a.ts",
		"  limit: 50",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(got), len(want), got)
	}
	for i, line := range got {
		if line != want[i] {
			t.Errorf("line %d: got %q, want %q", i, line, want[i])
		}
	}
}

func TestToolCallPreservesTrickyValues(t *testing.T) {
	f := plainFormatter()
	values := []string{
		`echo "hello world" && ls`,
		`printf 'a\tb\n'`,
		`{"op":"and","args":[1,2]}`,
		`grep -r "TODO: \"nested\"" src/`,
	}
	for _, v := range values {
		tc := event.NewToolCall("bash", event.ParamList{{Key: "command", Value: v}})
		got := f.ToolCall(tc.Tool, 80)
		if !strings.Contains(got, v) {
			t.Errorf("value corrupted in output:\nvalue: %q\nblock: %q", v, got)
		}
	}
}

func TestToolCallMultilineValue(t *testing.T) {
	f := plainFormatter()
	tc := event.NewToolCall("write", event.ParamList{
		{Key: "content", Value: "first line\nsecond line"},
	})

	got := f.ToolCall(tc.Tool, 80)
	if !strings.Contains(got, "content: first line") {
		t.Errorf("first value line not inline: %q", got)
	}
	if !strings.Contains(got, "\n    second line") {
		t.Errorf("continuation line not indented: %q", got)
	}
}

func TestToolCallNil(t *testing.T) {
	f := plainFormatter()
	if got := f.ToolCall(nil, 80); got != "" {
		t.Errorf("nil tool call rendered %q, want empty", got)
	}
}

func TestToolResultStatus(t *testing.T) {
	f := plainFormatter()

	ok := f.ToolResult(&event.ToolResult{Name: "build", DurationSecs: 1.2}, 80)
	if ok != "ok build (1.2s)" {
		t.Errorf("got %q, want success header", ok)
	}

	failed := f.ToolResult(&event.ToolResult{Name: "build", Failed: true}, 80)
	if failed != "x build" {
		t.Errorf("got %q, want failure header", failed)
	}

	if ok == failed {
		t.Error("success and failure render identically")
	}
}

func TestToolResultOutputElision(t *testing.T) {
	f := plainFormatter()
	var sb strings.Builder
	for i := 1; i <= 30; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}

	got := f.ToolResult(&event.ToolResult{Output: sb.String()}, 80)
	lines := strings.Split(got, "\n")

	// header + 10 head + marker + 5 tail
	if len(lines) != 17 {
		t.Fatalf("got %d lines, want 17: %q", len(lines), lines)
	}
	if lines[1] != "  line 1" {
		t.Errorf("got first output row %q, want %q", lines[1], "  line 1")
	}
	if !strings.Contains(lines[11], "(15 more lines)") {
		t.Errorf("got marker %q, want hidden count 15", lines[11])
	}
	if lines[16] != "  line 30" {
		t.Errorf("got last output row %q, want %q", lines[16], "  line 30")
	}
}

func TestToolResultShortOutputNotElided(t *testing.T) {
	f := plainFormatter()
	got := f.ToolResult(&event.ToolResult{Output: "a\nb\nc"}, 80)
	if strings.Contains(got, "more lines") {
		t.Errorf("short output was elided: %q", got)
	}
}

func TestToolResultEditRendersDiff(t *testing.T) {
	f := plainFormatter()
	tr := &event.ToolResult{
		Name: "edit",
		Edit: &event.EditMetadata{
			FilePath: "src/a.ts",
			Before:   "x\ny",
			After:    "x\nz",
		},
	}

	got := f.ToolResult(tr, 80)
	for _, want := range []string{"src/a.ts", "- y", "+ z", "(-1, +1 chars)"} {
		if !strings.Contains(got, want) {
			t.Errorf("edit block missing %q:\n%s", want, got)
		}
	}
	if !strings.HasPrefix(got, "ok edit") {
		t.Errorf("edit block missing result marker: %q", got)
	}
}

func TestToolResultEditNoChanges(t *testing.T) {
	f := plainFormatter()
	tr := &event.ToolResult{
		Edit: &event.EditMetadata{FilePath: "a.txt", Before: "same", After: "same"},
	}
	if got := f.ToolResult(tr, 80); !strings.Contains(got, "(no changes)") {
		t.Errorf("identical edit missing zero-change notice: %q", got)
	}
}

func TestResponseBlock(t *testing.T) {
	f := plainFormatter()
	got := f.Response("The fix is in `parser.go`.", 80)
	if !strings.HasPrefix(got, ">>") {
		t.Errorf("response block missing glyph: %q", got)
	}
	if !strings.Contains(got, "The fix is in") {
		t.Errorf("response block lost its text: %q", got)
	}

	if got := f.Response("  ", 80); got != "" {
		t.Errorf("blank response rendered %q, want empty", got)
	}
}

func TestResponseDistinctFromThought(t *testing.T) {
	f := plainFormatter()
	text := "identical content in both blocks"
	if f.Response(text, 80) == f.Thought(text, 0, 80) {
		t.Error("response and thought blocks are indistinguishable")
	}
}

func TestResponseMarkdown(t *testing.T) {
	f := New(ui.DefaultStyles(), false)
	got := f.Response("# Heading\n\nbody text", 80)
	if got == "" {
		t.Fatal("markdown response rendered empty")
	}
	if !strings.Contains(got, "Heading") {
		t.Errorf("markdown response lost heading text: %q", got)
	}
}

func TestErrorBlock(t *testing.T) {
	f := plainFormatter()

	got := f.Error("connection refused", 80)
	if got != "x Error: connection refused" {
		t.Errorf("got %q, want inline error line", got)
	}

	multi := f.Error("first problem\nsecond problem", 80)
	lines := strings.Split(multi, "\n")
	if lines[0] != "x Error:" {
		t.Errorf("got header %q, want %q", lines[0], "x Error:")
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), lines)
	}

	if got := f.Error("", 80); !strings.Contains(got, "unknown error") {
		t.Errorf("empty error rendered %q, want placeholder", got)
	}
}

func TestUserVerbatim(t *testing.T) {
	f := plainFormatter()
	got := f.User("hello there", 80)
	if got != "> hello there" {
		t.Errorf("got %q, want verbatim line", got)
	}
}

func TestUserPastePlaceholder(t *testing.T) {
	f := plainFormatter()
	text := "first pasted line of content\nsecond pasted line\nthird pasted line"

	got := f.User(text, 80)
	if !strings.Contains(got, "pasted 3 lines") {
		t.Errorf("placeholder missing line count: %q", got)
	}
	if !strings.Contains(got, "first pasted line of content") {
		t.Errorf("placeholder missing preview: %q", got)
	}
	if strings.Contains(got, "second pasted line") {
		t.Errorf("placeholder leaked paste body: %q", got)
	}
}

func TestFormatDispatch(t *testing.T) {
	f := plainFormatter()

	tests := []struct {
		name string
		ev   event.Event
		want string
	}{
		{"thought", event.NewThought("checking the failing test output"), f.Thought("checking the failing test output", 0, 80)},
		{"response", event.NewResponse("done", false), f.Response("done", 80)},
		{"error", event.NewError("boom"), f.Error("boom", 80)},
		{"user", event.NewUser("hi there"), f.User("hi there", 80)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Format(tt.ev, 80); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatNilPayloads(t *testing.T) {
	f := plainFormatter()
	if got := f.Format(event.Event{Kind: event.KindToolCall}, 80); got != "" {
		t.Errorf("nil tool payload rendered %q, want empty", got)
	}
	if got := f.Format(event.Event{Kind: event.KindToolResult}, 80); got != "" {
		t.Errorf("nil result payload rendered %q, want empty", got)
	}
}

func TestFormatUnknownKind(t *testing.T) {
	f := plainFormatter()
	got := f.Format(event.Event{Kind: event.Kind("mystery"), Text: "payload"}, 80)
	if got != "payload" {
		t.Errorf("got %q, want plain fallback", got)
	}
}

func TestRule(t *testing.T) {
	f := plainFormatter()

	bare := f.Rule("", 40)
	if bare != strings.Repeat("-", 40) {
		t.Errorf("got %q, want 40-column rule", bare)
	}

	titled := f.Rule("session", 40)
	if !strings.HasPrefix(titled, "--- session ") {
		t.Errorf("got %q, want titled rule", titled)
	}
	if n := len([]rune(titled)); n != 40 {
		t.Errorf("titled rule is %d columns, want 40", n)
	}
}

func TestNarrowWidthDoesNotPanic(t *testing.T) {
	f := plainFormatter()
	long := strings.Repeat("alpha beta ", 30)

	for _, width := range []int{-1, 0, 1, 5, 20} {
		f.Thought(long, 0, width)
		f.Response(long, width)
		f.Error(long, width)
		f.ToolResult(&event.ToolResult{Output: long}, width)
	}
}

package event

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestParamOrderPreserved(t *testing.T) {
	line := `{"kind":"tool-call","seq":1,"time":"2026-01-05T10:00:00Z","data":{"name":"search","params":{"pattern":"TODO","path":"src/","limit":50}}}`

	e, err := Unmarshal([]byte(line))
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if e.Tool == nil {
		t.Fatal("expected tool payload")
	}

	want := []string{"pattern", "path", "limit"}
	if len(e.Tool.Params) != len(want) {
		t.Fatalf("expected %d params, got %d", len(want), len(e.Tool.Params))
	}
	for i, key := range want {
		if e.Tool.Params[i].Key != key {
			t.Errorf("param %d: expected key %q, got %q", i, key, e.Tool.Params[i].Key)
		}
	}
	if e.Tool.Params[2].Value != "50" {
		t.Errorf("numeric value should keep JSON source text: got %q", e.Tool.Params[2].Value)
	}
}

func TestParamTrickyValues(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{
			name: "embedded quotes",
			json: `{"cmd":"echo \"hello world\""}`,
			want: `echo "hello world"`,
		},
		{
			name: "escaped characters",
			json: `{"cmd":"printf 'a\\tb\\n'"}`,
			want: `printf 'a\tb\n'`,
		},
		{
			name: "nested delimiters",
			json: `{"filter":"{\"op\":\"and\",\"args\":[1,2]}"}`,
			want: `{"op":"and","args":[1,2]}`,
		},
		{
			name: "nested object value",
			json: `{"options":{"depth":3,"follow":true}}`,
			want: `{"depth":3,"follow":true}`,
		},
		{
			name: "boolean value",
			json: `{"recursive":true}`,
			want: "true",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var ps ParamList
			if err := ps.UnmarshalJSON([]byte(tc.json)); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if len(ps) != 1 {
				t.Fatalf("expected one param, got %d", len(ps))
			}
			if ps[0].Value != tc.want {
				t.Errorf("expected value %q, got %q", tc.want, ps[0].Value)
			}
		})
	}
}

func TestParamPairArrayRoundTrip(t *testing.T) {
	orig := ParamList{
		{Key: "path", Value: "src/a.ts"},
		{Key: "content", Value: "line1\nline2"},
	}

	data, err := orig.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var got ParamList
	if err := got.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(got) != 2 || got[0] != orig[0] || got[1] != orig[1] {
		t.Fatalf("round-trip mismatch: got %+v", got)
	}
}

func TestMarshalUnknownKind(t *testing.T) {
	if _, err := Marshal(Event{Kind: "mystery"}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestUnmarshalUnknownKind(t *testing.T) {
	if _, err := Unmarshal([]byte(`{"kind":"mystery","data":{}}`)); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestEditMetadataRoundTrip(t *testing.T) {
	orig := NewToolResult(ToolResult{
		Name:   "edit",
		Output: "updated",
		Edit: &EditMetadata{
			FilePath: "main.go",
			Before:   "package main\n",
			After:    "package main\n\nfunc main() {}\n",
		},
	})
	orig.Seq = 7

	data, err := Marshal(orig)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.Seq != 7 || got.Kind != KindToolResult {
		t.Fatalf("envelope mismatch: %+v", got)
	}
	if got.Result == nil || got.Result.Edit == nil {
		t.Fatal("expected edit metadata to survive")
	}
	if got.Result.Edit.Before != orig.Result.Edit.Before || got.Result.Edit.After != orig.Result.Edit.After {
		t.Fatal("edit blobs corrupted in round-trip")
	}
}

func TestDecoderStream(t *testing.T) {
	stream := strings.Join([]string{
		`{"kind":"thought","seq":1,"time":"2026-01-05T10:00:00Z","data":{"text":"planning the change"}}`,
		``,
		`{"kind":"response","seq":2,"time":"2026-01-05T10:00:01Z","streaming":true,"data":{"text":"The fix"}}`,
		`{"kind":"response","seq":3,"time":"2026-01-05T10:00:02Z","data":{"text":" is ready."}}`,
	}, "\n")

	dec := NewDecoder(strings.NewReader(stream))

	var events []Event
	for {
		e, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		events = append(events, e)
	}

	if len(events) != 3 {
		t.Fatalf("expected 3 events (blank line skipped), got %d", len(events))
	}
	if events[0].Kind != KindThought || events[0].Text != "planning the change" {
		t.Fatalf("first event mismatch: %+v", events[0])
	}
	if !events[1].Streaming || events[2].Streaming {
		t.Fatal("streaming flags lost in decode")
	}
}

func TestDecoderRecoversAfterBadLine(t *testing.T) {
	stream := "not json at all\n" +
		`{"kind":"error","seq":1,"time":"2026-01-05T10:00:00Z","data":{"text":"tool crashed"}}` + "\n"

	dec := NewDecoder(strings.NewReader(stream))

	_, err := dec.Next()
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if decErr.Line != 1 {
		t.Fatalf("expected error at line 1, got %d", decErr.Line)
	}

	e, err := dec.Next()
	if err != nil {
		t.Fatalf("expected recovery on next line, got %v", err)
	}
	if e.Kind != KindError || e.Text != "tool crashed" {
		t.Fatalf("recovered event mismatch: %+v", e)
	}

	if _, err := dec.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestConstructorsSetKindAndTime(t *testing.T) {
	tests := []struct {
		name string
		e    Event
		kind Kind
	}{
		{"thought", NewThought("considering options"), KindThought},
		{"response", NewResponse("done", false), KindResponse},
		{"error", NewError("boom"), KindError},
		{"user", NewUser("hello"), KindUser},
		{"tool call", NewToolCall("bash", ParamList{{Key: "command", Value: "ls"}}), KindToolCall},
		{"tool result", NewToolResult(ToolResult{Name: "bash"}), KindToolResult},
	}

	for _, tc := range tests {
		if tc.e.Kind != tc.kind {
			t.Errorf("%s: expected kind %q, got %q", tc.name, tc.kind, tc.e.Kind)
		}
		if tc.e.Time.IsZero() {
			t.Errorf("%s: constructor should stamp creation time", tc.name)
		}
		if !tc.e.Kind.Valid() {
			t.Errorf("%s: kind should be valid", tc.name)
		}
	}
}

package log

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestPlainFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Logger:  rootLogger,
		Time:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "suppressed duplicate thought",
		Data: Fields{
			"component":  "dedup",
			"similarity": 0.82,
		},
	}

	out, err := plainFormatter{}.Format(entry)
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	line := string(out)

	for _, want := range []string{"[2026-03-14T09:30:00Z]", "[INFO]", "[dedup]", "suppressed duplicate thought", "similarity=0.82"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in output, got %q", want, line)
		}
	}
	if !strings.HasSuffix(line, "\n") {
		t.Errorf("expected trailing newline, got %q", line)
	}
}

func TestPlainFormatterNilEntry(t *testing.T) {
	out, err := plainFormatter{}.Format(nil)
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output for nil entry, got %q", out)
	}
}

func TestSetupWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "nested", "quill.log")

	closer, err := Setup(logPath)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	defer func() {
		closer.Close()
		rootLogger.SetOutput(io.Discard)
	}()

	Named("renderer").Info("session started")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "session started") {
		t.Errorf("expected log line in file, got %q", string(data))
	}
	if !strings.Contains(string(data), "[renderer]") {
		t.Errorf("expected component tag in file, got %q", string(data))
	}
}

func TestSetupEmptyPath(t *testing.T) {
	if _, err := Setup(""); err == nil {
		t.Fatal("expected error for empty log path")
	}
}

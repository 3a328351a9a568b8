// Package log provides quill's diagnostic logger.
//
// The renderer's own output goes to the sink; this logger records internal
// diagnostics (dedup suppressions, lifecycle, store activity) to a file so
// they never pollute the transcript.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger and Fields alias the underlying types so callers do not import logrus directly.
type Logger = logrus.Logger
type Entry = logrus.Entry
type Fields = logrus.Fields

var rootLogger = logrus.New()

func init() {
	// Silent until Setup routes output to a file; a CLI must not leak
	// diagnostics onto the terminal.
	rootLogger.SetOutput(io.Discard)
	rootLogger.SetFormatter(plainFormatter{})
}

// Setup redirects the root logger to the given file path, creating parent
// directories as needed. Returns a closer for the underlying file.
func Setup(logPath string) (io.Closer, error) {
	if logPath == "" {
		return nil, fmt.Errorf("log path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	rootLogger.SetOutput(f)
	return f, nil
}

// SetDebug enables debug-level logging.
func SetDebug(debug bool) {
	if debug {
		rootLogger.SetLevel(logrus.DebugLevel)
	} else {
		rootLogger.SetLevel(logrus.InfoLevel)
	}
}

// Root returns the shared logger.
func Root() *Logger {
	return rootLogger
}

// Named returns an entry tagged with a component field.
func Named(component string) *Entry {
	entry := logrus.NewEntry(rootLogger)
	if component != "" {
		entry = entry.WithField("component", component)
	}
	return entry
}

// plainFormatter renders "[timestamp] [LEVEL] [component] message k=v".
type plainFormatter struct{}

func (plainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry == nil {
		return []byte{}, nil
	}
	timestamp := entry.Time.UTC().Format(time.RFC3339)
	level := strings.ToUpper(entry.Level.String())

	parts := make([]string, 0, 5)
	parts = append(parts, fmt.Sprintf("[%s]", timestamp))
	parts = append(parts, fmt.Sprintf("[%s]", level))
	if component, ok := entry.Data["component"].(string); ok && component != "" {
		parts = append(parts, fmt.Sprintf("[%s]", component))
	}
	parts = append(parts, entry.Message)
	if fields := formatFields(entry.Data); fields != "" {
		parts = append(parts, fields)
	}
	return []byte(strings.Join(parts, " ") + "\n"), nil
}

func formatFields(fields logrus.Fields) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "component" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}

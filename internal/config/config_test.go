package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.SimilarityThreshold != 0.7 {
		t.Fatalf("similarity threshold: expected 0.7, got %v", cfg.SimilarityThreshold)
	}
	if cfg.DedupWindowSeconds != 15 {
		t.Fatalf("dedup window: expected 15, got %d", cfg.DedupWindowSeconds)
	}
	if cfg.MinThoughtWords != 4 {
		t.Fatalf("min thought words: expected 4, got %d", cfg.MinThoughtWords)
	}
	if cfg.MinThoughtChars != 30 {
		t.Fatalf("min thought chars: expected 30, got %d", cfg.MinThoughtChars)
	}
	if cfg.FallbackWidth != 80 {
		t.Fatalf("fallback width: expected 80, got %d", cfg.FallbackWidth)
	}
	if cfg.DedupWindow() != 15*time.Second {
		t.Fatalf("dedup window duration: expected 15s, got %v", cfg.DedupWindow())
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	def := Default()
	if cfg.SimilarityThreshold != def.SimilarityThreshold || cfg.DedupWindowSeconds != def.DedupWindowSeconds ||
		cfg.MinThoughtWords != def.MinThoughtWords || cfg.MinThoughtChars != def.MinThoughtChars ||
		cfg.FallbackWidth != def.FallbackWidth {
		t.Fatalf("expected defaults for missing file, got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "similarity_threshold: 0.85\ndedup_window_seconds: 30\nrecord_sessions: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.SimilarityThreshold != 0.85 {
		t.Fatalf("expected threshold 0.85, got %v", cfg.SimilarityThreshold)
	}
	if cfg.DedupWindowSeconds != 30 {
		t.Fatalf("expected window 30, got %d", cfg.DedupWindowSeconds)
	}
	if !cfg.RecordSessions {
		t.Fatal("expected record_sessions true")
	}
	// Untouched keys keep their defaults
	if cfg.MinThoughtWords != 4 {
		t.Fatalf("expected default min words, got %d", cfg.MinThoughtWords)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("similarity_threshold: [not a number"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for malformed yaml")
	}
}

func TestLoadNormalizesOutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(Config) bool
	}{
		{"zero threshold", "similarity_threshold: 0\n", func(c Config) bool { return c.SimilarityThreshold == 0.7 }},
		{"threshold above one", "similarity_threshold: 1.5\n", func(c Config) bool { return c.SimilarityThreshold == 0.7 }},
		{"negative window", "dedup_window_seconds: -5\n", func(c Config) bool { return c.DedupWindowSeconds == 15 }},
		{"zero width", "fallback_width: 0\n", func(c Config) bool { return c.FallbackWidth == 80 }},
	}

	for _, tc := range tests {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
			t.Fatalf("%s: write config: %v", tc.name, err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("%s: load failed: %v", tc.name, err)
		}
		if !tc.check(cfg) {
			t.Errorf("%s: value not normalized: %+v", tc.name, cfg)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := Default()
	want.SimilarityThreshold = 0.9
	want.DenyPhrases = []string{"let me check"}

	if err := Save(want, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.SimilarityThreshold != 0.9 {
		t.Fatalf("expected threshold 0.9 after round-trip, got %v", got.SimilarityThreshold)
	}
	if len(got.DenyPhrases) != 1 || got.DenyPhrases[0] != "let me check" {
		t.Fatalf("expected deny phrases to round-trip, got %v", got.DenyPhrases)
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quillhq/quill/internal/paths"
)

// Config holds the renderer tuning knobs and CLI defaults for quill.
type Config struct {
	// SimilarityThreshold is the word-set overlap above which a thought is
	// considered a duplicate of a recently shown one. Range (0, 1].
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// DedupWindowSeconds bounds how far back duplicate detection looks.
	DedupWindowSeconds int `yaml:"dedup_window_seconds"`

	// MinThoughtWords and MinThoughtChars gate out fragments too short to
	// carry diagnostic value.
	MinThoughtWords int `yaml:"min_thought_words"`
	MinThoughtChars int `yaml:"min_thought_chars"`

	// FallbackWidth is used when the sink cannot report terminal columns.
	FallbackWidth int `yaml:"fallback_width"`

	// DenyPhrases replaces the built-in filler-phrase denylist when set.
	DenyPhrases []string `yaml:"deny_phrases,omitempty"`

	// RecordSessions persists rendered transcripts to the store.
	RecordSessions bool `yaml:"record_sessions"`

	// DatabasePath overrides the default transcript database location.
	DatabasePath string `yaml:"database_path,omitempty"`
}

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		SimilarityThreshold: 0.7,
		DedupWindowSeconds:  15,
		MinThoughtWords:     4,
		MinThoughtChars:     30,
		FallbackWidth:       80,
		RecordSessions:      false,
	}
}

// DedupWindow returns the dedup window as a duration.
func (c Config) DedupWindow() time.Duration {
	return time.Duration(c.DedupWindowSeconds) * time.Second
}

// Database returns the transcript database path, defaulting to the data dir.
func (c Config) Database() string {
	if c.DatabasePath != "" {
		return c.DatabasePath
	}
	return paths.DatabaseFile()
}

// Load reads configuration from the given path, falling back to defaults when missing.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg.normalized(), nil
}

// Save writes the configuration to the given path, creating parent directories.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// normalized replaces out-of-range values with defaults. A threshold at or
// below zero would suppress every thought; above one it would never fire.
func (c Config) normalized() Config {
	def := Default()
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		c.SimilarityThreshold = def.SimilarityThreshold
	}
	if c.DedupWindowSeconds <= 0 {
		c.DedupWindowSeconds = def.DedupWindowSeconds
	}
	if c.MinThoughtWords < 0 {
		c.MinThoughtWords = def.MinThoughtWords
	}
	if c.MinThoughtChars < 0 {
		c.MinThoughtChars = def.MinThoughtChars
	}
	if c.FallbackWidth <= 0 {
		c.FallbackWidth = def.FallbackWidth
	}
	return c
}

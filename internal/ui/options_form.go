package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
)

// OptionsResult holds the renderer tuning values collected by the form.
type OptionsResult struct {
	SimilarityThreshold float64
	DedupWindowSeconds  int
	FallbackWidth       int
	RecordSessions      bool
}

type OptionsForm struct{}

func NewOptionsForm() *OptionsForm { return &OptionsForm{} }

// Run collects renderer options interactively, seeded with the current
// values.
func (f *OptionsForm) Run(ctx context.Context, initial OptionsResult) (OptionsResult, error) {
	res := initial

	threshold := strconv.FormatFloat(initial.SimilarityThreshold, 'f', -1, 64)
	window := strconv.Itoa(initial.DedupWindowSeconds)
	width := strconv.Itoa(initial.FallbackWidth)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Similarity threshold").
				Description("Word overlap above which a repeated thought is suppressed, in (0, 1]").
				Value(&threshold).
				Validate(validateThreshold),
			huh.NewInput().
				Title("Dedup window (seconds)").
				Description("How far back duplicate detection looks").
				Value(&window).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Fallback width (columns)").
				Description("Used when the terminal width cannot be detected").
				Value(&width).
				Validate(validatePositiveInt),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Record sessions by default?").
				Description("Every rendered transcript is saved to the local store").
				Value(&res.RecordSessions),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.RunWithContext(ctx); err != nil {
		return OptionsResult{}, err
	}

	// Validated above; parse errors cannot reach here.
	res.SimilarityThreshold, _ = strconv.ParseFloat(threshold, 64)
	res.DedupWindowSeconds, _ = strconv.Atoi(window)
	res.FallbackWidth, _ = strconv.Atoi(width)

	return res, nil
}

func validateThreshold(v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if f <= 0 || f > 1 {
		return fmt.Errorf("must be in (0, 1]")
	}
	return nil
}

func validatePositiveInt(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("not a whole number")
	}
	if n <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

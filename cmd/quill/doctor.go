package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/paths"
	"github.com/quillhq/quill/internal/pipe"
	"github.com/quillhq/quill/internal/render"
	"github.com/quillhq/quill/internal/transcript"
	"github.com/quillhq/quill/internal/version"
)

func newDoctorCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check terminal capabilities and store health",
		Long:  "Diagnose the quill installation, checking the terminal, configuration, and transcript store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				cfg = config.Default()
			}

			ctx := cmd.Context()

			// Styles
			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
			okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
			warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
			errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
			labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(24)

			check := func(name string, ok bool, msg string) {
				status := okStyle.Render("OK")
				if !ok {
					status = errStyle.Render("FAIL")
				}
				fmt.Printf("  %s %s %s\n", labelStyle.Render(name), status, msg)
			}

			warn := func(name string, msg string) {
				status := warnStyle.Render("WARN")
				fmt.Printf("  %s %s %s\n", labelStyle.Render(name), status, msg)
			}

			fmt.Println()
			fmt.Println(headerStyle.Render("  Quill Doctor"))
			fmt.Println(headerStyle.Render("  " + strings.Repeat("-", 50)))
			fmt.Println()

			// System
			fmt.Println(headerStyle.Render("  System"))
			fmt.Printf("  %s %s\n", labelStyle.Render("Quill Version:"), version.Version)
			fmt.Printf("  %s %s\n", labelStyle.Render("Go Version:"), runtime.Version())
			fmt.Printf("  %s %s/%s\n", labelStyle.Render("Platform:"), runtime.GOOS, runtime.GOARCH)
			fmt.Println()

			// Terminal
			fmt.Println(headerStyle.Render("  Terminal"))
			sink := render.NewTerminalSink(os.Stdout, cfg.FallbackWidth)
			isTTY := !pipe.IsStdoutPiped()
			if isTTY {
				check("Stdout:", true, "interactive terminal")
				check("Width:", sink.Width() > 0, fmt.Sprintf("%d columns", sink.Width()))
			} else {
				warn("Stdout:", fmt.Sprintf("piped - output uses fixed width %d", cfg.FallbackWidth))
			}
			if sink.Color() {
				check("Color:", true, "enabled")
			} else {
				reason := "not a terminal"
				if os.Getenv("NO_COLOR") != "" {
					reason = "NO_COLOR is set"
				} else if os.Getenv("TERM") == "dumb" {
					reason = "TERM=dumb"
				}
				warn("Color:", "disabled ("+reason+")")
			}
			termEnv := os.Getenv("TERM")
			if termEnv == "" {
				warn("TERM:", "not set")
			} else {
				check("TERM:", true, termEnv)
			}
			fmt.Println()

			// Paths
			fmt.Println(headerStyle.Render("  Paths"))
			configExists := fileExists(*cfgPath)
			if configExists {
				check("Config File:", true, *cfgPath)
			} else {
				warn("Config File:", *cfgPath+" (using defaults - run 'quill init')")
			}

			dbExists := fileExists(cfg.Database())
			if dbExists {
				check("Database:", true, cfg.Database())
			} else {
				warn("Database:", cfg.Database()+" (created on first --record)")
			}

			check("Data Directory:", dirExists(paths.DataDir()) || !dbExists, paths.DataDir())
			fmt.Println()

			// Configuration
			fmt.Println(headerStyle.Render("  Configuration"))
			check("Similarity Threshold:", cfg.SimilarityThreshold > 0 && cfg.SimilarityThreshold <= 1,
				fmt.Sprintf("%.2f", cfg.SimilarityThreshold))
			check("Dedup Window:", cfg.DedupWindowSeconds > 0, fmt.Sprintf("%ds", cfg.DedupWindowSeconds))
			check("Fallback Width:", cfg.FallbackWidth > 0, fmt.Sprintf("%d columns", cfg.FallbackWidth))
			if len(cfg.DenyPhrases) > 0 {
				check("Deny Phrases:", true, fmt.Sprintf("%d custom", len(cfg.DenyPhrases)))
			} else {
				check("Deny Phrases:", true, "built-in list")
			}
			fmt.Println()

			// Store
			fmt.Println(headerStyle.Render("  Store"))
			if dbExists {
				store, err := transcript.Open(ctx, cfg.Database())
				if err != nil {
					check("Connection:", false, err.Error())
				} else {
					check("Connection:", true, "OK")
					defer store.Close()

					count, _ := store.Count(ctx)
					check("Sessions:", true, fmt.Sprintf("%d", count))
					check("Format Version:", true, transcript.FormatVersion)
				}
			} else {
				warn("Store:", "not created yet - render with --record")
			}
			fmt.Println()

			// Recommendations
			var recommendations []string
			if !configExists {
				recommendations = append(recommendations, "Create a config: quill init")
			}
			if termEnv == "" && isTTY {
				recommendations = append(recommendations, "Set TERM so input and color detection work")
			}

			if len(recommendations) > 0 {
				fmt.Println(headerStyle.Render("  Recommendations"))
				for _, r := range recommendations {
					fmt.Printf("  - %s\n", r)
				}
				fmt.Println()
			}

			return nil
		},
	}

	return cmd
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/paths"
	"github.com/quillhq/quill/internal/ui"
)

func newInitCmd(cfgPath *string) *cobra.Command {
	var (
		threshold float64
		window    int
		width     int
		record    bool
		local     bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the quill config file",
		Long: `Write the quill config file. With no flags, an interactive form collects
the renderer tuning values; flags set values directly and skip the form.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if local {
				paths.SetLocalDevMode()
			}

			target := *cfgPath
			if local {
				target = paths.ConfigFile()
			}

			cfg, err := config.Load(target)
			if err != nil {
				return err
			}

			tuned := cmd.Flags().Changed("threshold") ||
				cmd.Flags().Changed("window") ||
				cmd.Flags().Changed("width") ||
				cmd.Flags().Changed("record")

			if tuned {
				if cmd.Flags().Changed("threshold") {
					cfg.SimilarityThreshold = threshold
				}
				if cmd.Flags().Changed("window") {
					cfg.DedupWindowSeconds = window
				}
				if cmd.Flags().Changed("width") {
					cfg.FallbackWidth = width
				}
				if cmd.Flags().Changed("record") {
					cfg.RecordSessions = record
				}
			} else {
				ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
				defer cancel()

				form := ui.NewOptionsForm()
				res, err := form.Run(ctx, ui.OptionsResult{
					SimilarityThreshold: cfg.SimilarityThreshold,
					DedupWindowSeconds:  cfg.DedupWindowSeconds,
					FallbackWidth:       cfg.FallbackWidth,
					RecordSessions:      cfg.RecordSessions,
				})
				if err != nil {
					return err
				}
				cfg.SimilarityThreshold = res.SimilarityThreshold
				cfg.DedupWindowSeconds = res.DedupWindowSeconds
				cfg.FallbackWidth = res.FallbackWidth
				cfg.RecordSessions = res.RecordSessions
			}

			if err := config.Save(cfg, target); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote config to %s\n", target)
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", config.Default().SimilarityThreshold, "similarity threshold in (0, 1]")
	cmd.Flags().IntVar(&window, "window", config.Default().DedupWindowSeconds, "dedup window in seconds")
	cmd.Flags().IntVar(&width, "width", config.Default().FallbackWidth, "fallback width in columns")
	cmd.Flags().BoolVar(&record, "record", false, "record sessions by default")
	cmd.Flags().BoolVar(&local, "local", false, "write config under the current directory")

	return cmd
}

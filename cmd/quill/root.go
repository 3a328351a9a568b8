package main

import (
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/log"
	"github.com/quillhq/quill/internal/paths"
	"github.com/quillhq/quill/internal/pipe"
)

func newRootCmd() *cobra.Command {
	var cfgPath string
	var debug bool

	cmd := &cobra.Command{
		Use:           "quill",
		Short:         "Render agent event streams as readable transcripts",
		Long: `Quill turns the JSONL event stream of a coding agent into a readable
terminal transcript: thoughts deduplicated, tool calls condensed to their
interesting parameters, file edits shown as compact diffs.

Pipe a stream in, or point it at a saved file:

  agent --stream | quill
  quill render session.jsonl`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.SetDebug(debug)
			// Logging is diagnostics only; a missing log dir never blocks a render.
			_, _ = log.Setup(paths.LogFile())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(&cfgPath, func(cfg config.Config) error {
				if pipe.IsStdinPiped() {
					// Bare `quill` with piped input renders with defaults.
					return renderStream(cmd, cfg, cmd.InOrStdin(), renderOptions{format: formatJSONL})
				}
				return cmd.Help()
			})
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "path to config file")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug details to the quill log file")

	cmd.AddCommand(newRenderCmd(&cfgPath))
	cmd.AddCommand(newPromptCmd(&cfgPath))
	cmd.AddCommand(newSessionsCmd(&cfgPath))
	cmd.AddCommand(newInitCmd(&cfgPath))
	cmd.AddCommand(newDoctorCmd(&cfgPath))

	return cmd
}

func defaultConfigPath() string {
	return paths.ConfigFile()
}

func loadConfig(cfgPath string) (config.Config, error) {
	return config.Load(cfgPath)
}

func withConfig(cfgPath *string, fn func(config.Config) error) error {
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	return fn(cfg)
}

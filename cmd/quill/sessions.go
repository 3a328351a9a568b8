package main

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/pipe"
	"github.com/quillhq/quill/internal/transcript"
	"github.com/quillhq/quill/internal/ui"
)

func newSessionsCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "Manage recorded transcript sessions",
	}

	cmd.AddCommand(newSessionsListCmd(cfgPath))
	cmd.AddCommand(newSessionsShowCmd(cfgPath))
	cmd.AddCommand(newSessionsDeleteCmd(cfgPath))
	cmd.AddCommand(newSessionsRenameCmd(cfgPath))

	return cmd
}

// openStore opens the transcript store at the configured database path.
func openStore(cmd *cobra.Command, cfgPath *string) (*transcript.Store, config.Config, error) {
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return nil, config.Config{}, err
	}
	store, err := transcript.Open(cmd.Context(), cfg.Database())
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("open transcript store: %w", err)
	}
	return store, cfg, nil
}

// getSession resolves an ID or unique ID prefix to a session.
func getSession(cmd *cobra.Command, store *transcript.Store, query string) (transcript.Session, error) {
	sess, err := store.Get(cmd.Context(), query)
	if errors.Is(err, sql.ErrNoRows) {
		return transcript.Session{}, fmt.Errorf("no session found matching %q", query)
	}
	return sess, err
}

// pickSession shows a selector over the most recent sessions.
func pickSession(cmd *cobra.Command, store *transcript.Store, sessions []transcript.Session, prompt string) (transcript.Session, error) {
	options := make([]huh.Option[string], len(sessions))
	for i, s := range sessions {
		title := s.Title
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		label := fmt.Sprintf("%s  %s  %d events  %s",
			s.ID[:8],
			title,
			s.EventCount,
			formatTimeAgo(s.UpdatedAt),
		)
		options[i] = huh.NewOption(label, s.ID)
	}

	var selectedID string
	err := huh.NewSelect[string]().
		Title(prompt).
		Options(options...).
		Value(&selectedID).
		Run()
	if err != nil {
		return transcript.Session{}, err
	}

	return getSession(cmd, store, selectedID)
}

func newSessionsListCmd(cfgPath *string) *cobra.Command {
	var limit int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(cmd, cfgPath)
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}

			if len(sessions) == 0 {
				fmt.Println("No sessions recorded yet. Render with --record to save one.")
				return nil
			}

			// Styles
			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
			idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
			titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
			countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
			timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

			fmt.Println()
			fmt.Println(headerStyle.Render("  Sessions"))
			fmt.Println(headerStyle.Render("  " + strings.Repeat("-", 60)))
			fmt.Println()

			for _, s := range sessions {
				title := s.Title
				if len(title) > 48 {
					title = title[:45] + "..."
				}

				fmt.Printf("  %s  %s\n",
					idStyle.Render(s.ID[:8]),
					titleStyle.Render(title),
				)
				fmt.Printf("    %s  %s\n",
					countStyle.Render(fmt.Sprintf("(%d events)", s.EventCount)),
					timeStyle.Render(formatTimeAgo(s.UpdatedAt)),
				)
				fmt.Println()
			}

			fmt.Printf("  %s\n", countStyle.Render(fmt.Sprintf("%d sessions", len(sessions))))
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Int64VarP(&limit, "limit", "n", 20, "maximum number of sessions to show")

	return cmd
}

func newSessionsShowCmd(cfgPath *string) *cobra.Command {
	var expandDiffs bool

	cmd := &cobra.Command{
		Use:   "show [session-id]",
		Short: "Replay a recorded session",
		Long: `Replay a recorded session, re-rendered from its stored events.

On a terminal the transcript opens in a scrollable viewer where d toggles
full diff context. With stdout piped, the plain transcript is written
directly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := openStore(cmd, cfgPath)
			if err != nil {
				return err
			}
			defer store.Close()

			var sess transcript.Session

			if len(args) == 0 {
				sessions, err := store.List(cmd.Context(), 10)
				if err != nil {
					return fmt.Errorf("list sessions: %w", err)
				}
				if len(sessions) == 0 {
					fmt.Println("No sessions recorded yet.")
					return nil
				}
				sess, err = pickSession(cmd, store, sessions, "Select a session to show:")
				if err != nil {
					return err
				}
			} else {
				sess, err = getSession(cmd, store, args[0])
				if err != nil {
					return err
				}
			}

			if err := transcript.CheckFormatVersion(sess.FormatVersion); err != nil {
				return err
			}

			entries, err := store.Events(cmd.Context(), sess.ID)
			if err != nil {
				return fmt.Errorf("load events: %w", err)
			}
			if len(entries) == 0 {
				fmt.Println("No events in this session.")
				return nil
			}

			if pipe.IsStdoutPiped() {
				width := sess.Width
				if width <= 0 {
					width = cfg.FallbackWidth
				}
				fmt.Println(transcript.RenderEntries(entries, width, expandDiffs, false))
				return nil
			}

			title := fmt.Sprintf("Session: %s", sess.Title)
			info := fmt.Sprintf("(%d events · %s)", len(entries), formatTime(sess.CreatedAt))
			return ui.RunTranscriptViewer(title, info, expandDiffs, func(width int, expanded bool) string {
				return transcript.RenderEntries(entries, width, expanded, true)
			})
		},
	}

	cmd.Flags().BoolVar(&expandDiffs, "expand-diffs", false, "show every unchanged line in edit diffs")

	return cmd
}

func newSessionsDeleteCmd(cfgPath *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(cmd, cfgPath)
			if err != nil {
				return err
			}
			defer store.Close()

			sess, err := getSession(cmd, store, args[0])
			if err != nil {
				return err
			}

			// Confirm deletion unless --force
			if !force {
				var confirm bool
				err := huh.NewConfirm().
					Title(fmt.Sprintf("Delete session \"%s\"?", sess.Title)).
					Description(fmt.Sprintf("ID: %s (%d events)", sess.ID[:8], sess.EventCount)).
					Affirmative("Delete").
					Negative("Cancel").
					Value(&confirm).
					Run()
				if err != nil {
					return err
				}
				if !confirm {
					fmt.Println("Cancelled")
					return nil
				}
			}

			if err := store.Delete(cmd.Context(), sess.ID); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}

			fmt.Printf("Deleted session %s\n", sess.ID[:8])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")

	return cmd
}

func newSessionsRenameCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <session-id> <title>",
		Short: "Rename a recorded session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(cmd, cfgPath)
			if err != nil {
				return err
			}
			defer store.Close()

			sess, err := getSession(cmd, store, args[0])
			if err != nil {
				return err
			}

			if err := store.Rename(cmd.Context(), sess.ID, args[1]); err != nil {
				return fmt.Errorf("rename session: %w", err)
			}

			fmt.Printf("Renamed session %s to %q\n", sess.ID[:8], args[1])
			return nil
		},
	}

	return cmd
}

func formatTimeAgo(unixTime int64) string {
	t := time.Unix(unixTime, 0)
	d := time.Since(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("Jan 2, 2006")
	}
}

func formatTime(unixTime int64) string {
	t := time.Unix(unixTime, 0)
	return t.Format("Jan 2, 2006 3:04 PM")
}

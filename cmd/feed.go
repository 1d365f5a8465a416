package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/juanibiapina/pullrefresh/internal/config"
	"github.com/juanibiapina/pullrefresh/internal/feed"
	"github.com/spf13/cobra"
)

var feedListJSON bool

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Inspect and edit the demo feed",
	Long: `Inspect and edit the feed the TUI demo scrolls through.

Each entry records when a simulated fetch happened. A refresh prepends an
entry and a load-more appends one; these commands do the same without the UI.`,
}

var feedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List feed entries in display order",
	Long: `List feed entries in the order the TUI shows them.

Output format:
  #<id>  <fetched_at>  <relative time>`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFeed(func(store *feed.Store) error {
			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if feedListJSON {
				if entries == nil {
					entries = []feed.Entry{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Fprintln(out, "No entries found")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "#%d  %s  %s\n", e.ID, e.FetchedAt.Local().Format(time.DateTime), formatRelativeTime(e.FetchedAt))
			}
			return nil
		})
	},
}

var feedPrependCmd = &cobra.Command{
	Use:   "prepend",
	Short: "Add an entry at the top of the feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFeed(func(store *feed.Store) error {
			e, err := store.Prepend(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added #%d at the top\n", e.ID)
			return nil
		})
	},
}

var feedAppendCmd = &cobra.Command{
	Use:   "append",
	Short: "Add an entry at the bottom of the feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFeed(func(store *feed.Store) error {
			e, err := store.Append(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added #%d at the bottom\n", e.ID)
			return nil
		})
	},
}

var feedSeedCmd = &cobra.Command{
	Use:   "seed [rows]",
	Short: "Append entries going back in time",
	Long: `Append entries going back in time from now, 90 seconds apart.

Without an argument, seed_rows from the config file is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := currentConfig().Feed.SeedRows
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid row count %q", args[0])
			}
			rows = n
		}

		return withFeed(func(store *feed.Store) error {
			if err := store.Seed(cmd.Context(), rows, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d entries\n", rows)
			return nil
		})
	},
}

var feedClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entry from the feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFeed(func(store *feed.Store) error {
			n, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", n)
			return nil
		})
	},
}

// withFeed opens the configured feed database for the duration of fn.
func withFeed(fn func(*feed.Store) error) error {
	path := currentConfig().Feed.Database
	if err := config.EnsureDir(path); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := feed.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// formatRelativeTime formats a time as a human-readable relative string
func formatRelativeTime(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		return "just now"
	} else if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	} else if d < 24*time.Hour {
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(d.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}

func init() {
	RootCmd.AddCommand(feedCmd)
	feedCmd.AddCommand(feedListCmd, feedPrependCmd, feedAppendCmd, feedSeedCmd, feedClearCmd)
	feedListCmd.Flags().BoolVar(&feedListJSON, "json", false, "Output in JSON format")
}

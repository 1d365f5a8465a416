package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show overview and common usage patterns",
	Long:  `Display an overview of the demo, the headless tools and the feed commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), `pullrefresh - Pull to refresh for terminal lists

DEMO
  pullrefresh tui                 Drag the feed past either edge to refresh or load more

HEADLESS
  pullrefresh simulate --drag -50 --wait 300ms
                                  Run a gesture against a controller and print its trace
  pullrefresh simulate --script s.json
                                  Run a scripted scenario
  pullrefresh measure top --offset -50
                                  Show the trigger threshold for an offset

FEED
  pullrefresh feed list           List the demo feed
  pullrefresh feed prepend        Add an entry at the top (what a refresh does)
  pullrefresh feed append         Add an entry at the bottom (what a load-more does)
  pullrefresh feed seed [n]       Append n entries going back in time
  pullrefresh feed clear          Remove every entry

OTHER
  pullrefresh config show         Print the effective configuration
  pullrefresh mcp                 Serve the headless and feed tools over MCP

Use 'pullrefresh <command> --help' for details.`)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(overviewCmd)
}

package cmd

import (
	"github.com/juanibiapina/pullrefresh/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive demo",
	Long: `Launch a full-screen demo of pull to refresh and load more.

The demo shows a feed of fetch timestamps kept in a local database. A refresh
controller sits above the feed and a load-more controller below it.

LAYOUT:
  pullrefresh [Refresh][Load more]     ● enabled ● auto 10 rows
         ↓ pull to refresh
         ━━━━━━──────
   12:04:10  #11  just now
   12:02:40  #1   1 min ago
   ...
   r refresh  m load more  e enable  a auto  y copy  ? help  q quit

GESTURES:
  Drag the feed down past the top edge and release to refresh. Drag it up
  past the bottom edge to load more; with auto load more on, reaching the
  end is enough. The wheel scrolls without triggering either.

KEYBINDINGS:

  Navigation:
    ↑/k ↓/j   Move selection
    g/G       First/last row

  Actions:
    r         Refresh (as if pulled past the top)
    m         Load more
    e         Enable/disable both controllers
    a         Toggle auto load more
    y         Copy selected row

  General:
    ?         Show help
    q         Quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Start(currentConfig())
	},
}

func init() {
	RootCmd.AddCommand(tuiCmd)
}

package cmd

import (
	"github.com/juanibiapina/pullrefresh/internal/mcp"
	"github.com/juanibiapina/pullrefresh/internal/version"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server on stdio",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets AI agents run gesture scripts, measure thresholds and edit the
demo feed through the MCP protocol.

Example configuration for .mcp.json:
  {
    "mcpServers": {
      "pullrefresh": {
        "command": "pullrefresh",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(version.Version, currentConfig())
		return server.Serve()
	},
}

func init() {
	RootCmd.AddCommand(mcpCmd)
}

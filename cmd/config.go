package cmd

import (
	"fmt"

	"github.com/juanibiapina/pullrefresh/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long: `Show where configuration is read from and what it resolves to.

The config file is TOML. Every key is optional; missing keys keep their
defaults:

  [refresh]
  min_refresh_duration = "60s"
  auto_load_more = true
  show_above_content = false
  indicator_extent = 3
  animation_duration = "300ms"

  [feed]
  database = "<state dir>/feed.db"
  seed_rows = 10
  fetch_delay = "1s"

  [log]
  path = ""
  level = "info"`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultConfigPath()
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := currentConfig().Encode()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configShowCmd)
}

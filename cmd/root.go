package cmd

import (
	"fmt"
	"os"

	"github.com/juanibiapina/pullrefresh/internal/config"
	"github.com/juanibiapina/pullrefresh/internal/logging"
	"github.com/juanibiapina/pullrefresh/internal/telemetry"
	"github.com/juanibiapina/pullrefresh/internal/version"
	"github.com/spf13/cobra"
)

// skipTelemetry lists commands that handle their own telemetry or shouldn't be tracked
var skipTelemetry = map[string]bool{
	"mcp":        true, // has own telemetry
	"tui":        true, // has own telemetry
	"completion": true, // shell completion
	"__complete": true, // internal completion
}

var (
	cfgFile string
	cfg     *config.Config
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "pullrefresh",
	Short: "Pull-to-refresh and load-more for terminal lists",
	Long: `A pull-to-refresh and load-more controller for scrollable terminal views.

Drag the demo feed past its top edge to refresh it, or past its bottom edge
to load more. The same controller can be driven headlessly with gesture
scripts to see exactly when it triggers, loads and stops.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := logging.Init(cfg.Log.Path, cfg.Log.Level); err != nil {
			return err
		}
		telemetry.Init(cfg.Telemetry.PostHogKey, cfg.Telemetry.Endpoint)

		// Track CLI command usage (skip commands with own telemetry or completion)
		name := cmd.Name()
		if skipTelemetry[name] {
			return nil
		}
		if parent := cmd.Parent(); parent != nil && parent.Name() == "completion" {
			return nil
		}
		telemetry.CLICommandStart(name)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		telemetry.CLICommandEnd()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// When called without subcommands, show overview
		return overviewCmd.RunE(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		telemetry.Error(err)
	}
	telemetry.Flush()
	if err != nil {
		os.Exit(1)
	}
}

// currentConfig returns the loaded config, falling back to defaults when a
// command runs without the root pre-run (as in tests).
func currentConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

func init() {
	// Set version for --version flag
	RootCmd.Version = version.Version

	// Don't show usage on errors - only show it when explicitly requested
	RootCmd.SilenceUsage = true

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		fmt.Sprintf("config file (default is %s)", config.DefaultConfigPath()))
}

package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var directionNames = []string{"top", "left", "bottom", "right"}

// completeDirections provides completion for refresh directions
func completeDirections(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Only complete first argument for most commands
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, name := range directionNames {
		if strings.HasPrefix(name, toComplete) {
			completions = append(completions, name)
		}
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}

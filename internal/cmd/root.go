package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for featverify
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "featverify",
		Short: "Feature resolution test oracle",
		Long: `featverify compares expected feature resolution results against
actual results and reports every difference.

Case files (XML or YAML) describe resolution scenarios: a process type,
kernel features, root features and the resolved features they produced.
Cases are matched by key, and the resolved lists are compared as sets
with an order check.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		// main prints the returned error once
		SilenceErrors: true,
	}

	cmd.AddCommand(NewCompareCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewRebaseCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

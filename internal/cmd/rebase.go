package cmd

import (
	"fmt"
	"io"

	"github.com/harrison/featverify/internal/config"
	"github.com/harrison/featverify/internal/models"
	"github.com/harrison/featverify/internal/parser"
	"github.com/spf13/cobra"
)

// NewRebaseCommand creates the rebase command
func NewRebaseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebase <expected> <actual>",
		Short: "Write new expected results from actual results",
		Long: `Rebuild an expected case file from an actual run. Every expected case keeps
its name, description and input; its output (resolved, kernel-only and
kernel-blocked lists) and duration are taken from the actual case with the
same key. Expected cases with no actual counterpart are kept unchanged.

The output format follows the output file extension (.xml, .yaml, .yml),
so rebase also converts between formats. The write is atomic and locked
against concurrent writers.

Examples:
  featverify rebase expected.xml actual.xml -o expected.new.xml
  featverify rebase --include-extra expected.xml actual.xml -o expected.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputPath, _ := cmd.Flags().GetString("output")
			if outputPath == "" {
				outputPath = config.LoadEnv().Output
			}
			if outputPath == "" {
				return fmt.Errorf("output path is required (--output or %s)", config.OutputEnvVar)
			}
			includeExtra, _ := cmd.Flags().GetBool("include-extra")
			return rebaseCaseFile(args[0], args[1], outputPath, includeExtra, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringP("output", "o", "", "File to write the rebased cases to")
	cmd.Flags().Bool("include-extra", false, "Append actual cases that have no expected counterpart")

	return cmd
}

// rebaseStats counts what a rebase did
type rebaseStats struct {
	updated int
	kept    int
	added   int
}

// rebaseCaseFile rebases expectedPath onto actualPath and writes outputPath
func rebaseCaseFile(expectedPath, actualPath, outputPath string, includeExtra bool, output io.Writer) error {
	expected, err := parser.ParseFile(expectedPath)
	if err != nil {
		return err
	}
	actual, err := parser.ParseFile(actualPath)
	if err != nil {
		return err
	}

	rebased, stats := rebaseData(expected, actual, includeExtra)

	if err := parser.WriteFile(outputPath, rebased); err != nil {
		return fmt.Errorf("failed to write rebased cases: %w", err)
	}

	fmt.Fprintf(output, "Rebased %d of %d case(s) into %s", stats.updated, expected.Len(), outputPath)
	if stats.kept > 0 {
		fmt.Fprintf(output, ", %d kept without actual result", stats.kept)
	}
	if stats.added > 0 {
		fmt.Fprintf(output, ", %d added from actual", stats.added)
	}
	fmt.Fprintln(output)

	return nil
}

// rebaseData builds the rebased collection. Case order follows expected,
// then (with includeExtra) the actual-only cases in actual order.
func rebaseData(expected, actual *models.VerifyData, includeExtra bool) (*models.VerifyData, rebaseStats) {
	var stats rebaseStats
	actualCases := actual.KeyedCases()
	expectedKeys := make(map[string]bool, expected.Len())

	rebased := models.NewVerifyData(expected.Name)
	for _, c := range expected.Cases {
		key := c.Key()
		expectedKeys[key] = true

		if live, ok := actualCases.Get(key); ok {
			rebased.AddCase(c.CopyWithOutput(live.Output, live.Duration))
			stats.updated++
			continue
		}
		rebased.AddCase(c.Clone())
		stats.kept++
	}

	if includeExtra {
		for _, c := range actual.Cases {
			if expectedKeys[c.Key()] {
				continue
			}
			expectedKeys[c.Key()] = true
			rebased.AddCase(c.Clone())
			stats.added++
		}
	}

	return rebased, stats
}

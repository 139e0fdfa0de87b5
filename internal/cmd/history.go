package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/featverify/internal/config"
	"github.com/harrison/featverify/internal/display"
	"github.com/harrison/featverify/internal/history"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded comparison runs",
		Long: `List the most recent comparison runs recorded by compare, newest first.
With a run id, show that run's findings. With --schema, show the applied
database migrations.

The database lives at <home>/history/runs.db, where home is FEATVERIFY_HOME
or ./.featverify, unless history.db_path is configured.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .featverify/config.yaml)")
	cmd.Flags().Int("limit", 20, "Maximum number of runs to list (0 = all)")
	cmd.Flags().Bool("schema", false, "Show applied schema migrations instead of runs")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	// FEATVERIFY_HOME may come from .env, as it does for compare
	config.LoadEnv()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	output := cmd.OutOrStdout()

	dbPath, err := cfg.ResolveHistoryDBPath()
	if err != nil {
		return fmt.Errorf("failed to get history database path: %w", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(output, "No comparison runs recorded yet")
		return nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if schema, _ := cmd.Flags().GetBool("schema"); schema {
		return showSchema(ctx, store, output)
	}
	if len(args) == 1 {
		return showRun(ctx, store, args[0], output)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(output, "No comparison runs recorded yet")
		return nil
	}

	writeRunTable(output, runs)
	return nil
}

func writeRunTable(output io.Writer, runs []*history.Run) {
	colored := display.IsTerminal(output)

	tw := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tRESULT\tERRORS\tWARNINGS\tCASES\tEXPECTED")
	for _, run := range runs {
		result := paint(colored, color.FgGreen, "PASSED")
		if !run.Passed() {
			result = paint(colored, color.FgRed, "FAILED")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d/%d\t%s\n",
			shortID(run.ID),
			run.StartedAt.Local().Format(time.DateTime),
			result,
			run.ErrorCount,
			run.WarningCount,
			run.ActualCases, run.ExpectedCases,
			run.ExpectedPath)
	}
	tw.Flush()
}

func showRun(ctx context.Context, store *history.Store, id string, output io.Writer) error {
	fullID, err := store.ResolveRunID(ctx, id)
	if err != nil {
		return err
	}
	run, err := store.GetRun(ctx, fullID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", id)
	}

	findings, err := store.GetFindings(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("get findings: %w", err)
	}

	fmt.Fprintf(output, "Run %s\n", run.ID)
	fmt.Fprintf(output, "  Started:  %s\n", run.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(output, "  Expected: %s (%d cases)\n", run.ExpectedPath, run.ExpectedCases)
	fmt.Fprintf(output, "  Actual:   %s (%d cases)\n", run.ActualPath, run.ActualCases)
	fmt.Fprintf(output, "  Duration: %s\n", run.Duration)
	fmt.Fprintf(output, "  Errors:   %d\n", run.ErrorCount)
	fmt.Fprintf(output, "  Warnings: %d\n", run.WarningCount)

	if len(findings) == 0 {
		return nil
	}
	fmt.Fprintln(output, "\nFindings:")
	for _, f := range findings {
		fmt.Fprintf(output, "  %-7s [%s] %s\n", f.Severity, f.CaseKey, f.Message)
	}
	return nil
}

func showSchema(ctx context.Context, store *history.Store, output io.Writer) error {
	latest, err := store.GetLatestVersion(ctx)
	if err != nil {
		return err
	}
	versions, err := store.GetAppliedVersions(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Database: %s\n", store.Path())
	fmt.Fprintf(output, "Schema version: %d\n", latest)
	for _, v := range versions {
		fmt.Fprintf(output, "  v%d applied %s\n", v.Version, v.AppliedAt.Local().Format(time.DateTime))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/harrison/featverify/internal/config"
	"github.com/harrison/featverify/internal/display"
	"github.com/harrison/featverify/internal/filelock"
	"github.com/harrison/featverify/internal/fileutil"
	"github.com/harrison/featverify/internal/history"
	"github.com/harrison/featverify/internal/logger"
	"github.com/harrison/featverify/internal/models"
	"github.com/harrison/featverify/internal/parser"
	"github.com/harrison/featverify/internal/report"
	"github.com/harrison/featverify/internal/verify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [expected] [actual]",
		Short: "Compare expected case results against actual results",
		Long: `Compare an expected case file against an actual case file, or every case
file in an expected directory against the file with the same relative path
in an actual directory.

Paths default to FEATVERIFY_EXPECTED and FEATVERIFY_ACTUAL, which may also
be set in a .env file. Configuration is loaded from .featverify/config.yaml
if present. CLI flags override configuration file settings.

Examples:
  featverify compare expected.xml actual.xml
  featverify compare --repo repo.xml expected/ actual/
  featverify compare --strict-order --format markdown -o report.md expected.xml actual.xml

Exit code: 0 if no errors were found, 1 otherwise`,
		Args: cobra.MaximumNArgs(2),
		RunE: runCompare,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .featverify/config.yaml)")
	cmd.Flags().String("repo", "", "Feature repository XML used to annotate missing and extra features")
	cmd.Flags().String("format", "", "Report format: text, yaml, markdown, html (default from config)")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().Bool("strict-order", false, "Report resolved order differences as errors")
	cmd.Flags().Bool("continue-after-missing", false, "Keep comparing matched cases when an expected case is missing")
	cmd.Flags().Bool("report-duplicates", false, "Warn about case keys that occur more than once")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().Int("max-concurrency", -1, "Maximum parallel file comparisons (0 = unlimited, -1 = use config)")

	return cmd
}

// compareJob is one expected/actual pair to compare
type compareJob struct {
	name     string
	expected string
	actual   string
}

// compareRequest is everything a comparison run needs after flag handling
type compareRequest struct {
	jobs           []compareJob
	options        verify.Options
	maxConcurrency int
	log            logger.Logger
	progress       *display.ProgressIndicator
}

func runCompare(cmd *cobra.Command, args []string) error {
	env := config.LoadEnv()

	expectedPath, actualPath, err := resolvePair(args, env)
	if err != nil {
		return err
	}

	cfg, err := loadCompareConfig(cmd)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	consoleLog := logger.NewConsoleLogger(stderr, cfg.LogLevel)
	log := logger.Logger(consoleLog)
	if cfg.LogDir != "" {
		fileLog, err := logger.NewFileLogger(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			consoleLog.LogWarn(fmt.Sprintf("file logging disabled: %v", err))
		} else {
			defer fileLog.Close()
			consoleLog.LogDebug(fmt.Sprintf("run log: %s", fileLog.RunFile()))
			log = logger.MultiLogger{consoleLog, fileLog}
		}
	}

	opts := verify.Options{
		StrictOrder:         cfg.StrictOrder,
		CompareAfterMissing: cfg.ContinueAfterMissing,
		ReportDuplicates:    cfg.ReportDuplicates,
	}

	repoPath, _ := cmd.Flags().GetString("repo")
	if repoPath == "" {
		repoPath = env.Repo
	}
	if repoPath != "" {
		repo, err := parser.ParseRepositoryFile(repoPath)
		if err != nil {
			return fmt.Errorf("failed to load repository: %w", err)
		}
		log.LogDebug(fmt.Sprintf("loaded %d features from %s", repo.Len(), repoPath))
		opts.Repository = repo
	}

	req := &compareRequest{
		options:        opts,
		maxConcurrency: cfg.MaxConcurrency,
		log:            log,
	}

	rep := report.New()

	dirMode, err := isDirPair(expectedPath, actualPath)
	if err != nil {
		return err
	}
	var pairs *fileutil.PairResult
	if dirMode {
		pairs, err = fileutil.PairCaseFiles(expectedPath, actualPath)
		if err != nil {
			return err
		}
		for _, scanErr := range pairs.Errors {
			log.LogWarn(scanErr.Error())
		}
		if len(pairs.ExpectedOnly) > 0 {
			display.WarnUnpairedFiles("expected", pairs.ExpectedOnly).Display(stderr)
		}
		if len(pairs.ActualOnly) > 0 {
			display.WarnUnpairedFiles("actual", pairs.ActualOnly).Display(stderr)
		}
		for _, p := range pairs.Matched {
			req.jobs = append(req.jobs, compareJob{name: p.Name, expected: p.Expected, actual: p.Actual})
		}
		if len(req.jobs) == 0 && len(pairs.ExpectedOnly) == 0 {
			return fmt.Errorf("no case files found in %s", expectedPath)
		}
		req.progress = display.NewProgressIndicator(stderr, len(req.jobs))
		req.progress.Start()
	} else {
		display.DisplaySingleFile(stderr, expectedPath, actualPath)
		req.jobs = []compareJob{{name: filepath.Base(expectedPath), expected: expectedPath, actual: actualPath}}
	}

	results, err := compareJobs(cmd.Context(), req)
	if err != nil {
		return err
	}
	if req.progress != nil {
		req.progress.Complete()
	}
	for _, res := range results {
		rep.Add(res)
	}
	if pairs != nil {
		addUnpairedResults(rep, pairs, expectedPath, actualPath)
	}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	if cfg.History.Enabled && !noHistory {
		if err := recordHistory(cmd.Context(), cfg, rep); err != nil {
			log.LogWarn(fmt.Sprintf("history not recorded: %v", err))
		}
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = env.Output
	}
	if err := writeReport(cmd.Context(), cmd.OutOrStdout(), outputPath, cfg.Report.Format, rep); err != nil {
		return err
	}
	if outputPath != "" {
		log.LogInfo(fmt.Sprintf("report written to %s", outputPath))
	}

	if n := rep.Errors(); n > 0 {
		return fmt.Errorf("verification failed with %d error(s)", n)
	}
	return nil
}

// resolvePair picks the expected and actual paths from args, falling back to
// the environment
func resolvePair(args []string, env config.VerifyEnv) (string, string, error) {
	if len(args) == 0 && env.HasPair() {
		return env.Expected, env.Actual, nil
	}

	expected, actual := env.Expected, env.Actual
	if len(args) > 0 {
		expected = args[0]
	}
	if len(args) > 1 {
		actual = args[1]
	}
	if expected == "" || actual == "" {
		return "", "", fmt.Errorf("expected and actual paths are required (arguments or %s/%s)",
			config.ExpectedEnvVar, config.ActualEnvVar)
	}
	return expected, actual, nil
}

// loadCompareConfig loads the config file and applies changed flags
func loadCompareConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	var (
		logLevel, format                              *string
		maxConcurrency                                *int
		strictOrder, continueAfterMissing, duplicates *bool
	)
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		logLevel = &v
	}
	if flags.Changed("format") {
		v, _ := flags.GetString("format")
		format = &v
	}
	if v, _ := flags.GetInt("max-concurrency"); v >= 0 {
		maxConcurrency = &v
	}
	if flags.Changed("strict-order") {
		v, _ := flags.GetBool("strict-order")
		strictOrder = &v
	}
	if flags.Changed("continue-after-missing") {
		v, _ := flags.GetBool("continue-after-missing")
		continueAfterMissing = &v
	}
	if flags.Changed("report-duplicates") {
		v, _ := flags.GetBool("report-duplicates")
		duplicates = &v
	}
	cfg.MergeWithFlags(logLevel, maxConcurrency, strictOrder, continueAfterMissing, duplicates, format)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadConfig reads --config when given, otherwise .featverify/config.yaml
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
		return cfg, nil
	}

	cfg, err := config.LoadConfigFromDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// isDirPair reports whether both paths are directories. Mixing a file and a
// directory is an error.
func isDirPair(expected, actual string) (bool, error) {
	expectedInfo, err := os.Stat(expected)
	if err != nil {
		return false, fmt.Errorf("failed to access expected path: %w", err)
	}
	actualInfo, err := os.Stat(actual)
	if err != nil {
		return false, fmt.Errorf("failed to access actual path: %w", err)
	}
	if expectedInfo.IsDir() != actualInfo.IsDir() {
		return false, fmt.Errorf("cannot compare %s with %s: both must be files or both directories", expected, actual)
	}
	return expectedInfo.IsDir(), nil
}

// compareJobs runs every job, each in its own goroutine with its own Delta.
// Results keep job order.
func compareJobs(ctx context.Context, req *compareRequest) ([]report.FileResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]report.FileResult, len(req.jobs))

	g, ctx := errgroup.WithContext(ctx)
	if req.maxConcurrency > 0 {
		g.SetLimit(req.maxConcurrency)
	}

	for i, job := range req.jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := compareOne(job, req.options, req.log)
			if err != nil {
				return err
			}
			results[i] = res
			if req.progress != nil {
				req.progress.Step(job.name, res.Passed())
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// compareOne loads and compares a single pair
func compareOne(job compareJob, opts verify.Options, log logger.Logger) (report.FileResult, error) {
	start := time.Now()
	log.LogCompareStart(job.expected, job.actual)

	expected, err := parser.ParseFile(job.expected)
	if err != nil {
		return report.FileResult{}, fmt.Errorf("expected %s: %w", job.name, err)
	}
	actual, err := parser.ParseFile(job.actual)
	if err != nil {
		return report.FileResult{}, fmt.Errorf("actual %s: %w", job.name, err)
	}

	delta := verify.NewDelta(opts)
	delta.DoCompare(expected, actual)

	findings := delta.Findings()
	for _, f := range findings {
		log.LogFinding(f.CaseKey, f.Severity, f.Message)
	}

	summary := models.RunSummary{
		ExpectedPath:  job.expected,
		ActualPath:    job.actual,
		ExpectedCases: expected.Len(),
		ActualCases:   actual.Len(),
		Errors:        delta.ErrorCount(),
		Warnings:      delta.WarningCount(),
		Duration:      time.Since(start),
	}
	log.LogSummary(summary)

	return report.FileResult{Name: job.name, Summary: summary, Findings: findings}, nil
}

// addUnpairedResults turns files present on one side only into findings:
// a missing actual file is an error, an extra actual file a warning
func addUnpairedResults(rep *report.Report, pairs *fileutil.PairResult, expectedDir, actualDir string) {
	for _, name := range pairs.ExpectedOnly {
		rep.Add(report.FileResult{
			Name: name,
			Summary: models.RunSummary{
				ExpectedPath: filepath.Join(expectedDir, name),
				Errors:       1,
			},
			Findings: []models.Finding{{
				CaseKey:  verify.GlobalKey,
				Severity: models.SeverityError,
				Message:  fmt.Sprintf("Missing actual file [%s]", name),
			}},
		})
	}
	for _, name := range pairs.ActualOnly {
		rep.Add(report.FileResult{
			Name: name,
			Summary: models.RunSummary{
				ActualPath: filepath.Join(actualDir, name),
				Warnings:   1,
			},
			Findings: []models.Finding{{
				CaseKey:  verify.GlobalKey,
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("Extra actual file [%s]", name),
			}},
		})
	}
}

// recordHistory stores every compared pair as a run and prunes old runs
func recordHistory(ctx context.Context, cfg *config.Config, rep *report.Report) error {
	if ctx == nil {
		ctx = context.Background()
	}
	dbPath, err := cfg.ResolveHistoryDBPath()
	if err != nil {
		return err
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	for i := range rep.Results {
		res := &rep.Results[i]
		if res.Summary.ExpectedPath == "" || res.Summary.ActualPath == "" {
			continue
		}
		run := history.NewRun(res.Summary, rep.GeneratedAt)
		id, err := store.RecordRun(ctx, run, res.Findings)
		if err != nil {
			return err
		}
		res.RunID = id
	}

	if _, err := store.PruneRuns(ctx, cfg.History.KeepRuns); err != nil {
		return err
	}
	return nil
}

// writeReport renders rep to outputPath with a locked atomic write, or to
// stdout when outputPath is empty
func writeReport(ctx context.Context, stdout io.Writer, outputPath, format string, rep *report.Report) error {
	colored := outputPath == "" && display.IsTerminal(stdout)
	renderer, err := report.NewRenderer(format, colored)
	if err != nil {
		return err
	}

	if outputPath == "" {
		return renderer.Render(stdout, rep)
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, rep); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, filelock.DefaultLockTimeout)
	defer cancel()
	if err := filelock.LockAndWriteContext(ctx, outputPath, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/harrison/featverify/internal/display"
	"github.com/harrison/featverify/internal/fileutil"
	"github.com/harrison/featverify/internal/models"
	"github.com/harrison/featverify/internal/parser"
	"github.com/spf13/cobra"
)

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <case-file-or-directory>...",
		Short: "Validate one or more case files or directories",
		Long: `Parse case files and check them for:
  - Parse errors (malformed XML/YAML, bad durations, client and server both set)
  - Duplicate case keys (a later case silently replaces an earlier one)
  - Cases with an empty resolved list
  - Resolved features unknown to the repository (with --repo)

Directories are scanned recursively for .xml, .yaml and .yml files.

Exit code: 0 if every file parses, 1 otherwise`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoPath, _ := cmd.Flags().GetString("repo")
			var repo models.FeatureRepository
			if repoPath != "" {
				r, err := parser.ParseRepositoryFile(repoPath)
				if err != nil {
					return fmt.Errorf("failed to load repository: %w", err)
				}
				repo = r
			}
			return validateCaseFiles(args, repo, cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("repo", "", "Feature repository XML to check resolved features against")

	return cmd
}

// validateCaseFiles validates every case file named by paths
func validateCaseFiles(paths []string, repo models.FeatureRepository, output io.Writer) error {
	files, err := expandCaseFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no case files found")
	}

	colored := display.IsTerminal(output)
	ok := paint(colored, color.FgGreen, "✓")
	bad := paint(colored, color.FgRed, "✗")

	invalid := 0
	for _, path := range files {
		data, err := parser.ParseFile(path)
		if err != nil {
			invalid++
			fmt.Fprintf(output, "%s %s: %v\n", bad, path, err)
			continue
		}

		fmt.Fprintf(output, "%s %s: %d case(s)\n", ok, path, data.Len())
		for _, w := range caseWarnings(path, data, repo) {
			w.Display(output)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("validation failed: %d of %d file(s) invalid", invalid, len(files))
	}
	return nil
}

// caseWarnings returns the non-fatal problems of a parsed case file
func caseWarnings(path string, data *models.VerifyData, repo models.FeatureRepository) []display.Warning {
	var warnings []display.Warning

	if _, duplicates := data.KeyedCasesWithDuplicates(); len(duplicates) > 0 {
		warnings = append(warnings, display.Warning{
			Title:      fmt.Sprintf("%d duplicate case key(s) in %s", len(duplicates), path),
			Message:    "Only the last case with each key is compared: " + quoteJoin(duplicates),
			Suggestion: "Give each case a distinct process, kernel or root set",
		})
	}

	var empty []string
	for _, c := range data.Cases {
		if len(c.Output.Resolved) == 0 {
			empty = append(empty, c.Name)
		}
	}
	if len(empty) > 0 {
		warnings = append(warnings, display.Warning{
			Title:   fmt.Sprintf("%d case(s) with no resolved features in %s", len(empty), path),
			Message: "Cases: " + quoteJoin(empty),
		})
	}

	if repo != nil {
		seen := make(map[string]bool)
		var unknown []string
		for _, c := range data.Cases {
			for _, name := range c.Output.Resolved {
				if _, found := repo.Lookup(name); !found && !seen[name] {
					seen[name] = true
					unknown = append(unknown, name)
				}
			}
		}
		if len(unknown) > 0 {
			warnings = append(warnings, display.Warning{
				Title:      fmt.Sprintf("%d resolved feature(s) not in repository", len(unknown)),
				Message:    "Features: " + quoteJoin(unknown),
				Files:      []string{path},
				Suggestion: "Regenerate the repository or check the feature names",
			})
		}
	}

	return warnings
}

// expandCaseFiles replaces directories with the case files below them
func expandCaseFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access path: %w", err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		scan, err := fileutil.ScanCaseFiles(path)
		if err != nil {
			return nil, err
		}
		files = append(files, scan.Files...)
	}
	return files, nil
}

func quoteJoin(values []string) string {
	return "[" + strings.Join(values, "], [") + "]"
}

func paint(enabled bool, attr color.Attribute, s string) string {
	c := color.New(attr)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

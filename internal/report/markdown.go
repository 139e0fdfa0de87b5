package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// MarkdownRenderer writes a GitHub flavored Markdown report
type MarkdownRenderer struct{}

// Render writes the report: a summary table, then one section per file
func (m *MarkdownRenderer) Render(w io.Writer, r *Report) error {
	var b strings.Builder

	b.WriteString("# Verification Report\n\n")
	fmt.Fprintf(&b, "Generated %s. Result: **%s** with %d error(s) and %d warning(s).\n\n",
		r.GeneratedAt.UTC().Format(time.RFC3339), status(r.Passed()), r.Errors(), r.Warnings())

	b.WriteString("| File | Expected cases | Actual cases | Errors | Warnings | Result |\n")
	b.WriteString("|---|---:|---:|---:|---:|---|\n")
	for _, res := range r.Results {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %d | %s |\n",
			escapeCell(res.Name), res.Summary.ExpectedCases, res.Summary.ActualCases,
			res.Summary.Errors, res.Summary.Warnings, status(res.Passed()))
	}

	for _, res := range r.Results {
		errors, warnings := groupFindings(res.Findings)
		if len(errors) == 0 && len(warnings) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n", escapeInline(res.Name))
		writeMarkdownGroups(&b, "Errors", errors)
		writeMarkdownGroups(&b, "Warnings", warnings)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeMarkdownGroups(b *strings.Builder, title string, groups []caseGroup) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n", title)
	for _, g := range groups {
		fmt.Fprintf(b, "\n#### `%s`\n\n", g.key)
		for _, msg := range g.messages {
			fmt.Fprintf(b, "- %s\n", escapeInline(msg))
		}
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(escapeInline(s), "|", "\\|")
}

// inlineEscaper keeps bracketed feature names from turning into links or HTML
var inlineEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"[", "\\[",
	"]", "\\]",
	"<", "&lt;",
	">", "&gt;",
	"*", "\\*",
	"_", "\\_",
	"`", "\\`",
)

func escapeInline(s string) string {
	return inlineEscaper.Replace(s)
}

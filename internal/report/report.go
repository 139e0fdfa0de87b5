// Package report renders comparison results for people and tools.
//
// A Report holds one FileResult per compared pair. Renderers write it as
// colored terminal text, YAML, Markdown, or HTML produced from the Markdown
// with goldmark.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/harrison/featverify/internal/models"
)

// Format names accepted by NewRenderer
const (
	FormatText     = "text"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// FileResult is the outcome of comparing one expected/actual pair
type FileResult struct {
	Name     string
	Summary  models.RunSummary
	Findings []models.Finding
	RunID    string // History run id, empty when history is disabled
}

// Passed reports whether the pair produced no errors
func (f FileResult) Passed() bool {
	return f.Summary.Passed()
}

// Report aggregates the results of one compare invocation
type Report struct {
	GeneratedAt time.Time
	Results     []FileResult
}

// New creates an empty report stamped with the current time
func New() *Report {
	return &Report{GeneratedAt: time.Now()}
}

// Add appends a file result
func (r *Report) Add(result FileResult) {
	r.Results = append(r.Results, result)
}

// Errors returns the total error count across all files
func (r *Report) Errors() int {
	total := 0
	for _, res := range r.Results {
		total += res.Summary.Errors
	}
	return total
}

// Warnings returns the total warning count across all files
func (r *Report) Warnings() int {
	total := 0
	for _, res := range r.Results {
		total += res.Summary.Warnings
	}
	return total
}

// Passed reports whether every file passed
func (r *Report) Passed() bool {
	return r.Errors() == 0
}

// Renderer writes a report in one output format
type Renderer interface {
	Render(w io.Writer, r *Report) error
}

// NewRenderer returns the renderer for format. colored only affects text.
func NewRenderer(format string, colored bool) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return &TextRenderer{Color: colored}, nil
	case FormatYAML, "yml":
		return &YAMLRenderer{}, nil
	case FormatMarkdown, "md":
		return &MarkdownRenderer{}, nil
	case FormatHTML:
		return NewHTMLRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want text, yaml, markdown or html)", format)
	}
}

// caseGroup is the findings of one severity for one case key
type caseGroup struct {
	key      string
	messages []string
}

// groupFindings splits findings by severity and groups them by case key in
// order of first appearance
func groupFindings(findings []models.Finding) (errors, warnings []caseGroup) {
	group := func(severity string) []caseGroup {
		var groups []caseGroup
		index := make(map[string]int)
		for _, f := range findings {
			if f.Severity != severity {
				continue
			}
			i, ok := index[f.CaseKey]
			if !ok {
				i = len(groups)
				index[f.CaseKey] = i
				groups = append(groups, caseGroup{key: f.CaseKey})
			}
			groups[i].messages = append(groups[i].messages, f.Message)
		}
		return groups
	}
	return group(models.SeverityError), group(models.SeverityWarning)
}

func status(passed bool) string {
	if passed {
		return "PASSED"
	}
	return "FAILED"
}

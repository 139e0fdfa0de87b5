package report

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

type yamlReport struct {
	GeneratedAt string     `yaml:"generated_at"`
	Passed      bool       `yaml:"passed"`
	Errors      int        `yaml:"errors"`
	Warnings    int        `yaml:"warnings"`
	Files       []yamlFile `yaml:"files"`
}

type yamlFile struct {
	Name          string              `yaml:"name"`
	RunID         string              `yaml:"run_id,omitempty"`
	Expected      string              `yaml:"expected"`
	Actual        string              `yaml:"actual"`
	ExpectedCases int                 `yaml:"expected_cases"`
	ActualCases   int                 `yaml:"actual_cases"`
	Passed        bool                `yaml:"passed"`
	DurationMs    int64               `yaml:"duration_ms"`
	Errors        map[string][]string `yaml:"errors,omitempty"`
	Warnings      map[string][]string `yaml:"warnings,omitempty"`
}

// YAMLRenderer writes a machine readable report
type YAMLRenderer struct{}

// Render writes the report as YAML. Case keys become map keys, so their
// order follows yaml.v3's sorted map encoding.
func (y *YAMLRenderer) Render(w io.Writer, r *Report) error {
	doc := yamlReport{
		GeneratedAt: r.GeneratedAt.UTC().Format(time.RFC3339),
		Passed:      r.Passed(),
		Errors:      r.Errors(),
		Warnings:    r.Warnings(),
		Files:       make([]yamlFile, 0, len(r.Results)),
	}

	for _, res := range r.Results {
		errors, warnings := groupFindings(res.Findings)
		doc.Files = append(doc.Files, yamlFile{
			Name:          res.Name,
			RunID:         res.RunID,
			Expected:      res.Summary.ExpectedPath,
			Actual:        res.Summary.ActualPath,
			ExpectedCases: res.Summary.ExpectedCases,
			ActualCases:   res.Summary.ActualCases,
			Passed:        res.Passed(),
			DurationMs:    res.Summary.Duration.Milliseconds(),
			Errors:        groupMap(errors),
			Warnings:      groupMap(warnings),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML report: %w", err)
	}
	return enc.Close()
}

func groupMap(groups []caseGroup) map[string][]string {
	if len(groups) == 0 {
		return nil
	}
	m := make(map[string][]string, len(groups))
	for _, g := range groups {
		m[g.key] = g.messages
	}
	return m
}

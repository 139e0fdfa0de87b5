package verify

import (
	"fmt"

	"github.com/harrison/featverify/internal/models"
)

// GlobalKey is the findings key for dataset level mismatches
const GlobalKey = "global results"

// Options configures a Delta
type Options struct {
	// Repository annotates missing and extra features
	Repository models.FeatureRepository

	// StrictOrder reports order differences as errors instead of warnings
	StrictOrder bool

	// CompareAfterMissing keeps comparing matched cases after an expected case
	// was found missing from actual. The legacy behavior (false) stops the
	// comparison as soon as any expected case is missing.
	CompareAfterMissing bool

	// ReportDuplicates adds a global warning for every case key that was
	// overwritten by a later case in either collection
	ReportDuplicates bool
}

// Delta holds the findings of one expected vs actual comparison.
// A Delta is not safe for concurrent use; use one per goroutine.
type Delta struct {
	opts     Options
	Errors   *models.OrderedMap[string, []string]
	Warnings *models.OrderedMap[string, []string]
}

// NewDelta creates an empty Delta
func NewDelta(opts Options) *Delta {
	return &Delta{
		opts:     opts,
		Errors:   models.NewOrderedMap[string, []string](),
		Warnings: models.NewOrderedMap[string, []string](),
	}
}

// Compare runs a default comparison and returns the errors by case key
func Compare(expected, actual *models.VerifyData) *models.OrderedMap[string, []string] {
	d := NewDelta(Options{})
	d.DoCompare(expected, actual)
	return d.Errors
}

// DoCompare compares expected against actual and records the findings
func (d *Delta) DoCompare(expected, actual *models.VerifyData) {
	if expected.Len() != actual.Len() {
		d.addGlobalError(fmt.Sprintf("Incorrect case count; expected [%d] actual [%d]", expected.Len(), actual.Len()))
	}

	expectedCases, expectedDups := expected.KeyedCasesWithDuplicates()
	actualCases, actualDups := actual.KeyedCasesWithDuplicates()

	if d.opts.ReportDuplicates {
		for _, key := range expectedDups {
			d.addGlobalWarning(fmt.Sprintf("Duplicate case [%s] in expected", key))
		}
		for _, key := range actualDups {
			d.addGlobalWarning(fmt.Sprintf("Duplicate case [%s] in actual", key))
		}
	}

	for _, key := range actualCases.Keys() {
		if !expectedCases.Has(key) {
			d.addGlobalError(fmt.Sprintf("Extra case [%s]", key))
		}
	}

	missing := false
	for _, key := range expectedCases.Keys() {
		if !actualCases.Has(key) {
			d.addGlobalError(fmt.Sprintf("Missing case [%s]", key))
			missing = true
		}
	}
	if missing && !d.opts.CompareAfterMissing {
		return
	}

	expectedCases.Range(func(key string, expectedCase *models.VerifyCase) bool {
		actualCase, ok := actualCases.Get(key)
		if !ok {
			return true
		}
		d.compareCase(key, expectedCase, actualCase)
		return true
	})
}

func (d *Delta) compareCase(key string, expectedCase, actualCase *models.VerifyCase) {
	var warnings []string
	opts := ListOptions{Repository: d.opts.Repository}
	if !d.opts.StrictOrder {
		opts.Warnings = &warnings
	}

	errors := CompareLists(expectedCase.Output.Resolved, actualCase.Output.Resolved, opts)
	if len(errors) > 0 {
		d.Errors.Set(key, errors)
	}
	if len(warnings) > 0 {
		d.Warnings.Set(key, warnings)
	}
}

func (d *Delta) addGlobalError(msg string) {
	appendFinding(d.Errors, GlobalKey, msg)
}

func (d *Delta) addGlobalWarning(msg string) {
	appendFinding(d.Warnings, GlobalKey, msg)
}

func appendFinding(m *models.OrderedMap[string, []string], key, msg string) {
	existing, _ := m.Get(key)
	m.Set(key, append(existing, msg))
}

// HasErrors reports whether any error was recorded
func (d *Delta) HasErrors() bool {
	return d.Errors.Len() > 0
}

// HasWarnings reports whether any warning was recorded
func (d *Delta) HasWarnings() bool {
	return d.Warnings.Len() > 0
}

// ErrorCount returns the total number of error findings
func (d *Delta) ErrorCount() int {
	return countFindings(d.Errors)
}

// WarningCount returns the total number of warning findings
func (d *Delta) WarningCount() int {
	return countFindings(d.Warnings)
}

func countFindings(m *models.OrderedMap[string, []string]) int {
	total := 0
	m.Range(func(_ string, findings []string) bool {
		total += len(findings)
		return true
	})
	return total
}

// Findings flattens the delta into a list: all errors in key order, then all
// warnings in key order
func (d *Delta) Findings() []models.Finding {
	var out []models.Finding
	collect := func(m *models.OrderedMap[string, []string], severity string) {
		m.Range(func(key string, messages []string) bool {
			for _, msg := range messages {
				out = append(out, models.Finding{CaseKey: key, Severity: severity, Message: msg})
			}
			return true
		})
	}
	collect(d.Errors, models.SeverityError)
	collect(d.Warnings, models.SeverityWarning)
	return out
}

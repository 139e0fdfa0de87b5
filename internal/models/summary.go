package models

import "time"

// RunSummary describes one expected vs actual comparison
type RunSummary struct {
	ExpectedPath  string        // Expected case file
	ActualPath    string        // Actual case file
	ExpectedCases int           // Cases in the expected file
	ActualCases   int           // Cases in the actual file
	Errors        int           // Error findings
	Warnings      int           // Warning findings
	Duration      time.Duration // Time taken to load and compare
}

// Passed reports whether the comparison produced no errors
func (s RunSummary) Passed() bool {
	return s.Errors == 0
}

// Severity levels for findings
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Finding is one comparison message attributed to a case key
type Finding struct {
	CaseKey  string
	Severity string
	Message  string
}

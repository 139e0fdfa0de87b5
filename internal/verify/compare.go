// Package verify compares expected and actual feature resolution results.
//
// CompareLists diffs two resolved feature lists. Delta runs CompareLists over
// every case two VerifyData collections have in common and records findings
// per case key. Findings are plain strings split into errors and warnings;
// nothing in this package returns an error or panics because data differs.
package verify

import (
	"fmt"

	"github.com/harrison/featverify/internal/models"
)

// unknownFeature annotates a missing or extra feature the repository does not know
const unknownFeature = "MISSING"

// ListOptions carries the optional collectors for CompareLists.
// The zero value collects nothing extra, annotates nothing, and reports
// order differences as errors.
type ListOptions struct {
	// Errors are existing errors to append to
	Errors []string

	// Warnings receives the order error when non-nil
	Warnings *[]string

	// Missing receives expected elements absent from actual
	Missing *[]string

	// Extra receives actual elements absent from expected
	Extra *[]string

	// Repository annotates missing and extra elements with feature metadata
	Repository models.FeatureRepository
}

// CompareLists compares two resolved feature lists and returns the accumulated
// errors. The result is nil when there were no errors on entry and none were found.
func CompareLists(expected, actual []string, opts ListOptions) []string {
	errors := opts.Errors

	if len(actual) != len(expected) {
		errors = append(errors, fmt.Sprintf("Incorrect count: expected [%d] actual [%d]", len(expected), len(actual)))
	}

	expectedSet := toSet(expected)
	actualSet := toSet(actual)

	for _, name := range uniqueInOrder(expected) {
		if actualSet[name] {
			continue
		}
		errors = append(errors, "Missing "+describe(name, opts.Repository))
		if opts.Missing != nil {
			*opts.Missing = append(*opts.Missing, name)
		}
	}

	for _, name := range uniqueInOrder(actual) {
		if expectedSet[name] {
			continue
		}
		errors = append(errors, "Extra "+describe(name, opts.Repository))
		if opts.Extra != nil {
			*opts.Extra = append(*opts.Extra, name)
		}
	}

	if orderErr := firstOrderError(expected, actual); orderErr != "" {
		if opts.Warnings != nil {
			*opts.Warnings = append(*opts.Warnings, orderErr)
		} else {
			errors = append(errors, orderErr)
		}
	}

	return errors
}

// firstOrderError returns a message for the first position where the lists
// differ, or "" when the common prefix matches.
func firstOrderError(expected, actual []string) string {
	n := min(len(expected), len(actual))
	for i := 0; i < n; i++ {
		if expected[i] != actual[i] {
			return fmt.Sprintf("Order error at [%d]: Expected [%s] Actual [%s]", i, expected[i], actual[i])
		}
	}
	return ""
}

// describe formats an element for a missing/extra message.
// Without a repository: "[ name ]". With one: "[ name ] [ visibility kind ]"
// or "[ name ] [ MISSING ]".
func describe(name string, repo models.FeatureRepository) string {
	base := "[ " + name + " ]"
	if repo == nil {
		return base
	}

	feature, ok := repo.Lookup(name)
	if !ok {
		return base + " [ " + unknownFeature + " ]"
	}
	return fmt.Sprintf("%s [ %s %s ]", base, feature.Visibility, feature.Kind)
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func uniqueInOrder(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

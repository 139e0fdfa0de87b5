package fileutil

import (
	"fmt"
	"path/filepath"
	"sort"
)

// CaseFileExtensions are the extensions recognised as case files
var CaseFileExtensions = []string{".xml", ".yaml", ".yml"}

// FilePair is an expected file and the actual file with the same relative path
type FilePair struct {
	Name     string // Path relative to the compared directories
	Expected string
	Actual   string
}

// PairResult holds the outcome of pairing two directories
type PairResult struct {
	Matched      []FilePair
	ExpectedOnly []string // Relative paths with no actual counterpart
	ActualOnly   []string // Relative paths with no expected counterpart
	Errors       []error  // Non-fatal scan errors from either side
}

// ScanCaseFiles returns the case files below dir, recursively
func ScanCaseFiles(dir string) (*ScanResult, error) {
	return ScanDirectory(dir, ScanOptions{
		Extensions:  CaseFileExtensions,
		Recursive:   true,
		ExcludeDirs: []string{"testdata", "logs"},
	})
}

// PairCaseFiles scans both directories for case files and pairs them by
// relative path. Results are sorted by name.
func PairCaseFiles(expectedDir, actualDir string) (*PairResult, error) {
	expected, err := relativeCaseFiles(expectedDir)
	if err != nil {
		return nil, fmt.Errorf("scan expected directory: %w", err)
	}
	actual, err := relativeCaseFiles(actualDir)
	if err != nil {
		return nil, fmt.Errorf("scan actual directory: %w", err)
	}

	result := &PairResult{}
	result.Errors = append(result.Errors, expected.errors...)
	result.Errors = append(result.Errors, actual.errors...)

	for _, name := range expected.names {
		actualPath, ok := actual.paths[name]
		if !ok {
			result.ExpectedOnly = append(result.ExpectedOnly, name)
			continue
		}
		result.Matched = append(result.Matched, FilePair{
			Name:     name,
			Expected: expected.paths[name],
			Actual:   actualPath,
		})
	}
	for _, name := range actual.names {
		if _, ok := expected.paths[name]; !ok {
			result.ActualOnly = append(result.ActualOnly, name)
		}
	}

	return result, nil
}

type relativeFiles struct {
	names  []string
	paths  map[string]string
	errors []error
}

func relativeCaseFiles(dir string) (*relativeFiles, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	scan, err := ScanCaseFiles(root)
	if err != nil {
		return nil, err
	}

	files := &relativeFiles{
		paths:  make(map[string]string, len(scan.Files)),
		errors: scan.Errors,
	}
	for _, abs := range scan.Files {
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			files.errors = append(files.errors, fmt.Errorf("failed to relativize %s: %w", abs, err))
			continue
		}
		rel = filepath.ToSlash(rel)
		files.names = append(files.names, rel)
		files.paths[rel] = abs
	}
	sort.Strings(files.names)

	return files, nil
}

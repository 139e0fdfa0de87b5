package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ScanOptions configures ScanDirectory
type ScanOptions struct {
	// Pattern matches the file name without extension ("" = all)
	Pattern string
	// Extensions to include, case-insensitive, with or without the dot ("" = all)
	Extensions []string
	// Recursive descends into subdirectories
	Recursive bool
	// ExcludeDirs are directory names never descended into
	ExcludeDirs []string
	// MaxDepth limits recursion (0 = unlimited, 1 = dir only)
	MaxDepth int
}

// ScanResult holds the files found by ScanDirectory
type ScanResult struct {
	// Files are absolute paths in lexical order
	Files []string
	// Errors are non-fatal walk errors; scanning continued past them
	Errors []error
}

// ScanDirectory walks dir and collects files matching opts.
// A missing dir, a non-directory or a bad pattern is a fatal error.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	var pattern *regexp.Regexp
	if opts.Pattern != "" {
		if pattern, err = regexp.Compile(opts.Pattern); err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
	}

	exts := extensionSet(opts.Extensions)
	excluded := make(map[string]bool, len(opts.ExcludeDirs))
	for _, name := range opts.ExcludeDirs {
		excluded[name] = true
	}

	result := &ScanResult{Files: []string{}}

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil
		}
		if path == dir {
			return nil
		}

		if d.IsDir() {
			if !opts.Recursive || excluded[d.Name()] || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if opts.MaxDepth > 0 && depth(dir, path) >= opts.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		ext := filepath.Ext(name)
		if len(exts) > 0 && !exts[strings.ToLower(ext)] {
			return nil
		}
		if pattern != nil && !pattern.MatchString(strings.TrimSuffix(name, ext)) {
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			return nil
		}
		result.Files = append(result.Files, abs)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", walkErr)
	}

	sort.Strings(result.Files)
	return result, nil
}

// IsCaseFile reports whether name has a case file extension
func IsCaseFile(name string) bool {
	return extensionSet(CaseFileExtensions)[strings.ToLower(filepath.Ext(name))]
}

func extensionSet(extensions []string) map[string]bool {
	set := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[strings.ToLower(ext)] = true
	}
	return set
}

// depth of path below root, counting the first level as 1
func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

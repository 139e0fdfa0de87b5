// Package fileutil finds case files on disk and pairs expected files with
// their actual counterparts for directory comparisons.
//
// ScanDirectory walks a directory with extension, pattern and depth filters
// and returns sorted absolute paths. Hidden directories are always skipped.
//
// PairCaseFiles matches two directories by relative path:
//
//	pairs, err := fileutil.PairCaseFiles("testdata/expected", "out/actual")
//	for _, p := range pairs.Matched {
//	    // compare p.Expected against p.Actual
//	}
//
// Files present on only one side are reported in ExpectedOnly / ActualOnly.
package fileutil

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnvVar overrides the featverify home directory
const HomeEnvVar = "FEATVERIFY_HOME"

// GetHome returns the featverify home directory
// Priority order:
//  1. FEATVERIFY_HOME environment variable (if set)
//  2. .featverify in the current working directory
//
// The directory is created if it doesn't exist
func GetHome() (string, error) {
	if home := os.Getenv(HomeEnvVar); home != "" {
		if err := os.MkdirAll(home, 0755); err != nil {
			return "", fmt.Errorf("create featverify home directory: %w", err)
		}
		return home, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	home := filepath.Join(cwd, ".featverify")
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create featverify home directory: %w", err)
	}

	return home, nil
}

// GetHistoryDBPath returns the path to the history database
// Always returns: <home>/history/runs.db
func GetHistoryDBPath() (string, error) {
	home, err := GetHome()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, "history", "runs.db"), nil
}

// ResolveHistoryDBPath returns the configured db path, or the default one
// under the home directory when none is configured
func (c *Config) ResolveHistoryDBPath() (string, error) {
	if c.History.DBPath != "" {
		return c.History.DBPath, nil
	}
	return GetHistoryDBPath()
}

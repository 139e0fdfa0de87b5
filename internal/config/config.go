package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// HistoryConfig represents comparison history configuration
type HistoryConfig struct {
	// Enabled records every compare run in the history database
	Enabled bool `yaml:"enabled"`

	// DBPath overrides the history database location ("" = <home>/history/runs.db)
	DBPath string `yaml:"db_path"`

	// KeepRuns is the number of most recent runs to keep (0 = keep all)
	KeepRuns int `yaml:"keep_runs"`
}

// ReportConfig represents report rendering configuration
type ReportConfig struct {
	// Format is the default report format (text, yaml, markdown, html)
	Format string `yaml:"format"`
}

// Config represents featverify configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written ("" disables file logs)
	LogDir string `yaml:"log_dir"`

	// MaxConcurrency bounds parallel file pair comparisons (0 = unlimited)
	MaxConcurrency int `yaml:"max_concurrency"`

	// StrictOrder reports order differences as errors instead of warnings
	StrictOrder bool `yaml:"strict_order"`

	// ContinueAfterMissing keeps comparing matched cases when a case is missing
	ContinueAfterMissing bool `yaml:"continue_after_missing"`

	// ReportDuplicates warns about case keys that occur more than once
	ReportDuplicates bool `yaml:"report_duplicates"`

	// History contains history store configuration
	History HistoryConfig `yaml:"history"`

	// Report contains report configuration
	Report ReportConfig `yaml:"report"`
}

// ValidFormats lists the supported report formats
var ValidFormats = []string{"text", "yaml", "markdown", "html"}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:             "info",
		LogDir:               ".featverify/logs",
		MaxConcurrency:       4,
		StrictOrder:          false,
		ContinueAfterMissing: false,
		ReportDuplicates:     false,
		History: HistoryConfig{
			Enabled:  true,
			DBPath:   "",
			KeepRuns: 200,
		},
		Report: ReportConfig{
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Decoding into the defaults keeps every key the file leaves out
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .featverify/config.yaml in the specified directory
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".featverify", "config.yaml"))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(logLevel *string, maxConcurrency *int, strictOrder *bool, continueAfterMissing *bool, reportDuplicates *bool, format *string) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if maxConcurrency != nil {
		c.MaxConcurrency = *maxConcurrency
	}
	if strictOrder != nil {
		c.StrictOrder = *strictOrder
	}
	if continueAfterMissing != nil {
		c.ContinueAfterMissing = *continueAfterMissing
	}
	if reportDuplicates != nil {
		c.ReportDuplicates = *reportDuplicates
	}
	if format != nil {
		c.Report.Format = *format
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be >= 0, got %d", c.MaxConcurrency)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if !isValidFormat(c.Report.Format) {
		return fmt.Errorf("invalid report.format %q, must be one of: text, yaml, markdown, html", c.Report.Format)
	}

	if c.History.KeepRuns < 0 {
		return fmt.Errorf("history.keep_runs must be >= 0, got %d", c.History.KeepRuns)
	}

	return nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogDir != ".featverify/logs" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, ".featverify/logs")
	}
	if cfg.MaxConcurrency != 4 {
		t.Errorf("MaxConcurrency = %d, want 4", cfg.MaxConcurrency)
	}
	if cfg.StrictOrder || cfg.ContinueAfterMissing || cfg.ReportDuplicates {
		t.Errorf("comparison switches should default to false: %+v", cfg)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true")
	}
	if cfg.History.KeepRuns != 200 {
		t.Errorf("History.KeepRuns = %d, want 200", cfg.History.KeepRuns)
	}
	if cfg.Report.Format != "text" {
		t.Errorf("Report.Format = %q, want %q", cfg.Report.Format, "text")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

// TestLoadConfigValidFile tests loading a valid YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `log_level: debug
log_dir: /tmp/logs
max_concurrency: 8
strict_order: true
continue_after_missing: true
report_duplicates: true
history:
  enabled: false
  db_path: /tmp/runs.db
  keep_runs: 10
report:
  format: markdown
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogDir != "/tmp/logs" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/tmp/logs")
	}
	if cfg.MaxConcurrency != 8 {
		t.Errorf("MaxConcurrency = %d, want 8", cfg.MaxConcurrency)
	}
	if !cfg.StrictOrder || !cfg.ContinueAfterMissing || !cfg.ReportDuplicates {
		t.Errorf("comparison switches not loaded: %+v", cfg)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.History.DBPath != "/tmp/runs.db" {
		t.Errorf("History.DBPath = %q, want %q", cfg.History.DBPath, "/tmp/runs.db")
	}
	if cfg.History.KeepRuns != 10 {
		t.Errorf("History.KeepRuns = %d, want 10", cfg.History.KeepRuns)
	}
	if cfg.Report.Format != "markdown" {
		t.Errorf("Report.Format = %q, want %q", cfg.Report.Format, "markdown")
	}
}

// TestLoadConfigPartialFile keeps defaults for keys the file omits
func TestLoadConfigPartialFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("strict_order: true\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if !cfg.StrictOrder {
		t.Error("StrictOrder = false, want true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default %q", cfg.LogLevel, "info")
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled should keep its default")
	}
}

// TestLoadConfigMissingFile returns defaults without error
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Report.Format != "text" {
		t.Errorf("Report.Format = %q, want %q", cfg.Report.Format, "text")
	}
}

// TestLoadConfigMalformed reports parse errors
func TestLoadConfigMalformed(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("log_level: [unclosed\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected error for malformed config")
	}
	if !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfigFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, ".featverify")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("max_concurrency: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFromDir(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfigFromDir() error = %v", err)
	}
	if cfg.MaxConcurrency != 2 {
		t.Errorf("MaxConcurrency = %d, want 2", cfg.MaxConcurrency)
	}
}

func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()

	level := "debug"
	strict := true
	format := "html"
	cfg.MergeWithFlags(&level, nil, &strict, nil, nil, &format)

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if !cfg.StrictOrder {
		t.Error("StrictOrder = false, want true")
	}
	if cfg.Report.Format != "html" {
		t.Errorf("Report.Format = %q, want html", cfg.Report.Format)
	}
	// nil flags leave values alone
	if cfg.MaxConcurrency != 4 {
		t.Errorf("MaxConcurrency = %d, want 4", cfg.MaxConcurrency)
	}
	if cfg.ContinueAfterMissing {
		t.Error("ContinueAfterMissing changed without a flag")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"negative concurrency", func(c *Config) { c.MaxConcurrency = -1 }, "max_concurrency"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "invalid log_level"},
		{"bad format", func(c *Config) { c.Report.Format = "pdf" }, "invalid report.format"},
		{"negative keep", func(c *Config) { c.History.KeepRuns = -5 }, "keep_runs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

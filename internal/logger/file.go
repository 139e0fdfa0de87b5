package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harrison/featverify/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileLogger writes one JSON object per event to a timestamped run log in
// the log directory and keeps a latest.log symlink pointing at it.
type FileLogger struct {
	logDir  string
	runFile string
	file    *os.File
	zl      *zap.Logger
}

// NewFileLogger creates a FileLogger writing to logDir at the given level.
// The directory is created if needed. Invalid levels fall back to "info".
func NewFileLogger(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// run-YYYYMMDD-HHMMSS.log
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))
	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(file),
		zapLevel(normalizeLogLevel(logLevel)),
	)

	fl := &FileLogger{
		logDir:  logDir,
		runFile: runFile,
		file:    file,
		zl:      zap.New(core),
	}
	fl.zl.Info("run started", zap.String("run_log", filepath.Base(runFile)))

	return fl, nil
}

// zapLevel maps our level names onto zap levels. zap has no trace level,
// so trace logs everything debug does.
func zapLevel(level string) zapcore.Level {
	switch level {
	case "trace", "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// RunFile returns the path of the current run log
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.zl.Debug(message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.zl.Info(message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.zl.Warn(message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.zl.Error(message)
}

// LogCompareStart records the files being compared.
func (fl *FileLogger) LogCompareStart(expectedPath, actualPath string) {
	fl.zl.Info("compare started",
		zap.String("expected", expectedPath),
		zap.String("actual", actualPath))
}

// LogFinding records one finding at debug level.
func (fl *FileLogger) LogFinding(caseKey, severity, message string) {
	fl.zl.Debug("finding",
		zap.String("case", caseKey),
		zap.String("severity", severity),
		zap.String("message", message))
}

// LogSummary records the comparison summary.
func (fl *FileLogger) LogSummary(summary models.RunSummary) {
	fl.zl.Info("compare finished",
		zap.String("expected", summary.ExpectedPath),
		zap.String("actual", summary.ActualPath),
		zap.Int("expected_cases", summary.ExpectedCases),
		zap.Int("actual_cases", summary.ActualCases),
		zap.Int("errors", summary.Errors),
		zap.Int("warnings", summary.Warnings),
		zap.Duration("duration", summary.Duration),
		zap.Bool("passed", summary.Passed()))
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	if fl.file == nil {
		return nil
	}

	// Sync on the file itself; zap's Sync would report the same error.
	_ = fl.zl.Sync()
	if err := fl.file.Close(); err != nil {
		return fmt.Errorf("failed to close run log: %w", err)
	}
	fl.file = nil

	return nil
}

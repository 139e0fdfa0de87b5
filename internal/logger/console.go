// Package logger provides logging implementations for featverify runs.
//
// ConsoleLogger prints timestamped progress for humans. FileLogger writes a
// structured JSON run log. Both are thread-safe and filter by log level.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/featverify/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// Logger receives progress events from a comparison run
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogCompareStart(expectedPath, actualPath string)
	LogFinding(caseKey, severity, message string)
	LogSummary(summary models.RunSummary)
}

// ConsoleLogger logs run progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}

	if w == os.Stdout || w == os.Stderr {
		// color.NoColor is false only for TTYs without NO_COLOR set
		return !color.NoColor
	}

	return false
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	default:
		return "info"
	}
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	if cl.colorOutput {
		cl.write(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), colorLevel(level), message))
		return
	}
	cl.write(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

func (cl *ConsoleLogger) write(s string) {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	cl.writer.Write([]byte(s))
}

// LogCompareStart logs the start of a comparison at INFO level.
// Format: "[HH:MM:SS] Comparing <expected> against <actual>"
func (cl *ConsoleLogger) LogCompareStart(expectedPath, actualPath string) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	if cl.colorOutput {
		cl.write(fmt.Sprintf("[%s] Comparing %s against %s\n", timestamp(),
			color.New(color.Bold).Sprint(expectedPath), color.New(color.Bold).Sprint(actualPath)))
		return
	}
	cl.write(fmt.Sprintf("[%s] Comparing %s against %s\n", timestamp(), expectedPath, actualPath))
}

// LogFinding logs a single finding at DEBUG level.
// Format: "[HH:MM:SS] <severity> [<case key>] <message>"
func (cl *ConsoleLogger) LogFinding(caseKey, severity, message string) {
	if cl.writer == nil || !cl.shouldLog("debug") {
		return
	}
	cl.write(fmt.Sprintf("[%s] %s [%s] %s\n", timestamp(), severity, caseKey, message))
}

// LogSummary logs the comparison summary at INFO level.
func (cl *ConsoleLogger) LogSummary(summary models.RunSummary) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	ts := timestamp()
	status := "PASSED"
	if !summary.Passed() {
		status = "FAILED"
	}
	if cl.colorOutput {
		if summary.Passed() {
			status = color.New(color.FgGreen).Sprint(status)
		} else {
			status = color.New(color.FgRed).Sprint(status)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] === Verification Summary ===\n", ts)
	fmt.Fprintf(&b, "[%s] Cases: expected %d, actual %d\n", ts, summary.ExpectedCases, summary.ActualCases)
	fmt.Fprintf(&b, "[%s] Errors: %d\n", ts, summary.Errors)
	fmt.Fprintf(&b, "[%s] Warnings: %d\n", ts, summary.Warnings)
	fmt.Fprintf(&b, "[%s] Duration: %s\n", ts, formatDuration(summary.Duration))
	fmt.Fprintf(&b, "[%s] Result: %s\n", ts, status)

	cl.write(b.String())
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "250ms", "5s", "1m30s"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// MultiLogger fans every event out to several loggers
type MultiLogger []Logger

func (m MultiLogger) LogDebug(message string) {
	for _, l := range m {
		l.LogDebug(message)
	}
}

func (m MultiLogger) LogInfo(message string) {
	for _, l := range m {
		l.LogInfo(message)
	}
}

func (m MultiLogger) LogWarn(message string) {
	for _, l := range m {
		l.LogWarn(message)
	}
}

func (m MultiLogger) LogError(message string) {
	for _, l := range m {
		l.LogError(message)
	}
}

func (m MultiLogger) LogCompareStart(expectedPath, actualPath string) {
	for _, l := range m {
		l.LogCompareStart(expectedPath, actualPath)
	}
}

func (m MultiLogger) LogFinding(caseKey, severity, message string) {
	for _, l := range m {
		l.LogFinding(caseKey, severity, message)
	}
}

func (m MultiLogger) LogSummary(summary models.RunSummary) {
	for _, l := range m {
		l.LogSummary(summary)
	}
}

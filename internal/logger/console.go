// Package logger provides logging implementations for find/replace runs.
//
// The logger package offers structured logging of run progress at the
// file and summary levels. Implementations are thread-safe and support
// various output destinations (console, file, etc.).
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// defaultFailureLimit caps how many per-file failures the console summary lists.
const defaultFailureLimit = 10

// ConsoleLogger logs run progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps for tracking run flow.
// It supports log level filtering to control message verbosity.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer       io.Writer
	logLevel     string
	mutex        sync.Mutex
	colorOutput  bool
	failureLimit int
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// logLevel determines the minimum log level for messages to be output.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
// Color output is automatically enabled when writing to os.Stdout or os.Stderr with TTY support.
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	// Normalize and validate log level
	normalizedLevel := normalizeLogLevel(logLevel)

	// Detect if we should use color output
	useColor := isTerminal(writer)

	return &ConsoleLogger{
		writer:       writer,
		logLevel:     normalizedLevel,
		mutex:        sync.Mutex{},
		colorOutput:  useColor,
		failureLimit: defaultFailureLimit,
	}
}

// SetFailureLimit overrides how many failed files the summary lists before
// collapsing the rest into a count. Values below 1 are ignored.
func (cl *ConsoleLogger) SetFailureLimit(limit int) {
	if limit < 1 {
		return
	}
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	cl.failureLimit = limit
}

// isTerminal checks if the writer is a terminal that supports colors.
// Returns true for os.Stdout and os.Stderr when they are TTYs.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}

	// Check if writer is os.Stdout or os.Stderr
	if w == os.Stdout || w == os.Stderr {
		// Use color library's built-in TTY detection
		// This will return false if NO_COLOR env var is set
		return !color.NoColor
	}

	return false
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if validLevels[normalized] {
		return normalized
	}

	return "info" // Default level
}

// shouldLog checks if a message at the given level should be logged.
// Returns true if messageLevel >= configured logLevel.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	configuredLevel := logLevelToInt(cl.logLevel)
	msgLevel := logLevelToInt(messageLevel)
	return msgLevel >= configuredLevel
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
		return levelInfo // Default to info if unknown
	}
}

// LogTrace logs a trace-level message (most verbose).
// Format: "[HH:MM:SS] [TRACE] <message>"
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
// Format: "[HH:MM:SS] [DEBUG] <message>"
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
// Format: "[HH:MM:SS] [INFO] <message>"
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
// Format: "[HH:MM:SS] [WARN] <message>"
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
// Format: "[HH:MM:SS] [ERROR] <message>"
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// logWithLevel is a helper that logs a message at the specified level if filtering allows it.
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}

	// Check if this level should be logged
	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string

	if cl.colorOutput {
		// Format with colors
		formatted = cl.formatWithColor(ts, level, message)
	} else {
		// Plain text format
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

// formatWithColor formats a log message with ANSI color codes.
func (cl *ConsoleLogger) formatWithColor(ts, level, message string) string {
	var coloredLevel string

	switch strings.ToUpper(level) {
	case "TRACE":
		coloredLevel = color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		coloredLevel = color.New(color.FgCyan).Sprint(level)
	case "INFO":
		coloredLevel = color.New(color.FgBlue).Sprint(level)
	case "WARN":
		coloredLevel = color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		coloredLevel = color.New(color.FgRed).Sprint(level)
	default:
		coloredLevel = level
	}

	return fmt.Sprintf("[%s] [%s] %s\n", ts, coloredLevel, message)
}

// LogRunStart logs the start of the scan phase at INFO level.
// Format: "[HH:MM:SS] Scanning <n> files for <needle>"
func (cl *ConsoleLogger) LogRunStart(search string, targets int) {
	if cl.writer == nil {
		return
	}

	// Run start logging is at INFO level
	if !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()

	var message string
	if cl.colorOutput {
		// Bold for the search needle
		needle := color.New(color.Bold).Sprintf("%q", search)
		message = fmt.Sprintf("[%s] Scanning %d files for %s\n", ts, targets, needle)
	} else {
		message = fmt.Sprintf("[%s] Scanning %d files for %q\n", ts, targets, search)
	}

	cl.writer.Write([]byte(message))
}

// LogFileMatched logs a file with occurrences at DEBUG level.
// Format: "[HH:MM:SS] [DEBUG] <path>: <n> occurrences"
func (cl *ConsoleLogger) LogFileMatched(path string, count int) {
	cl.logWithLevel("DEBUG", fmt.Sprintf("%s: %d occurrences", path, count))
}

// LogFileUnreadable logs a file no candidate encoding could decode at DEBUG level.
// Format: "[HH:MM:SS] [DEBUG] unreadable <path>: <reason>"
func (cl *ConsoleLogger) LogFileUnreadable(path string, reason string) {
	cl.logWithLevel("DEBUG", fmt.Sprintf("unreadable %s: %s", path, reason))
}

// LogFileChanged logs a rewritten file at DEBUG level.
// Format: "[HH:MM:SS] [DEBUG] rewrote <path> (<n> occurrences)"
func (cl *ConsoleLogger) LogFileChanged(path string, occurrences int) {
	cl.logWithLevel("DEBUG", fmt.Sprintf("rewrote %s (%d occurrences)", path, occurrences))
}

// LogFileFailed logs a file the apply phase could not rewrite at WARN level.
// Format: "[HH:MM:SS] <kind> failure on <path>: <reason>"
func (cl *ConsoleLogger) LogFileFailed(path string, kind models.FailureKind, reason string) {
	if cl.writer == nil {
		return
	}

	// Failure logging is at WARN level
	if !cl.shouldLog("warn") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()

	var message string
	if cl.colorOutput {
		// Red for the failure kind
		kindText := color.New(color.FgRed).Sprint(string(kind))
		message = fmt.Sprintf("[%s] %s failure on %s: %s\n", ts, kindText, path, reason)
	} else {
		message = fmt.Sprintf("[%s] %s failure on %s: %s\n", ts, kind, path, reason)
	}

	cl.writer.Write([]byte(message))
}

// LogProgress logs real-time progress of the apply phase at INFO level.
// Format: "[HH:MM:SS] Rewriting: [====      ] 4/8 (50%)"
// Handles edge cases: zero files, all rewritten.
func (cl *ConsoleLogger) LogProgress(done, total int) {
	if cl.writer == nil {
		return
	}

	// Progress logging is at INFO level
	if !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()

	// Create progress bar using ProgressBar component
	pb := NewProgressBar(total, 10, cl.colorOutput)
	pb.Update(done)

	output := fmt.Sprintf("[%s] Rewriting: %s\n", ts, pb.Render())
	cl.writer.Write([]byte(output))
}

// LogSummary logs the run summary with final statistics at INFO level.
// Format: "[HH:MM:SS] === Run Summary ===\n[HH:MM:SS] Files scanned: <n>\n..."
// Failed files are listed up to the configured failure limit.
func (cl *ConsoleLogger) LogSummary(summary models.RunSummary) {
	if cl.writer == nil {
		return
	}

	// Summary logging is at INFO level
	if !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	durationStr := formatDuration(summary.Duration)
	failed := len(summary.Failures)

	var output string

	if cl.colorOutput {
		// Colorized summary
		header := color.New(color.Bold).Sprint("=== Run Summary ===")
		output = fmt.Sprintf("[%s] %s\n", ts, header)
		output += fmt.Sprintf("[%s] Files scanned: %d\n", ts, summary.FilesScanned)
		output += fmt.Sprintf("[%s] Files matched: %d\n", ts, summary.FilesMatched)
		output += fmt.Sprintf("[%s] Occurrences found: %d\n", ts, summary.TotalOccurrences)

		// Green for rewritten files
		changedText := color.New(color.FgGreen).Sprintf("Files changed: %d", summary.FilesChanged)
		output += fmt.Sprintf("[%s] %s\n", ts, changedText)
		output += fmt.Sprintf("[%s] Occurrences replaced: %d\n", ts, summary.OccurrencesWritten)

		if summary.Unreadable > 0 {
			output += fmt.Sprintf("[%s] Unreadable files: %d\n", ts, summary.Unreadable)
		}
		if len(summary.Skips) > 0 {
			output += fmt.Sprintf("[%s] Skipped paths: %d\n", ts, len(summary.Skips))
		}

		// Red for failures if any, otherwise show in default color
		if failed > 0 {
			failedText := color.New(color.FgRed).Sprintf("Failed: %d", failed)
			output += fmt.Sprintf("[%s] %s\n", ts, failedText)

			failedHeader := color.New(color.FgRed).Sprint("Failed files:")
			output += fmt.Sprintf("[%s] %s\n", ts, failedHeader)
			for i, failure := range summary.Failures {
				if i >= cl.failureLimit {
					output += fmt.Sprintf("[%s]   ... and %d more\n", ts, failed-cl.failureLimit)
					break
				}
				failurePath := color.New(color.FgRed).Sprint(failure.Path)
				output += fmt.Sprintf("[%s]   - %s: %s (%s)\n", ts, failure.Kind, failurePath, failure.Reason)
			}
		} else {
			output += fmt.Sprintf("[%s] Failed: %d\n", ts, failed)
		}

		output += fmt.Sprintf("[%s] Duration: %s\n", ts, durationStr)
		output += fmt.Sprintf("[%s] Outcome: %s\n", ts, cl.colorOutcome(summary.Outcome()))
	} else {
		// Plain text summary
		output = fmt.Sprintf("[%s] === Run Summary ===\n", ts)
		output += fmt.Sprintf("[%s] Files scanned: %d\n", ts, summary.FilesScanned)
		output += fmt.Sprintf("[%s] Files matched: %d\n", ts, summary.FilesMatched)
		output += fmt.Sprintf("[%s] Occurrences found: %d\n", ts, summary.TotalOccurrences)
		output += fmt.Sprintf("[%s] Files changed: %d\n", ts, summary.FilesChanged)
		output += fmt.Sprintf("[%s] Occurrences replaced: %d\n", ts, summary.OccurrencesWritten)

		if summary.Unreadable > 0 {
			output += fmt.Sprintf("[%s] Unreadable files: %d\n", ts, summary.Unreadable)
		}
		if len(summary.Skips) > 0 {
			output += fmt.Sprintf("[%s] Skipped paths: %d\n", ts, len(summary.Skips))
		}

		output += fmt.Sprintf("[%s] Failed: %d\n", ts, failed)
		if failed > 0 {
			output += fmt.Sprintf("[%s] Failed files:\n", ts)
			for i, failure := range summary.Failures {
				if i >= cl.failureLimit {
					output += fmt.Sprintf("[%s]   ... and %d more\n", ts, failed-cl.failureLimit)
					break
				}
				output += fmt.Sprintf("[%s]   - %s: %s (%s)\n", ts, failure.Kind, failure.Path, failure.Reason)
			}
		}

		output += fmt.Sprintf("[%s] Duration: %s\n", ts, durationStr)
		output += fmt.Sprintf("[%s] Outcome: %s\n", ts, summary.Outcome())
	}

	cl.writer.Write([]byte(output))
}

// colorOutcome colors an outcome label: green for clean, red for partial,
// cyan for dry runs, default for no changes.
func (cl *ConsoleLogger) colorOutcome(outcome string) string {
	switch outcome {
	case models.OutcomeClean:
		return color.New(color.FgGreen).Sprint(outcome)
	case models.OutcomePartial:
		return color.New(color.FgRed).Sprint(outcome)
	case models.OutcomeDryRun:
		return color.New(color.FgCyan).Sprint(outcome)
	default:
		return outcome
	}
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "5s", "1m30s", "2h15m"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		if remainder == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		minutes := remainder / time.Minute
		remainder = remainder % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	}
}

// NoOpLogger is a Logger implementation that discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// LogRunStart is a no-op implementation.
func (n *NoOpLogger) LogRunStart(search string, targets int) {
}

// LogFileMatched is a no-op implementation.
func (n *NoOpLogger) LogFileMatched(path string, count int) {
}

// LogFileUnreadable is a no-op implementation.
func (n *NoOpLogger) LogFileUnreadable(path string, reason string) {
}

// LogFileChanged is a no-op implementation.
func (n *NoOpLogger) LogFileChanged(path string, occurrences int) {
}

// LogFileFailed is a no-op implementation.
func (n *NoOpLogger) LogFileFailed(path string, kind models.FailureKind, reason string) {
}

// LogProgress is a no-op implementation.
func (n *NoOpLogger) LogProgress(done, total int) {
}

// LogSummary is a no-op implementation.
func (n *NoOpLogger) LogSummary(summary models.RunSummary) {
}

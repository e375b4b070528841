package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/models"
)

// FileLogger logs run events to files in the configured log directory.
// It creates timestamped per-run log files and maintains a latest.log
// symlink pointing to the most recent run.
// It is thread-safe and implements the engine.Logger interface.
// It supports log level filtering to control message verbosity.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a new FileLogger that writes to logDir.
// It creates the log directory if it doesn't exist, opens a timestamped
// run log file, and creates/updates the latest.log symlink.
// Uses default log level "info".
func NewFileLogger(logDir string) (*FileLogger, error) {
	return NewFileLoggerWithLevel(logDir, "info")
}

// NewFileLoggerWithLevel creates a new FileLogger with a custom log level.
func NewFileLoggerWithLevel(logDir string, logLevel string) (*FileLogger, error) {
	// Create log directory if it doesn't exist
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Generate timestamped filename: run-YYYYMMDD-HHMMSS.log
	stamp := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", stamp))

	// Open run log file for writing
	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	// Create/update latest.log symlink
	symlinkPath := filepath.Join(logDir, "latest.log")

	// Remove existing symlink if it exists
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}

	// Create new symlink pointing to current run log
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	// Normalize and validate log level
	normalizedLevel := normalizeLogLevel(logLevel)

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizedLevel,
		mu:       sync.Mutex{},
	}

	// Write header to run log
	logger.writeRunLog("=== findreplace Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunFile returns the path of the run log file this logger writes to.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

// shouldLog checks if a message at the given level should be logged.
// Returns true if messageLevel >= configured logLevel.
func (fl *FileLogger) shouldLog(messageLevel string) bool {
	configuredLevel := logLevelToInt(fl.logLevel)
	msgLevel := logLevelToInt(messageLevel)
	return msgLevel >= configuredLevel
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

// logWithLevel is a helper that logs a message at the specified level if filtering allows it.
func (fl *FileLogger) logWithLevel(level string, message string) {
	// Check if this level should be logged
	levelLower := strings.ToLower(level)
	if !fl.shouldLog(levelLower) {
		return
	}

	formatted := fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("15:04:05"), level, message)
	fl.writeRunLog(formatted)
}

// LogRunStart logs the start of the scan phase at INFO level.
// It records the search needle and the number of files to scan.
func (fl *FileLogger) LogRunStart(search string, targets int) {
	// Run start logging is at INFO level
	if !fl.shouldLog("info") {
		return
	}

	fileLabel := "file"
	if targets != 1 {
		fileLabel = "files"
	}

	message := fmt.Sprintf(
		"[%s] Scanning %d %s for %q\n",
		time.Now().Format("15:04:05"),
		targets,
		fileLabel,
		search,
	)

	fl.writeRunLog(message)
}

// LogFileMatched logs a file with occurrences at DEBUG level.
func (fl *FileLogger) LogFileMatched(path string, count int) {
	fl.logWithLevel("DEBUG", fmt.Sprintf("%s: %d occurrences", path, count))
}

// LogFileUnreadable logs a file no candidate encoding could decode at DEBUG level.
func (fl *FileLogger) LogFileUnreadable(path string, reason string) {
	fl.logWithLevel("DEBUG", fmt.Sprintf("unreadable %s: %s", path, reason))
}

// LogFileChanged logs a rewritten file at DEBUG level.
func (fl *FileLogger) LogFileChanged(path string, occurrences int) {
	fl.logWithLevel("DEBUG", fmt.Sprintf("rewrote %s (%d occurrences)", path, occurrences))
}

// LogFileFailed logs a file the apply phase could not rewrite at WARN level.
func (fl *FileLogger) LogFileFailed(path string, kind models.FailureKind, reason string) {
	fl.logWithLevel("WARN", fmt.Sprintf("%s failure on %s: %s", kind, path, reason))
}

// LogProgress logs the current apply-phase progress (no-op for file logger).
// Progress is displayed on console but not written to log files.
func (fl *FileLogger) LogProgress(done, total int) {
	// No-op: progress bars are console-only for now
}

// LogSummary logs the run summary with final statistics at INFO level.
// Unlike the console summary, every skip and failure is listed in full;
// the run log is the complete record of what happened.
func (fl *FileLogger) LogSummary(summary models.RunSummary) {
	// Summary logging is at INFO level
	if !fl.shouldLog("info") {
		return
	}

	ts := time.Now().Format("15:04:05")

	// Build summary output
	message := fmt.Sprintf(
		"\n[%s] === RUN SUMMARY ===\n"+
			"[%s] Search:               %q\n"+
			"[%s] Replacement:          %q\n"+
			"[%s] Files scanned:        %d\n"+
			"[%s] Files matched:        %d\n"+
			"[%s] Occurrences found:    %d\n"+
			"[%s] Files changed:        %d\n"+
			"[%s] Occurrences replaced: %d\n"+
			"[%s] Unreadable files:     %d\n",
		ts,
		ts,
		summary.Search,
		ts,
		summary.Replacement,
		ts,
		summary.FilesScanned,
		ts,
		summary.FilesMatched,
		ts,
		summary.TotalOccurrences,
		ts,
		summary.FilesChanged,
		ts,
		summary.OccurrencesWritten,
		ts,
		summary.Unreadable,
	)

	if len(summary.Skips) > 0 {
		message += fmt.Sprintf("[%s] Skipped paths:\n", ts)
		for _, skip := range summary.Skips {
			message += fmt.Sprintf("[%s]   - %s: %s\n", ts, skip.Path, skip.Reason)
		}
	}

	if len(summary.Failures) > 0 {
		message += fmt.Sprintf("[%s] Failed files:\n", ts)
		for _, failure := range summary.Failures {
			message += fmt.Sprintf("[%s]   - %s: %s (%s)\n", ts, failure.Kind, failure.Path, failure.Reason)
		}
	}

	message += fmt.Sprintf(
		"[%s] Duration:             %.1fs\n"+
			"[%s] Outcome:              %s\n"+
			"[%s] Completed at:         %s\n",
		ts,
		summary.Duration.Seconds(),
		ts,
		summary.Outcome(),
		ts,
		time.Now().Format(time.RFC3339),
	)

	fl.writeRunLog(message)
}

// Close flushes and closes the run log file.
// It should be called when the logger is no longer needed.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		// Flush after each write for real-time logging
		fl.runLog.Sync()
	}
}

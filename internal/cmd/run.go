package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/config"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/display"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/engine"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/history"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/logger"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [path ...]",
		Short: "Find and replace literal text in md and txt files",
		Long: `Find and replace literal text in every md and txt file under the
given paths, recursively. Paths default to the current directory.

Hidden files and directories are skipped, along with well-known
non-content directories (.git, node_modules, vendor, build output and
the like). Each file is decoded as utf-8, windows-1252 or iso-8859-1,
rewritten atomically, and written back in the encoding it was read in.

A ranked preview of matched files is shown before anything is written,
and the replacement only proceeds after confirmation. Declining leaves
every file untouched.

When run interactively without --search, the most recent search and
replacement texts are offered as prompt defaults.

Examples:
  # Replace across the current directory tree
  findreplace run --search "old name" --replace "new name"

  # Restrict the run to two subtrees
  findreplace run docs/ notes/ --search TODO --replace DONE

  # Preview only, write nothing
  findreplace run --dry-run --search "old name" docs/

  # Delete occurrences (explicit empty replacement)
  findreplace run --search "draft: " --replace "" --yes

  # Skip the confirmation prompt
  findreplace run --yes --search foo --replace bar`,
		Args: cobra.ArbitraryArgs,
		RunE: runCommand,
	}

	// Add flags
	cmd.Flags().String("search", "", "Literal text to find (prompted for when interactive)")
	cmd.Flags().String("replace", "", "Literal replacement text (empty deletes occurrences)")
	cmd.Flags().Bool("yes", false, "Proceed without the confirmation prompt")
	cmd.Flags().Bool("dry-run", false, "Show the preview without writing any file")
	cmd.Flags().String("config", "", "Path to config file (default: <home>/config.yaml)")
	cmd.Flags().String("log-dir", "", "Directory for run log files")
	cmd.Flags().Bool("verbose", false, "Show per-file detail (debug log level)")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().Bool("no-history", false, "Do not record prompts or the run summary")

	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	// Load configuration from file
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// Get flag values
	searchFlag, _ := cmd.Flags().GetString("search")
	replaceFlag, _ := cmd.Flags().GetString("replace")
	yes, _ := cmd.Flags().GetBool("yes")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	logDirFlag, _ := cmd.Flags().GetString("log-dir")
	noColorFlag, _ := cmd.Flags().GetBool("no-color")
	noHistoryFlag, _ := cmd.Flags().GetBool("no-history")

	// Build flag pointers for merge (only flags set on the command line)
	var logLevelPtr *string
	if verbose {
		debugLevel := "debug"
		logLevelPtr = &debugLevel
	}

	var logDirPtr *string
	if cmd.Flags().Changed("log-dir") {
		logDirPtr = &logDirFlag
	}

	var noColorPtr *bool
	if cmd.Flags().Changed("no-color") {
		noColorPtr = &noColorFlag
	}

	var historyEnabledPtr *bool
	if cmd.Flags().Changed("no-history") {
		enabled := !noHistoryFlag
		historyEnabledPtr = &enabled
	}

	// Merge CLI flags with config (flags take precedence)
	cfg.MergeWithFlags(logLevelPtr, logDirPtr, noColorPtr, historyEnabledPtr)

	// Validate merged configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.NoColor {
		color.NoColor = true
	}

	out := cmd.OutOrStdout()
	useColor := !cfg.NoColor && isTerminalWriter(out)

	// Open the history store when enabled; the prompts and the run
	// summary are recorded through it
	var store *history.Store
	if cfg.History.Enabled {
		dbPath := cfg.History.DBPath
		if dbPath == "" {
			dbPath, err = config.GetHistoryDBPath()
			if err != nil {
				return fmt.Errorf("failed to resolve history database path: %w", err)
			}
		}
		store, err = history.NewStore(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer store.Close()
	}

	ctx := cmd.Context()

	// Resolve the search and replacement texts, prompting interactively
	// for anything not supplied as a flag
	search := searchFlag
	if search == "" {
		if !stdinIsTerminal() {
			return fmt.Errorf("--search is required when not running interactively")
		}
		search = promptSearch(ctx, out, store)
	}
	if search == "" {
		return engine.ErrEmptySearch
	}

	replacement := replaceFlag
	if !cmd.Flags().Changed("replace") && stdinIsTerminal() {
		replacement = promptReplacement(ctx, out, store)
	}

	// Default to the current directory when no paths were given
	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	// Create console logger for real-time progress
	consoleLog := logger.NewConsoleLogger(out, cfg.LogLevel)
	consoleLog.SetFailureLimit(cfg.FailureLimit)

	// Create a run log file unless this is a dry run
	runLoggers := []engine.Logger{consoleLog}
	var fileLog *logger.FileLogger
	if !dryRun {
		logDir := cfg.LogDir
		if logDir == "" {
			logDir, err = config.GetLogsDir()
			if err != nil {
				return fmt.Errorf("failed to resolve logs directory: %w", err)
			}
		}
		fileLog, err = logger.NewFileLoggerWithLevel(logDir, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		defer fileLog.Close()
		runLoggers = append(runLoggers, fileLog)
	}

	// Create multi-logger that writes to both console and run log
	multiLog := &multiLogger{loggers: runLoggers}

	eng := engine.New(engine.Options{
		Logger: multiLog,
		ShowPreview: func(preview models.Preview) {
			display.RenderPreview(out, preview, cfg.PreviewLimit, useColor)
		},
		Confirm: func(preview models.Preview) (bool, error) {
			if yes {
				return true, nil
			}
			return confirmAction(out, "Proceed with replacement?"), nil
		},
	})

	// Record the prompts before running so a declined run still
	// remembers what was asked for
	if store != nil {
		recordPrompt(ctx, store, consoleLog, history.PromptSearch, search, cfg.History.MaxEntries)
		recordPrompt(ctx, store, consoleLog, history.PromptReplace, replacement, cfg.History.MaxEntries)
	}

	startedAt := time.Now()
	summary, err := eng.Run(ctx, engine.Request{
		Roots:       roots,
		Search:      search,
		Replacement: replacement,
		DryRun:      dryRun,
	})

	switch {
	case errors.Is(err, engine.ErrNoTargets):
		fmt.Fprintf(out, "No eligible files (md, txt) under the given paths.\n")
		if summary != nil && len(summary.Skips) > 0 {
			display.WarnSkippedPaths("Some paths were skipped", summary.Skips).Display(out)
		}
		return nil
	case errors.Is(err, engine.ErrDeclined):
		fmt.Fprintf(out, "Operation cancelled.\n")
		return nil
	case err != nil:
		return fmt.Errorf("run failed: %w", err)
	}

	// Surface skipped paths prominently after the summary
	if len(summary.Skips) > 0 {
		display.WarnSkippedPaths("Some paths were skipped", summary.Skips).Display(out)
	}

	// Record the completed run; history failures never fail the run
	if store != nil {
		if _, herr := store.RecordRun(ctx, summary, startedAt); herr != nil {
			consoleLog.LogWarn(fmt.Sprintf("history: record run: %v", herr))
		}
	}

	if fileLog != nil {
		fmt.Fprintf(out, "\nLog written to: %s\n", fileLog.RunFile())
	}

	if failed := len(summary.Failures); failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}

	return nil
}

// loadConfig loads the config file from an explicit path or from the
// default location under the findreplace home
func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		// Load from explicit config path
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
		return cfg, nil
	}

	// Load from default <home>/config.yaml
	defaultPath, err := config.DefaultConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	cfg, err := config.LoadConfig(defaultPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// recordPrompt stores one prompt value; failures are logged, never fatal
func recordPrompt(ctx context.Context, store *history.Store, log *logger.ConsoleLogger, kind history.PromptKind, value string, maxEntries int) {
	if err := store.RecordPrompt(ctx, kind, value, maxEntries); err != nil {
		log.LogWarn(fmt.Sprintf("history: record %s prompt: %v", kind, err))
	}
}

// multiLogger implements engine.Logger by delegating to multiple loggers
type multiLogger struct {
	loggers []engine.Logger
}

// LogRunStart forwards to all loggers
func (ml *multiLogger) LogRunStart(search string, targets int) {
	for _, logger := range ml.loggers {
		logger.LogRunStart(search, targets)
	}
}

// LogFileMatched forwards to all loggers
func (ml *multiLogger) LogFileMatched(path string, count int) {
	for _, logger := range ml.loggers {
		logger.LogFileMatched(path, count)
	}
}

// LogFileUnreadable forwards to all loggers
func (ml *multiLogger) LogFileUnreadable(path string, reason string) {
	for _, logger := range ml.loggers {
		logger.LogFileUnreadable(path, reason)
	}
}

// LogFileChanged forwards to all loggers
func (ml *multiLogger) LogFileChanged(path string, occurrences int) {
	for _, logger := range ml.loggers {
		logger.LogFileChanged(path, occurrences)
	}
}

// LogFileFailed forwards to all loggers
func (ml *multiLogger) LogFileFailed(path string, kind models.FailureKind, reason string) {
	for _, logger := range ml.loggers {
		logger.LogFileFailed(path, kind, reason)
	}
}

// LogProgress forwards to all loggers
func (ml *multiLogger) LogProgress(done, total int) {
	for _, logger := range ml.loggers {
		logger.LogProgress(done, total)
	}
}

// LogSummary forwards to all loggers
func (ml *multiLogger) LogSummary(summary models.RunSummary) {
	for _, logger := range ml.loggers {
		logger.LogSummary(summary)
	}
}

package cmd

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/config"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/display"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/filelock"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/history"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the 'findreplace history' parent command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "View and manage prompt and run history",
		Long: `Commands for viewing and managing remembered prompts and run records.

Every run stores its search and replacement texts plus a summary record
in a small database under the findreplace home. The history feeds the
interactive prompt defaults and the run overview shown here.`,
	}

	// Add subcommands
	cmd.AddCommand(newHistoryShowCommand())
	cmd.AddCommand(newHistoryClearCommand())
	cmd.AddCommand(newHistoryExportCommand())

	return cmd
}

// newHistoryShowCommand creates the 'findreplace history show' command
func newHistoryShowCommand() *cobra.Command {
	var limit int
	var dbPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show recent prompts and runs",
		Long: `Show the most recent search prompts, replace prompts and run records,
newest first.

Examples:
  # Last 10 of each
  findreplace history show

  # Last 3 of each
  findreplace history show --limit 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, limit, dbPath)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Entries to show per section")
	cmd.Flags().StringVar(&dbPath, "db-path", "", "Path to history database (for testing)")

	return cmd
}

// runHistoryShow executes the show command
func runHistoryShow(cmd *cobra.Command, limit int, dbPathOverride string) error {
	out := cmd.OutOrStdout()

	dbPath, err := resolveHistoryDBPath(dbPathOverride)
	if err != nil {
		return err
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintf(out, "No history recorded yet.\n")
		return nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()

	searches, err := store.RecentPrompts(ctx, history.PromptSearch, limit)
	if err != nil {
		return fmt.Errorf("load search prompts: %w", err)
	}
	replacements, err := store.RecentPrompts(ctx, history.PromptReplace, limit)
	if err != nil {
		return fmt.Errorf("load replace prompts: %w", err)
	}
	runs, err := store.RecentRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("load runs: %w", err)
	}

	display.RenderPromptHistory(out, "search", searches)
	fmt.Fprintln(out)
	display.RenderPromptHistory(out, "replace", replacements)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Recent runs:\n")
	display.RenderRunHistory(out, runs, isTerminalWriter(out))

	return nil
}

// newHistoryClearCommand creates the 'findreplace history clear' command
func newHistoryClearCommand() *cobra.Command {
	var yes bool
	var dbPath string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all prompt and run history",
		Long: `Delete every remembered prompt and run record after a confirmation.

Examples:
  # Clear with confirmation
  findreplace history clear

  # Clear without prompting
  findreplace history clear --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryClear(cmd, yes, dbPath)
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	cmd.Flags().StringVar(&dbPath, "db-path", "", "Path to history database (for testing)")

	return cmd
}

// runHistoryClear executes the clear command
func runHistoryClear(cmd *cobra.Command, yes bool, dbPathOverride string) error {
	out := cmd.OutOrStdout()

	dbPath, err := resolveHistoryDBPath(dbPathOverride)
	if err != nil {
		return err
	}

	// Check if database exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintf(out, "No history database found at: %s\n", dbPath)
		return nil
	}

	fmt.Fprintf(out, "WARNING: This will delete ALL prompt and run history.\n")
	if !yes && !confirmAction(out, "Continue?") {
		fmt.Fprintf(out, "Operation cancelled.\n")
		return nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	if err := store.ClearAll(cmd.Context()); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	fmt.Fprintf(out, "History cleared.\n")
	return nil
}

// newHistoryExportCommand creates the 'findreplace history export' command
func newHistoryExportCommand() *cobra.Command {
	var format string
	var output string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export run records to JSON or CSV",
		Long: `Export run records to JSON or CSV format for external analysis or backup.

If no output file is specified, the export is written to stdout. File
writes take a lock next to the target and replace it atomically, so
concurrent exports to the same file never interleave.

Examples:
  # JSON to stdout
  findreplace history export

  # JSON to a file
  findreplace history export --output runs.json

  # CSV to a file
  findreplace history export --format csv --output runs.csv

Supported formats:
  - json: JSON array of run records
  - csv: CSV with headers`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryExport(cmd, format, output, dbPath)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Export format (json|csv)")
	cmd.Flags().StringVar(&output, "output", "", "Output file path (stdout if not specified)")
	cmd.Flags().StringVar(&dbPath, "db-path", "", "Path to history database (for testing)")

	return cmd
}

// runHistoryExport executes the export command
func runHistoryExport(cmd *cobra.Command, format, output, dbPathOverride string) error {
	// Validate format
	if format != "json" && format != "csv" {
		return fmt.Errorf("invalid format %q: format must be 'json' or 'csv'", format)
	}

	dbPath, err := resolveHistoryDBPath(dbPathOverride)
	if err != nil {
		return err
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()

	// Render the export into memory first so file output can go through
	// the lock-and-rename write
	var buf bytes.Buffer
	var count int

	switch format {
	case "json":
		count, err = store.ExportRuns(ctx, &buf)
		if err != nil {
			return fmt.Errorf("export runs: %w", err)
		}
	case "csv":
		runs, rerr := store.RecentRuns(ctx, 0)
		if rerr != nil {
			return fmt.Errorf("load runs: %w", rerr)
		}
		count = len(runs)
		if err := exportRunsCSV(&buf, runs); err != nil {
			return err
		}
	}

	if output == "" {
		if _, err := buf.WriteTo(cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		return nil
	}

	if err := filelock.LockAndWrite(output, buf.Bytes()); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}

	runLabel := "runs"
	if count == 1 {
		runLabel = "run"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d %s to %s\n", count, runLabel, output)
	return nil
}

// exportRunsCSV writes run records as CSV with a header row
func exportRunsCSV(w io.Writer, runs []history.RunRecord) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	// Write header
	header := []string{
		"id",
		"started_at",
		"search",
		"replacement",
		"roots",
		"files_scanned",
		"files_matched",
		"total_occurrences",
		"files_changed",
		"occurrences_written",
		"unreadable",
		"failures",
		"outcome",
		"duration_ms",
		"dry_run",
	}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write data rows
	for _, run := range runs {
		row := []string{
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Search,
			run.Replacement,
			strings.Join(run.Roots, " "),
			strconv.Itoa(run.FilesScanned),
			strconv.Itoa(run.FilesMatched),
			strconv.Itoa(run.TotalOccurrences),
			strconv.Itoa(run.FilesChanged),
			strconv.Itoa(run.OccurrencesWritten),
			strconv.Itoa(run.Unreadable),
			strconv.Itoa(run.Failures),
			run.Outcome,
			strconv.FormatInt(run.DurationMs, 10),
			strconv.FormatBool(run.DryRun),
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// resolveHistoryDBPath returns the override when given (for testing),
// otherwise the database path under the findreplace home
func resolveHistoryDBPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	dbPath, err := config.GetHistoryDBPath()
	if err != nil {
		return "", fmt.Errorf("failed to resolve history database path: %w", err)
	}
	return dbPath, nil
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/display"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/engine"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/logger"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/models"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [path ...]",
		Short: "Count occurrences without changing any file",
		Long: `Count occurrences of a literal search text in every md and txt file
under the given paths, recursively, and print a ranked report.

Scanning never writes. The same traversal, exclusion and decoding rules
as the run command apply.

Examples:
  # Count across the current directory tree
  findreplace scan --search "old name"

  # Count in a subtree and copy the report to the clipboard
  findreplace scan docs/ --search TODO --clipboard`,
		Args: cobra.ArbitraryArgs,
		RunE: scanCommand,
	}

	// Add flags
	cmd.Flags().String("search", "", "Literal text to count (required)")
	cmd.Flags().Bool("clipboard", false, "Copy the plain-text report to the system clipboard")
	cmd.Flags().String("config", "", "Path to config file (default: <home>/config.yaml)")

	return cmd
}

// scanCommand implements the scan command logic
func scanCommand(cmd *cobra.Command, args []string) error {
	// Load configuration from file
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	search, _ := cmd.Flags().GetString("search")
	if search == "" {
		return fmt.Errorf("--search is required")
	}
	toClipboard, _ := cmd.Flags().GetBool("clipboard")

	// Default to the current directory when no paths were given
	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	out := cmd.OutOrStdout()
	useColor := !cfg.NoColor && isTerminalWriter(out)

	// A scan is a dry run with no console chatter: the ranked report is
	// the whole output
	var preview models.Preview
	matched := false
	eng := engine.New(engine.Options{
		Logger: logger.NewNoOpLogger(),
		ShowPreview: func(p models.Preview) {
			preview = p
			matched = true
		},
		Confirm: func(models.Preview) (bool, error) { return false, nil },
	})

	summary, err := eng.Run(cmd.Context(), engine.Request{
		Roots:  roots,
		Search: search,
		DryRun: true,
	})
	if errors.Is(err, engine.ErrNoTargets) {
		fmt.Fprintf(out, "No eligible files (md, txt) under the given paths.\n")
		if summary != nil && len(summary.Skips) > 0 {
			display.WarnSkippedPaths("Some paths were skipped", summary.Skips).Display(out)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	// Zero matches never reach the preview hook; build the report
	// header from the summary instead
	if !matched {
		preview = models.Preview{
			FilesScanned: summary.FilesScanned,
			Unreadable:   summary.Unreadable,
		}
	}

	display.RenderPreview(out, preview, cfg.PreviewLimit, useColor)

	if len(summary.Skips) > 0 {
		display.WarnSkippedPaths("Some paths were skipped", summary.Skips).Display(out)
	}

	if toClipboard {
		if cerr := clipboard.WriteAll(display.PreviewText(preview)); cerr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error writing to clipboard: %v\n", cerr)
		} else {
			fmt.Fprintf(out, "Report copied to clipboard.\n")
		}
	}

	return nil
}

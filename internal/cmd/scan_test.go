package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// executeScanCommand runs the scan command through a fresh root command
// and captures its combined output.
func executeScanCommand(t *testing.T, args []string) (string, error) {
	t.Helper()

	rootCmd := &cobra.Command{Use: "findreplace"}
	rootCmd.AddCommand(NewScanCommand())

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestNewScanCommand(t *testing.T) {
	cmd := NewScanCommand()

	if cmd.Use != "scan [path ...]" {
		t.Errorf("Expected Use to be 'scan [path ...]', got: %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	// Verify flags exist
	flags := []string{"search", "clipboard", "config"}
	for _, flagName := range flags {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			t.Errorf("Expected flag %q to exist", flagName)
		}
	}
}

func TestScanCommand_RequiresSearch(t *testing.T) {
	setupTestHome(t)
	tree := createTestTree(t)

	_, err := executeScanCommand(t, []string{"scan", tree})

	if err == nil {
		t.Fatal("Expected error when --search is missing")
	}
	if !strings.Contains(err.Error(), "--search is required") {
		t.Errorf("Expected --search requirement error, got: %v", err)
	}
}

func TestScanCommand_RankedReport(t *testing.T) {
	setupTestHome(t)
	tree := createTestTree(t)

	output, err := executeScanCommand(t, []string{"scan", "--search", "old", tree})

	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}

	if !strings.Contains(output, "Found 4 occurrences in 2 of 2 files:") {
		t.Errorf("Expected report header, got: %s", output)
	}

	// Ranked: a.md (3) before b.txt (1)
	aIdx := strings.Index(output, "a.md")
	bIdx := strings.Index(output, "b.txt")
	if aIdx == -1 || bIdx == -1 {
		t.Fatalf("Expected both files in report, got: %s", output)
	}
	if aIdx > bIdx {
		t.Errorf("Expected a.md (3 occurrences) ranked before b.txt (1), got: %s", output)
	}
}

func TestScanCommand_NeverWrites(t *testing.T) {
	setupTestHome(t)
	tree := createTestTree(t)

	_, err := executeScanCommand(t, []string{"scan", "--search", "old", tree})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tree, "a.md"))
	if err != nil {
		t.Fatalf("Failed to read a.md: %v", err)
	}
	if string(data) != "old line\nold old\n" {
		t.Errorf("Scan must not modify files, got: %q", string(data))
	}
}

func TestScanCommand_NoMatches(t *testing.T) {
	setupTestHome(t)
	tree := createTestTree(t)

	output, err := executeScanCommand(t, []string{"scan", "--search", "absent needle", tree})

	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "No occurrences found (2 files scanned)") {
		t.Errorf("Expected zero-match report, got: %s", output)
	}
}

func TestScanCommand_NoEligibleFiles(t *testing.T) {
	setupTestHome(t)
	empty := t.TempDir()

	output, err := executeScanCommand(t, []string{"scan", "--search", "old", empty})

	if err != nil {
		t.Fatalf("No eligible files should exit cleanly, got: %v", err)
	}
	if !strings.Contains(output, "No eligible files (md, txt)") {
		t.Errorf("Expected no-eligible-files message, got: %s", output)
	}
}

func TestScanCommand_SkippedRootWarning(t *testing.T) {
	setupTestHome(t)
	tree := createTestTree(t)
	missing := filepath.Join(tree, "gone")

	output, err := executeScanCommand(t, []string{"scan", "--search", "old", tree, missing})

	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Some paths were skipped") {
		t.Errorf("Expected skipped-paths warning, got: %s", output)
	}
}

func TestScanCommand_PreviewCapFromConfig(t *testing.T) {
	setupTestHome(t)
	tree := createTestTree(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("preview_limit: 1\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	output, err := executeScanCommand(t, []string{
		"scan", "--search", "old", "--config", configPath, tree,
	})

	if err != nil {
		t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "... and 1 more file") {
		t.Errorf("Expected capped preview with overflow line, got: %s", output)
	}
	if strings.Contains(output, "b.txt") {
		t.Errorf("Expected b.txt cut off by the preview cap, got: %s", output)
	}
}

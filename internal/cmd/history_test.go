package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/history"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedHistoryDB creates a history database with two prompts per kind and
// two completed runs, returning its path.
func seedHistoryDB(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := history.NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.RecordPrompt(ctx, history.PromptSearch, "old name", 20))
	require.NoError(t, store.RecordPrompt(ctx, history.PromptSearch, "TODO", 20))
	require.NoError(t, store.RecordPrompt(ctx, history.PromptReplace, "new name", 20))
	require.NoError(t, store.RecordPrompt(ctx, history.PromptReplace, "DONE", 20))

	summary := &models.RunSummary{
		Search:             "old name",
		Replacement:        "new name",
		Roots:              []string{"/docs"},
		FilesScanned:       8,
		FilesMatched:       3,
		TotalOccurrences:   12,
		FilesChanged:       3,
		OccurrencesWritten: 12,
		Duration:           1500 * time.Millisecond,
	}
	_, err = store.RecordRun(ctx, summary, time.Now().Add(-2*time.Minute))
	require.NoError(t, err)

	dry := &models.RunSummary{
		Search:           "TODO",
		Roots:            []string{"/notes"},
		FilesScanned:     4,
		FilesMatched:     1,
		TotalOccurrences: 2,
		DryRun:           true,
		Duration:         200 * time.Millisecond,
	}
	_, err = store.RecordRun(ctx, dry, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	return dbPath
}

// executeHistoryCommand runs a history subcommand and captures its output.
func executeHistoryCommand(t *testing.T, args []string) (string, error) {
	t.Helper()

	cmd := NewHistoryCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestNewHistoryCommand(t *testing.T) {
	cmd := NewHistoryCommand()

	assert.Equal(t, "history", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "show")
	assert.Contains(t, names, "clear")
	assert.Contains(t, names, "export")
}

func TestHistoryShow_NoDatabase(t *testing.T) {
	setupTestHome(t)

	output, err := executeHistoryCommand(t, []string{"show"})

	require.NoError(t, err)
	assert.Contains(t, output, "No history recorded yet.")
}

func TestHistoryShow_WithData(t *testing.T) {
	dbPath := seedHistoryDB(t)

	output, err := executeHistoryCommand(t, []string{"show", "--db-path", dbPath})

	require.NoError(t, err)
	assert.Contains(t, output, "Recent search prompts:")
	assert.Contains(t, output, `"TODO"`)
	assert.Contains(t, output, `"old name"`)
	assert.Contains(t, output, "Recent replace prompts:")
	assert.Contains(t, output, `"DONE"`)
	assert.Contains(t, output, "Recent runs:")
	assert.Contains(t, output, "CLEAN")
	assert.Contains(t, output, "DRY-RUN")

	// Newest prompt first
	todoIdx := strings.Index(output, `"TODO"`)
	oldIdx := strings.Index(output, `"old name"`)
	assert.Less(t, todoIdx, oldIdx, "newest prompt should be listed first")
}

func TestHistoryShow_Limit(t *testing.T) {
	dbPath := seedHistoryDB(t)

	output, err := executeHistoryCommand(t, []string{"show", "--db-path", dbPath, "--limit", "1"})

	require.NoError(t, err)
	assert.Contains(t, output, `"TODO"`)
	assert.NotContains(t, output, `"old name"`)
	assert.Contains(t, output, "DRY-RUN")
	assert.NotContains(t, output, "CLEAN")
}

func TestHistoryClear_Confirmed(t *testing.T) {
	dbPath := seedHistoryDB(t)
	pipeStdin(t, "y\n")

	output, err := executeHistoryCommand(t, []string{"clear", "--db-path", dbPath})

	require.NoError(t, err)
	assert.Contains(t, output, "WARNING")
	assert.Contains(t, output, "History cleared.")

	store, err := history.NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	prompts, err := store.RecentPrompts(context.Background(), history.PromptSearch, 0)
	require.NoError(t, err)
	assert.Empty(t, prompts)

	runs, err := store.RecentRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestHistoryClear_Cancelled(t *testing.T) {
	dbPath := seedHistoryDB(t)
	pipeStdin(t, "n\n")

	output, err := executeHistoryCommand(t, []string{"clear", "--db-path", dbPath})

	require.NoError(t, err)
	assert.Contains(t, output, "Operation cancelled.")

	store, err := history.NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	prompts, err := store.RecentPrompts(context.Background(), history.PromptSearch, 0)
	require.NoError(t, err)
	assert.Len(t, prompts, 2, "cancelled clear must keep the data")
}

func TestHistoryClear_YesFlagSkipsPrompt(t *testing.T) {
	dbPath := seedHistoryDB(t)

	output, err := executeHistoryCommand(t, []string{"clear", "--yes", "--db-path", dbPath})

	require.NoError(t, err)
	assert.NotContains(t, output, "[y/N]")
	assert.Contains(t, output, "History cleared.")
}

func TestHistoryClear_NoDatabase(t *testing.T) {
	setupTestHome(t)

	output, err := executeHistoryCommand(t, []string{"clear", "--yes"})

	require.NoError(t, err)
	assert.Contains(t, output, "No history database found at:")
}

func TestHistoryExport_JSONToStdout(t *testing.T) {
	dbPath := seedHistoryDB(t)

	output, err := executeHistoryCommand(t, []string{"export", "--db-path", dbPath})

	require.NoError(t, err)

	var records []history.RunRecord
	require.NoError(t, json.Unmarshal([]byte(output), &records))
	require.Len(t, records, 2)

	// Newest first
	assert.Equal(t, "TODO", records[0].Search)
	assert.True(t, records[0].DryRun)
	assert.Equal(t, "old name", records[1].Search)
	assert.Equal(t, models.OutcomeClean, records[1].Outcome)
}

func TestHistoryExport_EmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fresh.db")

	output, err := executeHistoryCommand(t, []string{"export", "--db-path", dbPath})

	require.NoError(t, err)
	assert.JSONEq(t, "[]", output)
}

func TestHistoryExport_JSONToFile(t *testing.T) {
	dbPath := seedHistoryDB(t)
	outFile := filepath.Join(t.TempDir(), "runs.json")

	output, err := executeHistoryCommand(t, []string{
		"export", "--db-path", dbPath, "--output", outFile,
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Exported 2 runs to "+outFile)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)

	var records []history.RunRecord
	require.NoError(t, json.Unmarshal(data, &records))
	assert.Len(t, records, 2)
}

func TestHistoryExport_CSV(t *testing.T) {
	dbPath := seedHistoryDB(t)

	output, err := executeHistoryCommand(t, []string{
		"export", "--db-path", dbPath, "--format", "csv",
	})

	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 3, "header plus two runs")
	assert.True(t, strings.HasPrefix(lines[0], "id,started_at,search,replacement,roots"))
	assert.Contains(t, lines[1], "TODO")
	assert.Contains(t, lines[1], "true") // dry_run column
	assert.Contains(t, lines[2], "old name")
	assert.Contains(t, lines[2], "CLEAN")
}

func TestHistoryExport_CSVToFile(t *testing.T) {
	dbPath := seedHistoryDB(t)
	outFile := filepath.Join(t.TempDir(), "runs.csv")

	output, err := executeHistoryCommand(t, []string{
		"export", "--db-path", dbPath, "--format", "csv", "--output", outFile,
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Exported 2 runs to "+outFile)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,started_at"))
}

func TestHistoryExport_InvalidFormat(t *testing.T) {
	dbPath := seedHistoryDB(t)

	_, err := executeHistoryCommand(t, []string{
		"export", "--db-path", dbPath, "--format", "xml",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRunCommand_RecordsHistory(t *testing.T) {
	home := setupTestHome(t)
	tree := createTestTree(t)

	_, err := executeRunCommand(t, []string{
		"run", "--yes", "--search", "old", "--replace", "new", tree,
	})
	require.NoError(t, err)

	store, err := history.NewStore(filepath.Join(home, "history.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	searches, err := store.RecentPrompts(ctx, history.PromptSearch, 0)
	require.NoError(t, err)
	require.Len(t, searches, 1)
	assert.Equal(t, "old", searches[0].Value)

	replacements, err := store.RecentPrompts(ctx, history.PromptReplace, 0)
	require.NoError(t, err)
	require.Len(t, replacements, 1)
	assert.Equal(t, "new", replacements[0].Value)

	runs, err := store.RecentRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "old", runs[0].Search)
	assert.Equal(t, 2, runs[0].FilesChanged)
	assert.Equal(t, 4, runs[0].OccurrencesWritten)
	assert.Equal(t, models.OutcomeClean, runs[0].Outcome)
	assert.False(t, runs[0].DryRun)
}

package display

import (
	"fmt"
	"io"

	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/history"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/models"
)

// RenderRunHistory writes recent runs one per line, newest first.
// Each row shows a short run id, start time, the search/replacement pair,
// what changed, and the colored outcome.
func RenderRunHistory(out io.Writer, records []history.RunRecord, useColor bool) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%s  %s  %q -> %q  %d %s changed, %d %s  %s\n",
			shortID(rec.ID),
			rec.StartedAt.Local().Format("2006-01-02 15:04"),
			truncate(rec.Search, 24),
			truncate(rec.Replacement, 24),
			rec.FilesChanged, fileLabel(rec.FilesChanged),
			rec.OccurrencesWritten, occurrenceLabel(rec.OccurrencesWritten),
			outcomeColored(rec.Outcome, useColor),
		)
	}
}

// RenderPromptHistory writes remembered prompt values, newest first.
// kind names the list in the header ("search" or "replace").
func RenderPromptHistory(out io.Writer, kind string, entries []history.PromptEntry) {
	if len(entries) == 0 {
		fmt.Fprintf(out, "No %s prompts recorded.\n", kind)
		return
	}

	fmt.Fprintf(out, "Recent %s prompts:\n", kind)
	for i, entry := range entries {
		fmt.Fprintf(out, "  %d. %q  (%s)\n",
			i+1, entry.Value, entry.UsedAt.Local().Format("2006-01-02 15:04"))
	}
}

// shortID trims a run id to its first 8 characters for table rows.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// truncate shortens s to max runes with a trailing ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// outcomeColored wraps an outcome label in its ANSI color when enabled:
// green for clean, red for partial, cyan for dry runs.
func outcomeColored(outcome string, useColor bool) string {
	if !useColor {
		return outcome
	}

	switch outcome {
	case models.OutcomeClean:
		return "\x1b[32m" + outcome + "\x1b[0m"
	case models.OutcomePartial:
		return "\x1b[31m" + outcome + "\x1b[0m"
	case models.OutcomeDryRun:
		return "\x1b[36m" + outcome + "\x1b[0m"
	default:
		return outcome
	}
}

package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/models"
)

// RenderPreview writes the ranked match preview to out.
// Entry rows are capped at limit (0 means no cap) with a trailing
// "... and N more files" line. Rows are cyan and the unreadable footer
// yellow when useColor is set.
func RenderPreview(out io.Writer, preview models.Preview, limit int, useColor bool) {
	var b strings.Builder
	writePreview(&b, preview, limit, useColor)
	fmt.Fprint(out, b.String())
}

// PreviewText returns the preview as plain text for the clipboard export
// and file logs. The entry list is never capped.
func PreviewText(preview models.Preview) string {
	var b strings.Builder
	writePreview(&b, preview, 0, false)
	return b.String()
}

func writePreview(b *strings.Builder, preview models.Preview, limit int, useColor bool) {
	if preview.TotalFiles == 0 {
		fmt.Fprintf(b, "No occurrences found (%d %s scanned)\n",
			preview.FilesScanned, fileLabel(preview.FilesScanned))
		writeUnreadable(b, preview.Unreadable, useColor)
		return
	}

	fmt.Fprintf(b, "Found %d %s in %d of %d %s:\n\n",
		preview.TotalOccurrences, occurrenceLabel(preview.TotalOccurrences),
		preview.TotalFiles, preview.FilesScanned, fileLabel(preview.FilesScanned))

	shown := len(preview.Entries)
	if limit > 0 && shown > limit {
		shown = limit
	}

	for _, entry := range preview.Entries[:shown] {
		if useColor {
			fmt.Fprintf(b, "\x1b[36m  %5d  %s\x1b[0m\n", entry.Count, entry.Path)
		} else {
			fmt.Fprintf(b, "  %5d  %s\n", entry.Count, entry.Path)
		}
	}

	if rest := len(preview.Entries) - shown; rest > 0 {
		fmt.Fprintf(b, "  ... and %d more %s\n", rest, fileLabel(rest))
	}

	writeUnreadable(b, preview.Unreadable, useColor)
}

// writeUnreadable appends the undecodable-file footer when the count is nonzero.
func writeUnreadable(b *strings.Builder, count int, useColor bool) {
	if count == 0 {
		return
	}

	line := fmt.Sprintf("%d %s could not be decoded", count, fileLabel(count))
	if useColor {
		fmt.Fprintf(b, "\n\x1b[33m%s\x1b[0m\n", line)
	} else {
		fmt.Fprintf(b, "\n%s\n", line)
	}
}

// fileLabel returns the singular or plural file noun for a count.
func fileLabel(n int) string {
	if n == 1 {
		return "file"
	}
	return "files"
}

// occurrenceLabel returns the singular or plural occurrence noun for a count.
func occurrenceLabel(n int) string {
	if n == 1 {
		return "occurrence"
	}
	return "occurrences"
}

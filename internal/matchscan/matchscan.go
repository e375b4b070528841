// Package matchscan counts literal occurrences of the search text in
// decoded documents and ranks matched files for the confirmation preview.
// Matching is byte-literal on the decoded text: case-sensitive, no
// normalization, no patterns.
package matchscan

import (
	"sort"
	"strings"

	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/models"
)

// CountOccurrences counts non-overlapping occurrences of needle in
// haystack, left to right, resuming strictly after the end of each match:
// "aaaa" contains "aa" twice, not three times. An empty needle never
// matches. Replacement uses strings.ReplaceAll, which shares exactly this
// semantics, so a previewed count always equals the splices performed.
func CountOccurrences(haystack, needle string) int {
	if needle == "" {
		return 0
	}
	return strings.Count(haystack, needle)
}

// Scan returns a match record for doc, or nil when the search text does
// not occur in it.
func Scan(doc models.Document, needle string) *models.MatchRecord {
	count := CountOccurrences(doc.Text, needle)
	if count == 0 {
		return nil
	}
	return &models.MatchRecord{Document: doc, Count: count}
}

// Rank orders records for display: descending occurrence count, with ties
// broken by ascending path so equal counts keep a stable, reproducible
// order.
func Rank(records []models.MatchRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Count != records[j].Count {
			return records[i].Count > records[j].Count
		}
		return records[i].Document.Path < records[j].Document.Path
	})
}

// BuildPreview ranks records in place and summarizes them for the
// confirmation step. Truncation for display is the caller's concern; the
// preview always carries every entry.
func BuildPreview(records []models.MatchRecord, filesScanned, unreadable int) models.Preview {
	Rank(records)

	preview := models.Preview{
		Entries:      make([]models.PreviewEntry, 0, len(records)),
		TotalFiles:   len(records),
		FilesScanned: filesScanned,
		Unreadable:   unreadable,
	}
	for _, rec := range records {
		preview.Entries = append(preview.Entries, models.PreviewEntry{
			Path:  rec.Document.Path,
			Count: rec.Count,
		})
		preview.TotalOccurrences += rec.Count
	}
	return preview
}

package models

import "time"

// Run outcome constants
const (
	OutcomeClean     = "CLEAN"      // Every matched file was rewritten
	OutcomePartial   = "PARTIAL"    // Some files were rewritten, some failed
	OutcomeNoChanges = "NO-CHANGES" // Nothing matched, nothing written
	OutcomeDryRun    = "DRY-RUN"    // Preview only, writes skipped
)

// FailureKind classifies why a matched file could not be rewritten.
type FailureKind string

const (
	FailureEncode FailureKind = "encode" // Replacement text not representable in the detected encoding
	FailureWrite  FailureKind = "write"  // Temp-file write or rename failed
)

// FileFailure records a single file the apply phase could not rewrite.
// The original file is left untouched in both failure cases.
type FileFailure struct {
	Path   string      // Canonical path of the file
	Kind   FailureKind // "encode" or "write"
	Reason string      // Human-readable cause
}

// SkipRecord notes a path dropped during resolution or traversal.
// Skips never abort a run; they are reported in the summary.
type SkipRecord struct {
	Path   string // Path as supplied or as encountered mid-walk
	Reason string // Why it was skipped
}

// PreviewEntry is one row of the ranked confirmation preview.
type PreviewEntry struct {
	Path  string
	Count int
}

// Preview is what the user confirms before any file is written.
type Preview struct {
	Entries          []PreviewEntry // Ranked: count descending, path ascending
	TotalFiles       int            // Files with at least one occurrence
	TotalOccurrences int            // Sum of counts across entries
	FilesScanned     int            // Eligible files examined
	Unreadable       int            // Files no candidate encoding could decode
}

// RunSummary is the aggregate result of one find/replace run.
type RunSummary struct {
	Search             string        // Literal search text
	Replacement        string        // Literal replacement text (may be empty)
	Roots              []string      // Roots as supplied by the user
	FilesScanned       int           // Eligible files examined
	FilesMatched       int           // Files with at least one occurrence
	TotalOccurrences   int           // Occurrences found during the scan phase
	FilesChanged       int           // Files successfully rewritten
	OccurrencesWritten int           // Occurrences replaced in rewritten files
	Unreadable         int           // Files excluded as undecodable
	Skips              []SkipRecord  // Resolution and traversal skips
	Failures           []FileFailure // Per-file apply failures
	Duration           time.Duration // Wall time for the whole run
	DryRun             bool          // True when the apply phase was skipped
}

// Outcome labels the run for the summary footer.
func (r *RunSummary) Outcome() string {
	switch {
	case r.DryRun:
		return OutcomeDryRun
	case len(r.Failures) > 0:
		return OutcomePartial
	case r.FilesChanged == 0:
		return OutcomeNoChanges
	default:
		return OutcomeClean
	}
}

// Clean reports whether every matched file was rewritten without failures.
func (r *RunSummary) Clean() bool {
	return len(r.Failures) == 0
}

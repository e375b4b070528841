// Package walker turns a directory root into the sorted list of candidate
// files below it, applying the pathfilter rules while pruning whole
// subtrees that must never be entered.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/models"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/pathfilter"
)

// Result contains the files below one root that survive filtering, plus
// the entries the walk had to skip.
type Result struct {
	// Files contains the absolute paths of all candidate files, sorted
	Files []string
	// Skips contains entries that could not be read; they never abort the walk
	Skips []models.SkipRecord
}

// Walk traverses root recursively. Hidden and excluded directories are
// pruned without entering them, so no I/O happens below a pruned
// directory. Hidden files and files without a target extension are
// ignored silently. Unreadable entries become skip records and the walk
// continues.
//
// The root itself is never filtered: explicitly selecting a directory
// overrides the pruning rules for that directory (but not for anything
// discovered below it).
func Walk(root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	result := &Result{
		Files: make([]string, 0),
		Skips: make([]models.SkipRecord, 0),
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Skips = append(result.Skips, models.SkipRecord{
				Path:   path,
				Reason: fmt.Sprintf("error accessing path: %v", err),
			})
			return nil // Continue walking
		}

		// Skip the root directory itself
		if path == root {
			return nil
		}

		if d.IsDir() {
			if pathfilter.ShouldPruneDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if pathfilter.IsHidden(d.Name()) || !pathfilter.IsEligibleFile(d.Name()) {
			return nil
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			result.Skips = append(result.Skips, models.SkipRecord{
				Path:   path,
				Reason: fmt.Sprintf("failed to resolve path: %v", err),
			})
			return nil
		}

		result.Files = append(result.Files, absPath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	// Sort files for consistent output
	sort.Strings(result.Files)

	return result, nil
}

// Package resolver canonicalizes user-supplied roots (directories or
// individual files) and flattens them into a single deduplicated set of
// target files.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/models"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/pathfilter"
	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/walker"
)

// TargetSet is the deduplicated, ordered list of files a run operates on.
// Order is deterministic: roots in argument order, files in walk order
// within each root. When the same file is reachable from two overlapping
// roots, the first occurrence wins.
type TargetSet struct {
	paths []string
	seen  map[string]bool
}

func (s *TargetSet) add(path string) {
	if s.seen[path] {
		return
	}
	s.seen[path] = true
	s.paths = append(s.paths, path)
}

// Paths returns the target files in resolution order.
func (s *TargetSet) Paths() []string {
	return s.paths
}

// Len returns the number of distinct target files.
func (s *TargetSet) Len() int {
	return len(s.paths)
}

// Resolve turns roots into a TargetSet. A root that cannot be resolved
// (nonexistent, uncanonicalizable, not a target file type) becomes a skip
// record and never aborts the other roots; traversal skips from the
// walker are carried through. An empty result is not an error here.
func Resolve(roots []string) (*TargetSet, []models.SkipRecord, error) {
	if len(roots) == 0 {
		return nil, nil, fmt.Errorf("no paths supplied")
	}

	targets := &TargetSet{seen: make(map[string]bool)}
	skips := make([]models.SkipRecord, 0)

	for _, root := range roots {
		canonical, err := canonicalize(root)
		if err != nil {
			skips = append(skips, models.SkipRecord{
				Path:   root,
				Reason: fmt.Sprintf("cannot resolve: %v", err),
			})
			continue
		}

		info, err := os.Stat(canonical)
		if err != nil {
			skips = append(skips, models.SkipRecord{
				Path:   root,
				Reason: fmt.Sprintf("cannot access: %v", err),
			})
			continue
		}

		if !info.IsDir() {
			// An explicitly selected file overrides the hidden rule but
			// not the extension rule.
			if !pathfilter.IsEligibleFile(filepath.Base(canonical)) {
				skips = append(skips, models.SkipRecord{
					Path:   root,
					Reason: "not a target file type (md, txt)",
				})
				continue
			}
			targets.add(canonical)
			continue
		}

		result, err := walker.Walk(canonical)
		if err != nil {
			skips = append(skips, models.SkipRecord{
				Path:   root,
				Reason: fmt.Sprintf("cannot walk: %v", err),
			})
			continue
		}
		skips = append(skips, result.Skips...)
		for _, f := range result.Files {
			targets.add(f)
		}
	}

	return targets, skips, nil
}

// canonicalize resolves one root to an absolute, symlink-free path.
// Nonexistent roots fail here because symlink evaluation requires the
// path to exist.
func canonicalize(root string) (string, error) {
	expanded, err := expandHome(root)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// expandHome replaces a leading ~ with the current user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// Package pathfilter holds the fixed eligibility rules for target files:
// which extensions count as rewritable text, which directory names are
// never descended into, and what "hidden" means. The rules apply to
// basenames only, never to full paths, and are not user-configurable.
package pathfilter

import (
	"path/filepath"
	"sort"
	"strings"
)

// targetExtensions is the fixed extension set. The tool rewrites markdown
// and plain text only, matched case-insensitively against the final
// extension.
var targetExtensions = map[string]bool{
	".md":  true,
	".txt": true,
}

// excludedDirs lists directory basenames never entered regardless of
// location: version-control metadata, dependency caches, build output,
// editor and indexer caches. Exact-name match only, no patterns.
var excludedDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	".hg":          true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"build":        true,
	"dist":         true,
	"target":       true,
	"out":          true,
	".cache":       true,
	".idea":        true,
}

// IsEligibleFile reports whether a file basename carries a target
// extension. Only the final extension counts: "archive.tar.txt" is
// eligible, "notes.md.bak" is not. Names without an extension are never
// eligible.
func IsEligibleFile(name string) bool {
	return targetExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsHidden reports whether a basename is hidden by the portable rule, a
// leading dot. "." and ".." are path syntax, not hidden entries.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// ShouldPruneDir reports whether a directory basename must not be
// entered. Hidden directories are pruned even when not in the excluded
// set; excluded names are pruned even when not hidden.
func ShouldPruneDir(name string) bool {
	return excludedDirs[name] || IsHidden(name)
}

// Extensions returns the target extensions without dots, sorted, for
// display purposes.
func Extensions() []string {
	exts := make([]string, 0, len(targetExtensions))
	for ext := range targetExtensions {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	sort.Strings(exts)
	return exts
}

// ExcludedDirNames returns the exact-name exclusion set, sorted, for
// display purposes.
func ExcludedDirNames() []string {
	names := make([]string, 0, len(excludedDirs))
	for name := range excludedDirs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

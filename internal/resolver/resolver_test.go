package resolver

import (
	"os"
	"path/filepath"
	"testing"
)

// mustCanonical mirrors what Resolve produces for an existing path.
func mustCanonical(t *testing.T, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("Abs: %v", err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	return canonical
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestResolve_OverlappingRootsDeduplicate(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.md"))
	writeFile(t, filepath.Join(tmpDir, "sub", "b.txt"))

	// The subdirectory is reachable from both roots.
	targets, skips, err := Resolve([]string{tmpDir, filepath.Join(tmpDir, "sub")})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(skips) != 0 {
		t.Errorf("Resolve() skips = %v, want none", skips)
	}
	if targets.Len() != 2 {
		t.Fatalf("Resolve() = %v, want 2 distinct files", targets.Paths())
	}
}

func TestResolve_FirstSeenOrderWins(t *testing.T) {
	tmpDir := t.TempDir()
	fileA := filepath.Join(tmpDir, "a.md")
	fileB := filepath.Join(tmpDir, "b.txt")
	writeFile(t, fileA)
	writeFile(t, fileB)

	// b.txt is named explicitly before the directory that also contains it.
	targets, _, err := Resolve([]string{fileB, tmpDir})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []string{mustCanonical(t, fileB), mustCanonical(t, fileA)}
	got := targets.Paths()
	if len(got) != len(want) {
		t.Fatalf("Resolve() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Resolve()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestResolve_FileRoots(t *testing.T) {
	tmpDir := t.TempDir()
	eligible := filepath.Join(tmpDir, "doc.txt")
	wrongType := filepath.Join(tmpDir, "image.png")
	hidden := filepath.Join(tmpDir, ".hidden.md")
	writeFile(t, eligible)
	writeFile(t, wrongType)
	writeFile(t, hidden)

	tests := []struct {
		name      string
		root      string
		wantLen   int
		wantSkips int
	}{
		{"eligible file root", eligible, 1, 0},
		{"wrong extension is a skip", wrongType, 0, 1},
		{"explicit hidden file overrides hidden rule", hidden, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			targets, skips, err := Resolve([]string{tt.root})
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if targets.Len() != tt.wantLen {
				t.Errorf("Resolve() targets = %v, want %d", targets.Paths(), tt.wantLen)
			}
			if len(skips) != tt.wantSkips {
				t.Errorf("Resolve() skips = %v, want %d", skips, tt.wantSkips)
			}
		})
	}
}

func TestResolve_MissingRootIsSkipNotError(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.md"))

	targets, skips, err := Resolve([]string{
		filepath.Join(tmpDir, "nope"),
		tmpDir,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(skips) != 1 {
		t.Fatalf("Resolve() skips = %v, want 1", skips)
	}
	if targets.Len() != 1 {
		t.Errorf("Resolve() targets = %v, want the surviving root's file", targets.Paths())
	}
}

func TestResolve_SameRootTwice(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.md"))

	targets, _, err := Resolve([]string{tmpDir, tmpDir})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if targets.Len() != 1 {
		t.Errorf("Resolve() = %v, want 1 file", targets.Paths())
	}
}

func TestResolve_HomeExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "docs", "readme.md"))
	t.Setenv("HOME", tmpDir)

	targets, skips, err := Resolve([]string{"~/docs"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(skips) != 0 {
		t.Fatalf("Resolve() skips = %v, want none", skips)
	}
	want := mustCanonical(t, filepath.Join(tmpDir, "docs", "readme.md"))
	if targets.Len() != 1 || targets.Paths()[0] != want {
		t.Errorf("Resolve(~/docs) = %v, want [%s]", targets.Paths(), want)
	}
}

func TestResolve_NoRoots(t *testing.T) {
	if _, _, err := Resolve(nil); err == nil {
		t.Error("Resolve(nil) returned nil error")
	}
}

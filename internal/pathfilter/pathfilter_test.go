package pathfilter

import "testing"

func TestIsEligibleFile(t *testing.T) {
	tests := []struct {
		name string
		file string
		want bool
	}{
		{"lowercase md", "readme.md", true},
		{"lowercase txt", "notes.txt", true},
		{"uppercase extension", "README.MD", true},
		{"mixed case extension", "notes.Txt", true},
		{"only final extension counts", "archive.tar.txt", true},
		{"backup suffix masks extension", "notes.md.bak", false},
		{"markdown long form not included", "doc.markdown", false},
		{"no extension", "Makefile", false},
		{"trailing dot", "weird.", false},
		{"empty name", "", false},
		{"extension-only dotfile", ".md", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEligibleFile(tt.file); got != tt.want {
				t.Errorf("IsEligibleFile(%q) = %v, want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		file string
		want bool
	}{
		{".hidden.md", true},
		{".git", true},
		{"visible.md", false},
		{".", false},
		{"..", false},
	}

	for _, tt := range tests {
		if got := IsHidden(tt.file); got != tt.want {
			t.Errorf("IsHidden(%q) = %v, want %v", tt.file, got, tt.want)
		}
	}
}

func TestShouldPruneDir(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		want bool
	}{
		{"excluded exact name", "node_modules", true},
		{"excluded vcs dir", ".git", true},
		{"hidden but not listed", ".secret", true},
		{"excluded and not hidden", "vendor", true},
		{"build output", "dist", true},
		{"ordinary directory", "docs", false},
		{"substring of excluded name", "node_modules_backup", false},
		{"case matters for exact names", "Vendor", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldPruneDir(tt.dir); got != tt.want {
				t.Errorf("ShouldPruneDir(%q) = %v, want %v", tt.dir, got, tt.want)
			}
		})
	}
}

func TestExtensions(t *testing.T) {
	got := Extensions()
	want := []string{"md", "txt"}
	if len(got) != len(want) {
		t.Fatalf("Extensions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Extensions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

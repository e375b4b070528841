package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/history"
)

func TestConfirmAction(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			name:  "lowercase y confirms",
			input: "y\n",
			want:  true,
		},
		{
			name:  "yes confirms",
			input: "yes\n",
			want:  true,
		},
		{
			name:  "uppercase Y confirms",
			input: "Y\n",
			want:  true,
		},
		{
			name:  "padded yes confirms",
			input: "  yes  \n",
			want:  true,
		},
		{
			name:  "n declines",
			input: "n\n",
			want:  false,
		},
		{
			name:  "empty line declines",
			input: "\n",
			want:  false,
		},
		{
			name:  "anything else declines",
			input: "sure\n",
			want:  false,
		},
		{
			name:  "closed stdin declines",
			input: "",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeStdin(t, tt.input)

			var buf bytes.Buffer
			got := confirmAction(&buf, "Continue?")

			if got != tt.want {
				t.Errorf("confirmAction(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(buf.String(), "Continue? [y/N]: ") {
				t.Errorf("Expected the question in output, got: %q", buf.String())
			}
		})
	}
}

func TestLatestPrompt(t *testing.T) {
	ctx := context.Background()

	if got := latestPrompt(ctx, nil, history.PromptSearch); got != "" {
		t.Errorf("latestPrompt(nil store) = %q, want empty", got)
	}

	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := history.NewStore(dbPath)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	if got := latestPrompt(ctx, store, history.PromptSearch); got != "" {
		t.Errorf("latestPrompt(empty store) = %q, want empty", got)
	}

	if err := store.RecordPrompt(ctx, history.PromptSearch, "first", 20); err != nil {
		t.Fatalf("RecordPrompt: %v", err)
	}
	if err := store.RecordPrompt(ctx, history.PromptSearch, "second", 20); err != nil {
		t.Fatalf("RecordPrompt: %v", err)
	}

	if got := latestPrompt(ctx, store, history.PromptSearch); got != "second" {
		t.Errorf("latestPrompt = %q, want %q", got, "second")
	}

	// The other kind is unaffected
	if got := latestPrompt(ctx, store, history.PromptReplace); got != "" {
		t.Errorf("latestPrompt(replace) = %q, want empty", got)
	}
}

func TestIsTerminalWriter(t *testing.T) {
	if isTerminalWriter(&bytes.Buffer{}) {
		t.Error("A bytes.Buffer is not a terminal")
	}
}

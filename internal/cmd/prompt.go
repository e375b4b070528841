package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Marcello2020-dev/findreplace-mdtxt/internal/history"
	"github.com/mattn/go-isatty"
)

// stdinIsTerminal reports whether stdin is attached to a terminal.
// Interactive prompts are only offered when it is.
func stdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd())
}

// isTerminalWriter reports whether w writes to a terminal, which decides
// whether display output uses color.
func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

// promptSearch asks for the search text on stdin. The most recent search
// from history is offered as the default; entering nothing accepts it.
func promptSearch(ctx context.Context, out io.Writer, store *history.Store) string {
	def := latestPrompt(ctx, store, history.PromptSearch)

	if def != "" {
		fmt.Fprintf(out, "Search for [%s]: ", def)
	} else {
		fmt.Fprintf(out, "Search for: ")
	}

	line, ok := readLine()
	if !ok || line == "" {
		return def
	}
	return line
}

// promptReplacement asks for the replacement text on stdin. With a
// history default, entering nothing accepts it; without one, entering
// nothing means an empty replacement, which deletes occurrences. An
// explicit empty replacement while a default exists needs --replace "".
func promptReplacement(ctx context.Context, out io.Writer, store *history.Store) string {
	def := latestPrompt(ctx, store, history.PromptReplace)

	if def != "" {
		fmt.Fprintf(out, "Replace with [%s]: ", def)
	} else {
		fmt.Fprintf(out, "Replace with (empty deletes occurrences): ")
	}

	line, ok := readLine()
	if !ok || line == "" {
		return def
	}
	return line
}

// latestPrompt returns the most recent remembered value for kind, or ""
// when history is disabled, empty, or unreadable.
func latestPrompt(ctx context.Context, store *history.Store, kind history.PromptKind) string {
	if store == nil {
		return ""
	}
	entries, err := store.RecentPrompts(ctx, kind, 1)
	if err != nil || len(entries) == 0 {
		return ""
	}
	return entries[0].Value
}

// confirmAction prompts the user for a y/N confirmation on stdin.
// Anything but an explicit yes declines.
func confirmAction(out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	line, ok := readLine()
	if !ok {
		return false
	}

	response := strings.TrimSpace(strings.ToLower(line))
	return response == "y" || response == "yes"
}

// readLine reads one line from stdin without trimming it; search and
// replacement texts may legitimately carry leading or trailing spaces.
// ok is false when stdin is closed or unreadable.
func readLine() (line string, ok bool) {
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", false
	}
	return scanner.Text(), true
}

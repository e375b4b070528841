// Package display provides terminal UI utilities for previews, warnings, and history output.
//
// This package centralizes all terminal output formatting, ANSI color codes, and user-facing
// display logic for the findreplace CLI. It provides three main categories of functionality:
//
// # Preview Rendering
//
// Render the ranked match preview before asking for confirmation:
//
//	display.RenderPreview(os.Stdout, preview, cfg.PreviewLimit, useColor)
//
// For the clipboard export and plain-text contexts:
//
//	text := display.PreviewText(preview)
//
// # Warning Messages
//
// Display warnings with optional components:
//
//	warning := display.Warning{
//	    Title:      "Some paths were skipped",
//	    Message:    "These roots could not be resolved",
//	    Files:      []string{"/missing/dir"},
//	    Suggestion: "Check the paths and rerun",
//	}
//	warning.Display(os.Stderr)
//
// Or use the convenience factory for skipped paths:
//
//	if len(skips) > 0 {
//	    warning := display.WarnSkippedPaths("Skipped Paths", skips)
//	    warning.Display(os.Stdout)
//	}
//
// # History Rendering
//
// Render recent runs and prompt values for the history command:
//
//	display.RenderRunHistory(os.Stdout, records, useColor)
//	display.RenderPromptHistory(os.Stdout, "search", entries)
//
// # ANSI Colors
//
// The package uses ANSI escape codes for terminal colors:
//   - Cyan (\x1b[36m) for preview entry rows
//   - Green (\x1b[32m) for clean outcomes
//   - Yellow (\x1b[33m) for warnings and unreadable counts
//   - Red (\x1b[31m) for partial outcomes
//   - Reset (\x1b[0m) after each colored section
//
// All functions accept io.Writer interfaces for testability and flexibility.
//
// # Design Principles
//
//   - Single source of truth for all display logic
//   - Consistent formatting across all commands
//   - Testable via io.Writer abstraction
//   - No global state or side effects
package display

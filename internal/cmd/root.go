package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for findreplace
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "findreplace",
		Short: "Recursive literal find/replace for md and txt files",
		Long: `Findreplace applies a literal find/replace to every md and txt file
under one or more paths, recursively.

It skips hidden files and well-known non-content directories, decodes
each file as utf-8, windows-1252 or iso-8859-1, and rewrites matched
files atomically in the encoding they were read in. A ranked preview
and an explicit confirmation precede any write.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

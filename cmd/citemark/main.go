// Package main provides the citemark CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool

	bibFlag  string
	rootFlag string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citemark",
	Short: "Resolve citations in Markdown against a bibliography",
	Long: `citemark renders Markdown documents containing author-year citations
such as @(knuth84) or @[see](knuth84)[p. 12] to HTML, and replaces the
[REFERENCES] placeholder with a sorted list of the works actually cited.

Bibliographies may be BibTeX (.bib), JSONL (.jsonl) or a SQLite index
built with "citemark index". Commands other than render output JSON by
default; use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&bibFlag, "bib", "", "Bibliography used when the document does not name one")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Directory that document bibliography paths are relative to")
	rootCmd.Version = Version
}

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var renderOutput string

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write HTML to this file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <doc.md>",
	Short: "Render a Markdown document with citations to HTML",
	Long: `Render a Markdown document with citations to HTML.

The bibliography is taken from the document's "bibliography" metadata,
resolved against --root (default: the document's directory), and falls
back to --bib, CITEMARK_BIBLIOGRAPHY or the config file. Warnings about
undefined citations are logged to stderr; rendering always completes.

Citation forms:
  @(key)                 (Author Year)
  @[see](key)[p. 4]      (see Author Year, p. 4)
  @-(key)                (Year)
  @+(key)                Author
  @.(key)                Author Year
  @/(key)  @/(*)         listed in the references, not shown
  @(key1, key2)          (Author Year, Author Year)

Examples:
  citemark render paper.md > paper.html
  citemark render paper.md -o paper.html --bib ~/refs/main.bib`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	log := mustLogger(cfg)
	defer log.Sync()

	src := mustReadDocument(args[0])
	conv := newConverter(cfg, log, args[0])

	var buf bytes.Buffer
	res, err := conv.Convert(src, &buf)
	if err != nil {
		exitWithError(ExitError, "rendering: %v", err)
	}

	if renderOutput == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}

	if err := os.WriteFile(renderOutput, buf.Bytes(), 0644); err != nil {
		exitWithError(ExitError, "writing output: %v", err)
	}
	if humanOutput {
		fmt.Printf("Rendered %s (%d citations, %d warnings)\n", renderOutput, res.Citations, len(res.Diagnostics))
	} else {
		outputJSON(StatusResponse{Status: "rendered", Path: renderOutput, Count: res.Citations})
	}
	return nil
}

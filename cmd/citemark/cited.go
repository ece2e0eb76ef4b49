package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/citemark/internal/bibtex"
	"github.com/matsen/citemark/internal/reference"
	"github.com/matsen/citemark/internal/storage"
)

var (
	citedOutput string
	citedAppend bool
)

func init() {
	citedCmd.Flags().StringVarP(&citedOutput, "output", "o", "", "Write to this file instead of stdout (.jsonl writes JSONL, anything else BibTeX)")
	citedCmd.Flags().BoolVar(&citedAppend, "append", false, "Append to --output, skipping entries already there (by DOI or key; by key for JSONL)")
	rootCmd.AddCommand(citedCmd)
}

var citedCmd = &cobra.Command{
	Use:   "cited <doc.md>",
	Short: "Export the records a document cites as BibTeX or JSONL",
	Long: `Export the records a document actually cites, in source order, as
BibTeX, or as JSONL when --output ends in .jsonl. Records listed with
@/(key) or @/(*) count as cited.

Examples:
  citemark cited paper.md > paper.bib
  citemark cited chapter2.md -o book.bib --append
  citemark cited chapter2.md -o book.jsonl --append`,
	Args: cobra.ExactArgs(1),
	RunE: runCited,
}

func runCited(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	log := mustLogger(cfg)
	defer log.Sync()

	src := mustReadDocument(args[0])
	res, err := newConverter(cfg, log, args[0]).Convert(src, io.Discard)
	if err != nil {
		exitWithError(ExitError, "reading citations: %v", err)
	}
	if res.Source == "" {
		exitWithError(ExitConfigError, "no bibliography given (use --bib or document metadata)")
	}

	recs, err := storage.LoadSource(res.Source, cfg.Encoding)
	if err != nil && len(recs) == 0 {
		exitWithError(ExitDataError, "reading %s: %v", res.Source, err)
	}
	selected := selectCited(recs, res.Cited)

	if citedOutput == "" {
		fmt.Print(bibtex.ToBibTeXList(selected))
		return nil
	}

	var written int
	if storage.DetectFormat(citedOutput) == storage.FormatJSONL {
		written = mustWriteCitedJSONL(selected)
	} else {
		written = mustWriteCitedBibTeX(selected)
	}

	if humanOutput {
		fmt.Printf("Wrote %d records to %s\n", written, citedOutput)
	} else {
		outputJSON(StatusResponse{Status: "written", Path: citedOutput, Count: written})
	}
	return nil
}

func mustWriteCitedJSONL(selected []reference.RawRecord) int {
	if citedAppend {
		n, err := storage.AppendNew(citedOutput, selected)
		if err != nil {
			exitWithError(ExitError, "writing %s: %v", citedOutput, err)
		}
		return n
	}
	if err := storage.WriteAll(citedOutput, selected); err != nil {
		exitWithError(ExitError, "writing %s: %v", citedOutput, err)
	}
	return len(selected)
}

func mustWriteCitedBibTeX(selected []reference.RawRecord) int {
	if !citedAppend {
		if err := os.WriteFile(citedOutput, []byte(bibtex.ToBibTeXList(selected)), 0644); err != nil {
			exitWithError(ExitError, "writing %s: %v", citedOutput, err)
		}
		return len(selected)
	}

	idx, err := bibtex.IndexFile(citedOutput)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", citedOutput, err)
	}
	var fresh []reference.RawRecord
	for _, rec := range selected {
		if idx.HasEntry(rec.Key, rec.Get("doi")) {
			continue
		}
		idx.Add(rec)
		fresh = append(fresh, rec)
	}
	if len(fresh) > 0 {
		if err := bibtex.AppendToFile(citedOutput, bibtex.ToBibTeXList(fresh)); err != nil {
			exitWithError(ExitError, "writing %s: %v", citedOutput, err)
		}
	}
	return len(fresh)
}

// selectCited keeps the first record for every cited key, in source order.
func selectCited(recs []reference.RawRecord, cited []string) []reference.RawRecord {
	want := make(map[string]bool, len(cited))
	for _, k := range cited {
		want[k] = true
	}
	var out []reference.RawRecord
	for _, rec := range recs {
		if want[rec.Key] {
			out = append(out, rec)
			delete(want, rec.Key)
		}
	}
	return out
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/matsen/citemark/internal/config"
	"github.com/matsen/citemark/internal/reference"
	"github.com/matsen/citemark/internal/storage"
)

func init() {
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index <bibliography> <out.db|out.jsonl>",
	Short: "Build a SQLite index or JSONL copy of a bibliography",
	Long: `Build a SQLite index or a JSONL copy of a bibliography, chosen by the
output extension. Both keep records in source order, drop repeated keys
and can be used wherever a bibliography is expected. The SQLite index
also supports full-text search with "citemark search".

Examples:
  citemark index refs.bib refs.db
  citemark index refs.bib refs.jsonl
  citemark render paper.md --bib refs.db`,
	Args: cobra.ExactArgs(2),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	log := mustLogger(cfg)
	defer log.Sync()

	in, out := config.ExpandPath(args[0]), config.ExpandPath(args[1])
	outFormat := storage.DetectFormat(out)
	if outFormat == storage.FormatBibTeX {
		exitWithError(ExitConfigError, "output must end in .db, .sqlite or .jsonl: %s", out)
	}
	recs, err := storage.LoadSource(in, cfg.Encoding)
	if err != nil && len(recs) == 0 {
		exitWithError(ExitDataError, "reading %s: %v", in, err)
	}
	for _, e := range multierr.Errors(err) {
		log.Warn("Skipped malformed entry", zap.String("source", in), zap.Error(e))
	}

	var n int
	if outFormat == storage.FormatJSONL {
		unique := storage.Unique(recs)
		if err := storage.WriteAll(out, unique); err != nil {
			exitWithError(ExitError, "writing %s: %v", out, err)
		}
		n = len(unique)
	} else {
		n = mustRebuildIndex(out, recs)
	}
	if skipped := len(recs) - n; skipped > 0 {
		log.Warn("Skipped duplicate keys", zap.Int("count", skipped))
	}

	if humanOutput {
		fmt.Printf("Indexed %d records into %s\n", n, out)
	} else {
		outputJSON(StatusResponse{Status: "indexed", Path: out, Count: n})
	}
	return nil
}

// mustRebuildIndex replaces the SQLite index at path with recs and returns
// the number of records it now holds.
func mustRebuildIndex(path string, recs []reference.RawRecord) int {
	db, err := storage.OpenDB(path)
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	defer db.Close()

	if _, err := db.Rebuild(recs); err != nil {
		exitWithError(ExitError, "building index: %v", err)
	}
	n, err := db.Count()
	if err != nil {
		exitWithError(ExitError, "counting records: %v", err)
	}
	return n
}

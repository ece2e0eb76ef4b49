package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/citemark/internal/author"
	"github.com/matsen/citemark/internal/config"
	"github.com/matsen/citemark/internal/reference"
	"github.com/matsen/citemark/internal/storage"
)

var (
	searchDB      string
	searchLimit   int
	searchAuthors []string
)

func init() {
	searchCmd.Flags().StringVar(&searchDB, "db", "", "SQLite index built with \"citemark index\" (default: --bib)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	searchCmd.Flags().StringArrayVarP(&searchAuthors, "author", "a", nil, "Only records with this author (repeatable, all must match)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search an index by key, author, title or year",
	Long: `Search a SQLite index by key, author, title or year.

Author filters match surnames exactly and given names by prefix:
"Knuth", "Don Knuth" and "Knuth, D" all match Donald E. Knuth, while
"Knu" matches nobody.

Examples:
  citemark search knuth --db refs.db
  citemark search "gnats gnus" --db refs.db --human
  citemark search -a Lamport -a "Don Knuth" --db refs.db`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && len(searchAuthors) == 0 {
		exitWithError(ExitError, "give a query or at least one --author")
	}
	cfg := mustLoadConfig()

	path := searchDB
	if path == "" {
		path = cfg.Bibliography
	}
	path = config.ExpandPath(path)
	if storage.DetectFormat(path) != storage.FormatSQLite {
		exitWithError(ExitConfigError, "search needs a SQLite index (got %q); build one with citemark index", path)
	}
	if _, err := os.Stat(path); err != nil {
		exitWithError(ExitConfigError, "index not found: %s", path)
	}

	db, err := storage.OpenDB(path)
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	defer db.Close()

	var queries []author.Query
	for _, a := range searchAuthors {
		queries = append(queries, author.ParseQuery(a))
	}

	var recs []reference.RawRecord
	if len(args) == 1 {
		// Author filtering happens after the query, so fetch everything.
		limit := searchLimit
		if len(queries) > 0 {
			limit = -1
		}
		recs, err = db.Search(args[0], limit)
	} else {
		recs, err = db.ListAll(0)
	}
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}
	recs = author.Filter(queries, recs)
	if searchLimit > 0 && len(recs) > searchLimit {
		recs = recs[:searchLimit]
	}

	results := make([]SearchResult, 0, len(recs))
	for _, r := range recs {
		names := r.Get("author")
		if names == "" {
			names = r.Get("editor")
		}
		results = append(results, SearchResult{
			Key:    r.Key,
			Type:   string(r.Type),
			Author: names,
			Title:  r.Get("title"),
			Year:   r.Get("year"),
		})
	}

	if !humanOutput {
		return outputJSON(results)
	}
	if len(results) == 0 {
		fmt.Println("No records found")
		return nil
	}
	fmt.Printf("Found %d records:\n\n", len(results))
	for i, r := range results {
		fmt.Printf("[%d] %s (%s)\n", i+1, r.Key, r.Year)
		fmt.Printf("    %s\n", r.Title)
		fmt.Printf("    %s\n\n", r.Author)
	}
	return nil
}

package main

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(keysCmd)
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List citation keys with their author-year labels",
	Long: `List the citation keys of the bibliography with the author-year label
each would display, in natural order (knuth2 before knuth10).

Examples:
  citemark keys --bib refs.bib --human`,
	Args: cobra.NoArgs,
	RunE: runKeys,
}

func runKeys(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	log := mustLogger(cfg)
	defer log.Sync()

	store := mustLoadSession(cfg, log).Store()
	keys := store.Keys()
	sort.Sort(natural.StringSlice(keys))

	entries := make([]EntryResponse, 0, len(keys))
	for _, k := range keys {
		rec, _ := store.Get(k)
		entries = append(entries, EntryResponse{Key: k, Label: rec.AuthorYear, Type: string(rec.Type)})
	}

	if humanOutput {
		for _, e := range entries {
			fmt.Printf("%-24s %s\n", e.Key, e.Label)
		}
		return nil
	}
	return outputJSON(entries)
}

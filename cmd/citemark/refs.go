package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citemark/internal/citation"
)

func init() {
	rootCmd.AddCommand(refsCmd)
}

var refsCmd = &cobra.Command{
	Use:   "refs",
	Short: "Render the reference list of a whole bibliography",
	Long: `Render every record of the bibliography as a reference list, as if the
document contained @/(*).

Examples:
  citemark refs --bib refs.bib --human > refs.html
  citemark refs --bib refs.jsonl`,
	Args: cobra.NoArgs,
	RunE: runRefs,
}

func runRefs(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	log := mustLogger(cfg)
	defer log.Sync()

	s := mustLoadSession(cfg, log)
	s.CiteAll()

	if humanOutput {
		fmt.Print(s.References())
		return nil
	}

	entries := make([]EntryResponse, 0, len(s.Cited()))
	for _, rec := range s.CitedRecords() {
		entries = append(entries, EntryResponse{
			Key:   rec.Key,
			Label: rec.AuthorYear,
			Type:  string(rec.Type),
			HTML:  citation.EntryHTML(rec),
		})
	}
	return outputJSON(entries)
}

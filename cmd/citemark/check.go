package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/citemark/internal/citation"
)

var checkStrict bool

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Exit with status 4 if any citation is undefined")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <doc.md>",
	Short: "Report the citations of a document",
	Long: `Report the citations of a document: how many were found, which keys
were cited, which were undefined, and every warning raised.

Examples:
  citemark check paper.md
  citemark check paper.md --strict --human`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	// Warnings are part of the report.
	cfg.LogLevel = "none"
	log := mustLogger(cfg)

	src := mustReadDocument(args[0])
	res, err := newConverter(cfg, log, args[0]).Convert(src, io.Discard)
	if err != nil {
		exitWithError(ExitError, "checking: %v", err)
	}

	if humanOutput {
		fmt.Printf("Bibliography: %s\n", res.Source)
		fmt.Printf("Citations:    %d\n", res.Citations)
		fmt.Printf("Cited:        %s\n", strings.Join(res.Cited, ", "))
		if len(res.Undefined) > 0 {
			fmt.Printf("Undefined:    %s\n", strings.Join(res.Undefined, ", "))
		}
		for _, d := range res.Diagnostics {
			fmt.Printf("warning (%s): %s\n", d.Kind, d.Message)
		}
	} else {
		warnings := res.Diagnostics
		if warnings == nil {
			warnings = []citation.Diagnostic{}
		}
		outputJSON(CheckResponse{
			Bibliography: res.Source,
			Citations:    res.Citations,
			Cited:        nonNil(res.Cited),
			Undefined:    nonNil(res.Undefined),
			Warnings:     warnings,
		})
	}

	if checkStrict && len(res.Undefined) > 0 {
		os.Exit(ExitUndefined)
	}
	return nil
}

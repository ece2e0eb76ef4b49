package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/citemark/internal/citation"
)

// DefaultSearchLimit is the default limit for the search command.
const DefaultSearchLimit = 50

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// nonNil keeps empty lists as [] in JSON output.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CheckResponse is the response for the check command.
type CheckResponse struct {
	Bibliography string                `json:"bibliography"`
	Citations    int                   `json:"citations"`
	Cited        []string              `json:"cited"`
	Undefined    []string              `json:"undefined"`
	Warnings     []citation.Diagnostic `json:"warnings"`
}

// EntryResponse describes one bibliography record.
type EntryResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`
	HTML  string `json:"html,omitempty"`
}

// SearchResult is one hit of the search command.
type SearchResult struct {
	Key    string `json:"key"`
	Type   string `json:"type"`
	Author string `json:"author,omitempty"`
	Title  string `json:"title,omitempty"`
	Year   string `json:"year,omitempty"`
}

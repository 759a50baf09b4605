// Package cli provides output helpers for the Libris command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sciencestudio/libris/internal/models"
	"github.com/sciencestudio/libris/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other tools.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	fmt.Fprintf(w, "\nFound %d results in %dms\n\n", response.Total, response.QueryTime)
	for i, result := range response.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Relevance: %.4f\n", i+1, result.Relevance)
		if result.Title != "" {
			fmt.Fprintf(w, "Title: %s\n", result.Title)
		}
		fmt.Fprintf(w, "Source: %s\n", result.Source)
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(result.Content, 300))
	}
	return nil
}

// WriteDocumentList writes the catalog to w in the given format.
func WriteDocumentList(w io.Writer, summaries []*models.DocumentSummary, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, summaries)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No documents indexed.")
		return nil
	}
	fmt.Fprintf(w, "\n%d documents indexed\n\n", len(summaries))
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\n", s.Source)
		fmt.Fprintf(w, "  Title: %s | Author: %s | Chunks: %d\n", s.Title, s.Author, s.ChunkCount)
	}
	return nil
}

// WriteIngestResult writes the outcome of an ingest to w in the given format.
func WriteIngestResult(w io.Writer, result *models.IngestResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, result)
	}
	fmt.Fprintf(w, "Indexed %q (%s): %d chunks\n", result.Title, result.Source, result.ChunksIndexed)
	return nil
}

func writeJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

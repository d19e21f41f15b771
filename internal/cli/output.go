package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/kaiwenlim/sg-events/internal/config"
	"github.com/kaiwenlim/sg-events/internal/event"
	"github.com/kaiwenlim/sg-events/internal/storage"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult summarizes a pipeline run from its on-disk artifacts.
type OutputResult struct {
	RanAt      time.Time                 `json:"ran_at"`
	Discovered int                       `json:"discovered"`
	Enriched   int                       `json:"enriched"`
	Failed     int                       `json:"failed"`
	Kept       []*event.Event            `json:"kept"`
	Removed    []*event.Event            `json:"removed"`
	ByCategory map[string][]*event.Event `json:"by_category,omitempty"`
}

// buildSummary loads the run's artifacts and assembles the summary, sorting
// event listings in the requested order.
func buildSummary(cfg *config.Config, store *storage.Store, order SortOrder) (*OutputResult, error) {
	discovered, err := store.LoadDiscovered(cfg.DiscoveredFile())
	if err != nil {
		return nil, err
	}
	enriched, err := store.LoadEvents(cfg.EnrichedFile())
	if err != nil {
		return nil, err
	}
	failed, err := store.LoadFailed(cfg.FailedFile())
	if err != nil {
		return nil, err
	}
	kept, err := store.LoadEvents(cfg.KeptFile())
	if err != nil {
		return nil, err
	}
	removed, err := store.LoadEvents(cfg.RemovedFile())
	if err != nil {
		return nil, err
	}

	sortEvents(kept, order)
	sortEvents(removed, order)

	byCategory := make(map[string][]*event.Event)
	for _, ev := range kept {
		if ev.VibeCategory != "" {
			byCategory[ev.VibeCategory] = append(byCategory[ev.VibeCategory], ev)
		}
	}
	if len(byCategory) == 0 {
		byCategory = nil
	}

	return &OutputResult{
		RanAt:      time.Now().UTC(),
		Discovered: len(discovered),
		Enriched:   len(enriched),
		Failed:     len(failed),
		Kept:       kept,
		Removed:    removed,
		ByCategory: byCategory,
	}, nil
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	fmt.Fprintf(w, "Discovered: %d  Enriched: %d  Failed: %d\n",
		result.Discovered, result.Enriched, result.Failed)

	if len(result.Kept) == 0 && len(result.Removed) == 0 {
		fmt.Fprintln(w, "No classified events.")
		return nil
	}

	if len(result.ByCategory) > 0 {
		categories := make([]string, 0, len(result.ByCategory))
		for c := range result.ByCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		for _, category := range categories {
			events := result.ByCategory[category]
			fmt.Fprintf(w, "\n%s (%d):\n", category, len(events))
			for _, ev := range events {
				fmt.Fprintf(w, "  %s\n", ev.Title)
				if verbose {
					fmt.Fprintf(w, "       URL: %s\n", ev.URL)
					if ev.Start != "" {
						fmt.Fprintf(w, "       Start: %s\n", ev.Start)
					}
					if ev.Location != "" {
						fmt.Fprintf(w, "       Location: %s\n", ev.Location)
					}
				}
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d kept, %d removed\n", len(result.Kept), len(result.Removed))
	return nil
}

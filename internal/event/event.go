package event

import (
	"crypto/sha1"
	"fmt"
)

// Fetch methods recorded on enriched events.
const (
	MethodCache    = "cache"
	MethodHTTP     = "http"
	MethodRendered = "rendered"
	MethodNone     = "none"
)

// Event is the canonical record produced by detail extraction and consumed
// by classification. All textual fields are whitespace-normalized. Start and
// End, when set, are ISO 8601 at minute precision in the fixed +08:00 offset.
type Event struct {
	Source       string `json:"source"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	Price        string `json:"price"`
	Capacity     string `json:"capacity"`
	DateText     string `json:"date_text"`
	Start        string `json:"start_datetime"`
	End          string `json:"end_datetime,omitempty"`
	FetchMethod  string `json:"fetch_method,omitempty"`
	VibeCategory string `json:"vibe_category,omitempty"`
}

// Discovered is a Stage A row: a candidate detail-page URL with the
// provisional title scraped from the listing anchor.
type Discovered struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

// FailedItem records a per-URL soft failure during enrichment.
type FailedItem struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
	Source string `json:"source"`
}

// New returns an empty event for the given source and URL, ready for the
// extraction layers to fill.
func New(source, url string) *Event {
	return &Event{Source: source, URL: url}
}

// Identity returns the stable classification identity for the event:
// the URL when present, otherwise a SHA1 digest of title and description.
func (e *Event) Identity() string {
	if e.URL != "" {
		return "url:" + e.URL
	}
	h := sha1.New()
	h.Write([]byte(e.Title + "|" + e.Description))
	return fmt.Sprintf("txt:%x", h.Sum(nil))
}

// HashKey returns a deterministic hex digest of s. Used for cache file names
// and identity fallbacks.
func HashKey(s string) string {
	return fmt.Sprintf("%x", sha1.Sum([]byte(s)))
}

// DedupeDiscovered drops rows with empty or repeated URLs, keeping the first
// occurrence of each URL in input order.
func DedupeDiscovered(rows []Discovered) []Discovered {
	seen := make(map[string]bool, len(rows))
	out := make([]Discovered, 0, len(rows))
	for _, r := range rows {
		u := NormalizeWhitespace(r.URL)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, r)
	}
	return out
}

// DedupeEvents drops events with empty or repeated URLs, keeping the first
// occurrence of each URL in input order.
func DedupeEvents(events []*Event) []*Event {
	seen := make(map[string]bool, len(events))
	out := make([]*Event, 0, len(events))
	for _, e := range events {
		u := NormalizeWhitespace(e.URL)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, e)
	}
	return out
}

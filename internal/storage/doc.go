// Package storage persists pipeline artifacts as JSON files under the data
// directory: discovered rows, enriched events, per-URL failures, and the
// kept/removed partition. Files are written indented so they stay diffable
// and easy to inspect between runs.
package storage

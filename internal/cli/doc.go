// Package cli implements the command-line interface for sg-events.
//
// The cli package provides the Cobra-based CLI for running the scraping
// pipeline: selecting stages and sources, controlling caching and resume
// behavior, and printing a run summary in text or JSON. It wires together
// the config, storage, fetch, and pipeline packages.
package cli

// Package config defines the immutable run configuration for the pipeline:
// which stages run, which sources are active, fetch and classification
// tunables, and artifact file locations. A Config is constructed once at
// startup and passed into each component; there is no ambient global state.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Listing strategies for Stage A.
const (
	StrategyPaged  = "paged"
	StrategyScroll = "infinite_scroll"
)

// Defaults recovered from operating the pipeline against the live sources.
const (
	DefaultMaxPages      = 2
	DefaultStartPage     = 1
	DefaultMaxScrolls    = 2
	DefaultNoGrowthLimit = 3
	DefaultCheckpoint    = 50
	DefaultBatchSize     = 30
	DefaultModel         = "gpt-4o-mini"
)

// Listing describes how a source's listing pages are walked.
type Listing struct {
	Strategy     string `yaml:"strategy"`
	BaseURL      string `yaml:"base_url"`
	PageParam    string `yaml:"page_param,omitempty"`
	StartPage    int    `yaml:"start_page,omitempty"`
	MaxPages     int    `yaml:"max_pages,omitempty"`
	WaitSelector string `yaml:"wait_selector,omitempty"`
	ItemSelector string `yaml:"item_selector,omitempty"`
}

// Source is one event site: its listing walk, how candidate links are
// recognized, and which detail parser applies.
type Source struct {
	Name           string   `yaml:"name"`
	Enabled        bool     `yaml:"enabled"`
	Listing        Listing  `yaml:"listing"`
	LinkSelectors  []string `yaml:"link_selectors"`
	URLMustContain string   `yaml:"url_must_contain,omitempty"`
	TitleSelector  string   `yaml:"title_selector,omitempty"`
	DetailParser   string   `yaml:"detail_parser"`
}

// Stages selects which pipeline stages run.
type Stages struct {
	Discover bool
	Enrich   bool
	Classify bool
}

// Classify holds Stage C settings.
type Classify struct {
	BatchSize int
	Model     string
	APIKey    string
	BaseURL   string // classification service base URL; empty means the default
	Removal   []string
}

// Config is the full, immutable run configuration.
type Config struct {
	DataDir          string
	UseCache         bool
	FreshDiscovery   bool
	Resume           bool
	Stages           Stages
	Sources          []Source
	MaxPagesOverride int // 0 means no override
	CheckpointEvery  int
	Classify         Classify
}

// New returns a Config over the built-in source table with all defaults set.
func New(dataDir string) *Config {
	return &Config{
		DataDir:         dataDir,
		Sources:         BuiltinSources(),
		CheckpointEvery: DefaultCheckpoint,
		Classify: Classify{
			BatchSize: DefaultBatchSize,
			Model:     DefaultModel,
			Removal:   DefaultRemoval(),
		},
	}
}

// Artifact file locations, all under DataDir.

func (c *Config) CacheDir() string        { return filepath.Join(c.DataDir, "cache_html") }
func (c *Config) DiscoveredFile() string  { return filepath.Join(c.DataDir, "events_discovered.json") }
func (c *Config) EnrichedFile() string    { return filepath.Join(c.DataDir, "events_enriched.json") }
func (c *Config) FailedFile() string      { return filepath.Join(c.DataDir, "events_failed.json") }
func (c *Config) KeptFile() string        { return filepath.Join(c.DataDir, "events_kept.json") }
func (c *Config) RemovedFile() string     { return filepath.Join(c.DataDir, "events_removed.json") }

// ActiveSources returns the enabled sources, restricted to names when
// non-empty. Unknown names are an error so typos fail fast.
func (c *Config) ActiveSources(names []string) ([]Source, error) {
	byName := make(map[string]Source, len(c.Sources))
	for _, s := range c.Sources {
		byName[s.Name] = s
	}

	if len(names) == 0 {
		var enabled []Source
		for _, s := range c.Sources {
			if s.Enabled {
				enabled = append(enabled, s)
			}
		}
		return enabled, nil
	}

	var selected []Source
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		s, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown source: %s", name)
		}
		selected = append(selected, s)
	}
	return selected, nil
}

// Validate fails fast on configuration that would otherwise fail mid-run.
func (c *Config) Validate(active []Source) error {
	if c.Stages.Discover && len(active) == 0 {
		return fmt.Errorf("no sources selected or enabled")
	}
	for _, s := range active {
		if s.Listing.Strategy != StrategyPaged && s.Listing.Strategy != StrategyScroll {
			return fmt.Errorf("source %s: unknown listing strategy %q", s.Name, s.Listing.Strategy)
		}
		if s.Listing.BaseURL == "" {
			return fmt.Errorf("source %s: listing base URL is required", s.Name)
		}
		if len(s.LinkSelectors) == 0 {
			return fmt.Errorf("source %s: at least one link selector is required", s.Name)
		}
	}
	if c.Stages.Classify {
		if c.Classify.APIKey == "" {
			return fmt.Errorf("classification requested but no API key configured (set OPENAI_API_KEY)")
		}
		if c.Classify.BatchSize < 1 {
			return fmt.Errorf("classification batch size must be at least 1")
		}
	}
	if c.CheckpointEvery < 1 {
		return fmt.Errorf("checkpoint interval must be at least 1")
	}
	return nil
}

package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kaiwenlim/sg-events/internal/cache"
	"github.com/kaiwenlim/sg-events/internal/classify"
	"github.com/kaiwenlim/sg-events/internal/config"
	"github.com/kaiwenlim/sg-events/internal/dates"
	"github.com/kaiwenlim/sg-events/internal/fetch"
	"github.com/kaiwenlim/sg-events/internal/logger"
	"github.com/kaiwenlim/sg-events/internal/pipeline"
	"github.com/kaiwenlim/sg-events/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagStages      string
	flagDataDir     string
	flagSources     string
	flagSourcesFile string
	flagUseCache    bool
	flagFresh       bool
	flagResume      bool
	flagMaxPages    int
	flagBatchSize   int
	flagModel       string
	flagFormat      string
	flagSort        string
	flagVerbose     bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sg-events",
		Short: "Scrape, enrich, and classify Singapore event listings",
		Long: `A pipeline that discovers event URLs from listing sites, enriches each
URL into a structured event record, and classifies the results into kept
and removed sets. Stages exchange JSON artifacts under the data directory,
so each stage can be run and re-run independently.`,
		RunE: runPipeline,
	}

	cmd.Flags().StringVar(&flagStages, "stages", "all", "Comma-separated stages to run: discover, enrich, classify, or 'all'")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "~/.local/share/sg-events", "Data directory for artifacts and the HTML cache")
	cmd.Flags().StringVar(&flagSources, "sources", "", "Comma-separated source names (default: all enabled sources)")
	cmd.Flags().StringVar(&flagSourcesFile, "sources-file", "", "YAML file replacing the built-in source table")
	cmd.Flags().BoolVar(&flagUseCache, "use-cache", false, "Reuse cached HTML instead of refetching")
	cmd.Flags().BoolVar(&flagFresh, "fresh", false, "Ignore cached listing HTML during discovery")
	cmd.Flags().BoolVar(&flagResume, "resume", false, "Skip URLs already present in the enriched artifact")
	cmd.Flags().IntVar(&flagMaxPages, "max-pages", 0, "Override per-source listing page limit (0 = source default)")
	cmd.Flags().IntVar(&flagBatchSize, "batch-size", config.DefaultBatchSize, "Events per classification batch")
	cmd.Flags().StringVar(&flagModel, "model", config.DefaultModel, "Classification model identifier")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Summary format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", "date", "Summary sort order: date, source, or title")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// parseStages turns the --stages flag into a stage selection.
func parseStages(s string) (config.Stages, error) {
	if strings.TrimSpace(s) == "" || s == "all" {
		return config.Stages{Discover: true, Enrich: true, Classify: true}, nil
	}
	var stages config.Stages
	for _, name := range strings.Split(s, ",") {
		switch strings.TrimSpace(name) {
		case "discover":
			stages.Discover = true
		case "enrich":
			stages.Enrich = true
		case "classify":
			stages.Classify = true
		case "":
		default:
			return stages, fmt.Errorf("unknown stage: %s", name)
		}
	}
	if !stages.Discover && !stages.Enrich && !stages.Classify {
		return stages, fmt.Errorf("no stages selected")
	}
	return stages, nil
}

func splitNames(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// runPipeline is the main command logic
func runPipeline(cmd *cobra.Command, args []string) error {
	// Credentials may live in a local .env; absence is fine.
	_ = godotenv.Load()

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	order := SortOrder(strings.ToLower(flagSort))
	if order != SortByDate && order != SortBySource && order != SortByTitle {
		return fmt.Errorf("invalid sort order: %s (must be 'date', 'source', or 'title')", flagSort)
	}

	stages, err := parseStages(flagStages)
	if err != nil {
		return err
	}

	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stdout))
	}

	cfg := config.New(flagDataDir)
	cfg.Stages = stages
	cfg.UseCache = flagUseCache
	cfg.FreshDiscovery = flagFresh
	cfg.Resume = flagResume
	cfg.MaxPagesOverride = flagMaxPages
	cfg.Classify.BatchSize = flagBatchSize
	cfg.Classify.Model = flagModel
	cfg.Classify.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Classify.BaseURL = os.Getenv("OPENAI_BASE_URL")

	if flagSourcesFile != "" {
		sources, err := config.LoadSources(flagSourcesFile)
		if err != nil {
			return err
		}
		cfg.Sources = sources
	}

	active, err := cfg.ActiveSources(splitNames(flagSources))
	if err != nil {
		return err
	}
	if err := cfg.Validate(active); err != nil {
		return err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	// Config path methods join against DataDir; keep them consistent with
	// the store's ~ expansion.
	cfg.DataDir = store.DataDir()

	// Stage inputs must exist before any network activity starts.
	if stages.Enrich && !stages.Discover && !store.Exists(cfg.DiscoveredFile()) {
		return fmt.Errorf("enrichment requires %s; run the discover stage first", cfg.DiscoveredFile())
	}
	if stages.Classify && !stages.Enrich && !store.Exists(cfg.EnrichedFile()) {
		return fmt.Errorf("classification requires %s; run the enrich stage first", cfg.EnrichedFile())
	}

	htmlCache, err := cache.New(cfg.CacheDir())
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}

	var renderer fetch.Renderer
	if stages.Discover || stages.Enrich {
		pr, err := fetch.NewPlaywrightRenderer(fetch.DefaultRenderTimeout)
		if err != nil {
			if stages.Discover {
				return fmt.Errorf("starting renderer (required for discovery): %w", err)
			}
			logger.Warn("Renderer unavailable, rendered fetch tier disabled", logger.Fields{
				"error": err.Error(),
			})
		} else {
			renderer = pr
			defer pr.Close()
		}
	}

	var classifier classify.BatchClassifier
	if stages.Classify {
		classifier = classify.NewServiceClassifier(cfg.Classify.BaseURL, cfg.Classify.APIKey, cfg.Classify.Model)
	}

	resolver := dates.NewResolver(time.Now().In(dates.SGT))
	p := pipeline.New(cfg, store, htmlCache, fetch.NewClient(), renderer, resolver, classifier)
	if err := p.Run(active); err != nil {
		return err
	}

	result, err := buildSummary(cfg, store, order)
	if err != nil {
		return fmt.Errorf("building summary: %w", err)
	}
	if err := WriteOutput(os.Stdout, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

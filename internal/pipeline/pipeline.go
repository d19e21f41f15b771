// Package pipeline orchestrates the three stages: discovery of candidate
// URLs, enrichment of each URL into a structured event, and classification
// of the enriched set into kept and removed partitions. Stages communicate
// through JSON artifacts so each can be run, inspected, and re-run on its
// own.
package pipeline

import (
	"github.com/kaiwenlim/sg-events/internal/cache"
	"github.com/kaiwenlim/sg-events/internal/classify"
	"github.com/kaiwenlim/sg-events/internal/config"
	"github.com/kaiwenlim/sg-events/internal/dates"
	"github.com/kaiwenlim/sg-events/internal/detail"
	"github.com/kaiwenlim/sg-events/internal/discover"
	"github.com/kaiwenlim/sg-events/internal/event"
	"github.com/kaiwenlim/sg-events/internal/fetch"
	"github.com/kaiwenlim/sg-events/internal/logger"
	"github.com/kaiwenlim/sg-events/internal/storage"
)

// Failure reasons recorded per URL during enrichment.
const (
	reasonUnknownSource = "unknown_source"
	reasonFetchFailed   = "fetch_failed"
	reasonParseFailed   = "parse_failed"
)

// Pipeline wires the stages over shared infrastructure.
type Pipeline struct {
	cfg        *config.Config
	store      *storage.Store
	discoverer *discover.Discoverer
	escalator  *fetch.Escalator
	resolver   *dates.Resolver
	classifier classify.BatchClassifier
}

// New assembles a pipeline. renderer may be nil, which disables the rendered
// fetch tier; discovery requires a renderer and reports per-source errors
// without one. classifier may be nil, which routes all classification
// through the keyword heuristic.
func New(cfg *config.Config, store *storage.Store, c *cache.Cache, client *fetch.Client, renderer fetch.Renderer, resolver *dates.Resolver, classifier classify.BatchClassifier) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		store:      store,
		discoverer: discover.New(c, renderer),
		escalator:  fetch.NewEscalator(c, client, renderer),
		resolver:   resolver,
		classifier: classifier,
	}
}

// Run executes the selected stages in order, reading stage inputs from disk
// when the producing stage did not run in this invocation.
func (p *Pipeline) Run(active []config.Source) error {
	var rows []event.Discovered
	var err error

	if p.cfg.Stages.Discover {
		rows, err = p.runDiscover(active)
		if err != nil {
			return err
		}
	}

	var events []*event.Event
	if p.cfg.Stages.Enrich {
		if rows == nil {
			rows, err = p.store.LoadDiscovered(p.cfg.DiscoveredFile())
			if err != nil {
				return err
			}
		}
		events, err = p.runEnrich(rows)
		if err != nil {
			return err
		}
	}

	if p.cfg.Stages.Classify {
		if events == nil {
			events, err = p.store.LoadEvents(p.cfg.EnrichedFile())
			if err != nil {
				return err
			}
		}
		if err := p.runClassify(events); err != nil {
			return err
		}
	}

	logger.Info("Pipeline finished", logger.Fields{
		"metrics": logger.GetMetricsSnapshot(),
	})
	return nil
}

// runDiscover walks every active source. A source that fails is logged and
// skipped so one broken site cannot sink the whole run.
func (p *Pipeline) runDiscover(active []config.Source) ([]event.Discovered, error) {
	useCache := p.cfg.UseCache && !p.cfg.FreshDiscovery

	var all []event.Discovered
	for _, src := range active {
		rows, err := p.discoverer.Discover(src, useCache, p.cfg.MaxPagesOverride)
		if err != nil {
			logger.Error("Source discovery failed", logger.Fields{"source": src.Name}, err)
			logger.IncrCounter("discover.source_failures")
			continue
		}
		logger.Info("Source discovered", logger.Fields{
			"source": src.Name,
			"rows":   len(rows),
		})
		all = append(all, rows...)
	}

	all = event.DedupeDiscovered(all)
	if err := p.store.SaveDiscovered(p.cfg.DiscoveredFile(), all); err != nil {
		return nil, err
	}
	logger.SetGauge("discover.rows", float64(len(all)))
	return all, nil
}

// runEnrich turns each discovered row into an event via fetch escalation and
// detail parsing. Failures are soft and per-URL. Progress is checkpointed to
// disk every CheckpointEvery rows so an interrupted run can resume.
func (p *Pipeline) runEnrich(rows []event.Discovered) ([]*event.Event, error) {
	bySource := make(map[string]config.Source, len(p.cfg.Sources))
	for _, s := range p.cfg.Sources {
		bySource[s.Name] = s
	}

	var events []*event.Event
	var failed []event.FailedItem

	if p.cfg.Resume {
		resumed, err := p.store.LoadEvents(p.cfg.EnrichedFile())
		if err != nil {
			return nil, err
		}
		events = resumed
		failed, err = p.store.LoadFailed(p.cfg.FailedFile())
		if err != nil {
			return nil, err
		}
		logger.Info("Resuming enrichment", logger.Fields{
			"already_enriched": len(events),
			"already_failed":   len(failed),
		})
	}
	done := make(map[string]bool, len(events))
	for _, ev := range events {
		done[ev.URL] = true
	}

	for _, row := range rows {
		if done[row.URL] {
			continue
		}

		ev, failure := p.enrichOne(row, bySource)
		if failure != nil {
			failed = append(failed, *failure)
			logger.IncrCounter("enrich.failed")
			continue
		}
		events = append(events, ev)
		logger.IncrCounter("enrich.ok")

		// Checkpoint on enriched count, so a run dominated by failures
		// does not churn the artifact files.
		if len(events)%p.cfg.CheckpointEvery == 0 {
			if err := p.checkpoint(events, failed); err != nil {
				return nil, err
			}
			logger.IncrCounter("enrich.checkpoints")
			logger.Debug("Checkpoint written", logger.Fields{"enriched": len(events)})
		}
	}

	events = event.DedupeEvents(events)
	if err := p.checkpoint(events, failed); err != nil {
		return nil, err
	}
	logger.Info("Enrichment complete", logger.Fields{
		"events": len(events),
		"failed": len(failed),
	})
	return events, nil
}

// enrichOne processes a single discovered row. It returns either an event or
// a failure record, never both.
func (p *Pipeline) enrichOne(row event.Discovered, bySource map[string]config.Source) (*event.Event, *event.FailedItem) {
	src, ok := bySource[row.Source]
	if !ok {
		return nil, &event.FailedItem{URL: row.URL, Reason: reasonUnknownSource, Source: row.Source}
	}

	res, err := p.escalator.FetchDetail(row.URL, p.cfg.UseCache)
	if err != nil {
		logger.Warn("Detail fetch failed", logger.Fields{"url": row.URL, "error": err.Error()})
		return nil, &event.FailedItem{URL: row.URL, Reason: reasonFetchFailed, Source: row.Source}
	}

	ev, err := detail.Parse(src.Name, src.DetailParser, row.URL, res.HTML, p.resolver)
	if err != nil {
		// Keep the parser's diagnostic in the artifact; "parse_failed"
		// alone is useless when fixing a selector.
		return nil, &event.FailedItem{URL: row.URL, Reason: reasonParseFailed + ": " + err.Error(), Source: row.Source}
	}

	ev.FetchMethod = res.Method
	if ev.Title == "" {
		ev.Title = row.Title
	}
	return ev, nil
}

func (p *Pipeline) checkpoint(events []*event.Event, failed []event.FailedItem) error {
	if err := p.store.SaveEvents(p.cfg.EnrichedFile(), events); err != nil {
		return err
	}
	return p.store.SaveFailed(p.cfg.FailedFile(), failed)
}

// runClassify partitions the enriched set and writes both halves.
func (p *Pipeline) runClassify(events []*event.Event) error {
	runner := classify.NewRunner(p.classifier, p.cfg.Classify.BatchSize, p.cfg.Classify.Removal, classify.DefaultBatchDelay)
	res := runner.Run(events)

	if err := p.store.SaveEvents(p.cfg.KeptFile(), res.Kept); err != nil {
		return err
	}
	if err := p.store.SaveEvents(p.cfg.RemovedFile(), res.Removed); err != nil {
		return err
	}
	return nil
}

// Package discover implements Stage A: walking each source's listing pages
// and collecting candidate detail-page URLs with provisional titles.
//
// Two walking strategies exist. Paged sources iterate a page-number query
// parameter for a bounded count, stopping early when a page yields nothing.
// Growth-scroll sources load one URL and keep triggering infinite-scroll
// until the visible item count stabilizes or a scroll ceiling is hit.
package discover

import (
	"fmt"
	"time"

	"github.com/kaiwenlim/sg-events/internal/cache"
	"github.com/kaiwenlim/sg-events/internal/config"
	"github.com/kaiwenlim/sg-events/internal/event"
	"github.com/kaiwenlim/sg-events/internal/fetch"
	"github.com/kaiwenlim/sg-events/internal/logger"
)

const (
	// maxScrolls is the hard ceiling on scroll rounds for growth-scroll
	// sources; noGrowthLimit stops earlier once the item count stalls.
	maxScrolls    = config.DefaultMaxScrolls
	noGrowthLimit = config.DefaultNoGrowthLimit
	scrollPause   = fetch.DefaultScrollPause
)

// Discoverer drives listing pages through the renderer and extracts
// candidate links.
type Discoverer struct {
	cache    *cache.Cache
	renderer fetch.Renderer
}

// New creates a Discoverer. Listing pages are always rendered (they are the
// pages most likely to be JS-hydrated); the cache short-circuits re-renders.
func New(c *cache.Cache, renderer fetch.Renderer) *Discoverer {
	return &Discoverer{cache: c, renderer: renderer}
}

// Discover walks one source's listing pages and returns its candidate rows,
// deduplicated by URL with first-seen order preserved. maxPagesOverride
// overrides the source's page ceiling when positive.
func (d *Discoverer) Discover(src config.Source, useCache bool, maxPagesOverride int) ([]event.Discovered, error) {
	if d.renderer == nil {
		return nil, fmt.Errorf("discovering %s: no renderer available", src.Name)
	}

	var rows []event.Discovered
	var err error

	switch src.Listing.Strategy {
	case config.StrategyPaged:
		rows, err = d.discoverPaged(src, useCache, maxPagesOverride)
	case config.StrategyScroll:
		rows, err = d.discoverScroll(src, useCache)
	default:
		return nil, fmt.Errorf("unknown listing strategy: %s", src.Listing.Strategy)
	}
	if err != nil {
		return nil, err
	}

	return event.DedupeDiscovered(rows), nil
}

func (d *Discoverer) discoverPaged(src config.Source, useCache bool, maxPagesOverride int) ([]event.Discovered, error) {
	listing := src.Listing
	maxPages := listing.MaxPages
	if maxPages <= 0 {
		maxPages = config.DefaultMaxPages
	}
	if maxPagesOverride > 0 {
		maxPages = maxPagesOverride
	}
	startPage := listing.StartPage
	if startPage <= 0 {
		startPage = config.DefaultStartPage
	}

	var all []event.Discovered
	for page := startPage; page < startPage+maxPages; page++ {
		pageURL, err := event.WithPageParam(listing.BaseURL, listing.PageParam, page)
		if err != nil {
			return nil, fmt.Errorf("building page URL for %s: %w", src.Name, err)
		}

		html, err := d.listingHTML(pageURL, src, useCache, fetch.ScrollPolicy{Mode: fetch.ScrollNone})
		if err != nil {
			return nil, err
		}

		rows, err := ExtractLinks(src, pageURL, html)
		if err != nil {
			return nil, err
		}
		logger.Info("listing page scanned", logger.Fields{
			"source": src.Name,
			"page":   page,
			"found":  len(rows),
		})

		if len(rows) == 0 {
			break
		}
		all = append(all, rows...)
	}
	return all, nil
}

func (d *Discoverer) discoverScroll(src config.Source, useCache bool) ([]event.Discovered, error) {
	listing := src.Listing

	// Without an item selector there is nothing to count, so fall back to a
	// fixed number of blind scrolls.
	policy := fetch.ScrollPolicy{
		Mode:  fetch.ScrollFixed,
		Count: maxScrolls,
		Pause: scrollPause,
	}
	if listing.ItemSelector != "" {
		policy = fetch.ScrollPolicy{
			Mode:          fetch.ScrollUntilNoGrowth,
			ItemSelector:  listing.ItemSelector,
			NoGrowthLimit: noGrowthLimit,
			MaxScrolls:    maxScrolls,
			Pause:         scrollPause,
		}
	}

	html, err := d.listingHTML(listing.BaseURL, src, useCache, policy)
	if err != nil {
		return nil, err
	}

	rows, err := ExtractLinks(src, listing.BaseURL, html)
	if err != nil {
		return nil, err
	}
	logger.Info("listing scanned", logger.Fields{
		"source": src.Name,
		"found":  len(rows),
	})
	return rows, nil
}

// listingHTML returns cached listing HTML when allowed, rendering and
// caching it otherwise.
func (d *Discoverer) listingHTML(url string, src config.Source, useCache bool, policy fetch.ScrollPolicy) (string, error) {
	if useCache {
		if html, ok := d.cache.Get(cache.KindListing, url); ok {
			logger.Debug("using cached listing", logger.Fields{"source": src.Name, "url": url})
			return html, nil
		}
	}

	wait := src.Listing.WaitSelector
	if wait == "" {
		wait = "body"
	}

	start := time.Now()
	html, err := d.renderer.Render(url, wait, policy)
	if err != nil {
		return "", fmt.Errorf("rendering listing %s: %w", url, err)
	}
	logger.RecordTiming("discover.render", time.Since(start))

	if err := d.cache.Put(cache.KindListing, url, html); err != nil {
		return "", err
	}
	return html, nil
}

package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kaiwenlim/sg-events/internal/cache"
	"github.com/kaiwenlim/sg-events/internal/event"
)

// DefaultMinTextLen is the minimum visible text length (tags stripped) a
// lightweight response must carry to be accepted. Shorter bodies are almost
// always JS-only shells and escalate to the rendered tier.
const DefaultMinTextLen = 200

// Result is the outcome of a detail fetch: the HTML (empty when all tiers
// failed) and the tier that produced it.
type Result struct {
	HTML   string
	Method string
}

// Escalator fetches detail pages through the tiers cache -> lightweight ->
// rendered, short-circuiting on the first success.
type Escalator struct {
	cache      *cache.Cache
	client     *Client
	renderer   Renderer
	minTextLen int
	waitFor    string
}

// NewEscalator wires the tiers together. renderer may be nil, in which case
// escalation stops after the lightweight tier.
func NewEscalator(c *cache.Cache, client *Client, renderer Renderer) *Escalator {
	return &Escalator{
		cache:      c,
		client:     client,
		renderer:   renderer,
		minTextLen: DefaultMinTextLen,
		waitFor:    "body",
	}
}

// FetchDetail applies the escalation policy for one URL. A nil error means
// Result.HTML is non-empty; a non-nil error means every tier failed, which
// the caller records as a soft per-URL failure.
func (e *Escalator) FetchDetail(url string, useCache bool) (Result, error) {
	if useCache {
		if html, ok := e.cache.Get(cache.KindDetail, url); ok {
			return Result{HTML: html, Method: event.MethodCache}, nil
		}
	}

	var lastErr error

	html, err := e.client.Fetch(url)
	if err != nil {
		lastErr = err
	} else if VisibleTextLen(html) >= e.minTextLen {
		if err := e.cache.Put(cache.KindDetail, url, html); err != nil {
			return Result{}, err
		}
		return Result{HTML: html, Method: event.MethodHTTP}, nil
	} else {
		lastErr = fmt.Errorf("response below %d visible characters", e.minTextLen)
	}

	if e.renderer != nil {
		rendered, err := e.renderer.Render(url, e.waitFor, ScrollPolicy{Mode: ScrollNone})
		if err != nil {
			lastErr = err
		} else if rendered != "" {
			if err := e.cache.Put(cache.KindDetail, url, rendered); err != nil {
				return Result{}, err
			}
			return Result{HTML: rendered, Method: event.MethodRendered}, nil
		}
	}

	return Result{Method: event.MethodNone}, fmt.Errorf("all fetch tiers failed: %w", lastErr)
}

// VisibleTextLen returns the length of the page's visible text with tags
// stripped and whitespace collapsed.
func VisibleTextLen(html string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0
	}
	return len(event.NormalizeWhitespace(doc.Text()))
}

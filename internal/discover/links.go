package discover

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kaiwenlim/sg-events/internal/config"
	"github.com/kaiwenlim/sg-events/internal/event"
)

// ExtractLinks scans listing HTML for candidate event links. Every
// configured selector is tried in order and the matches are unioned; rows
// are deduplicated by URL within the page, first occurrence winning.
func ExtractLinks(src config.Source, listingURL, html string) ([]event.Discovered, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing listing HTML: %w", err)
	}

	var rows []event.Discovered
	seen := make(map[string]bool)

	for _, selector := range src.LinkSelectors {
		doc.Find(selector).Each(func(i int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			url := event.CanonicalURL(href, listingURL)
			if url == "" {
				return
			}
			if src.URLMustContain != "" && !strings.Contains(url, src.URLMustContain) {
				return
			}
			if seen[url] {
				return
			}
			seen[url] = true

			rows = append(rows, event.Discovered{
				URL:    url,
				Title:  anchorTitle(a, src.TitleSelector),
				Source: src.Name,
			})
		})
	}
	return rows, nil
}

// anchorTitle extracts a provisional title from an anchor: the configured
// sub-selector first, then label attributes, then the anchor text.
func anchorTitle(a *goquery.Selection, titleSelector string) string {
	var sub string
	if titleSelector != "" {
		sub = a.Find(titleSelector).First().Text()
	}
	ariaLabel, _ := a.Attr("aria-label")
	titleAttr, _ := a.Attr("title")
	return event.FirstNonEmpty(sub, ariaLabel, titleAttr, a.Text())
}

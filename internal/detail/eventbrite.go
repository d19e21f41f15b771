package detail

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/kaiwenlim/sg-events/internal/event"
)

// parseEventbrite relies on visible DOM plus meta fallbacks; Eventbrite's
// lightweight responses usually carry the full markup.
func parseEventbrite(doc *goquery.Document) event.Fields {
	return event.Fields{
		event.FieldTitle: event.FirstNonEmpty(
			selectText(doc, "h1"),
			pageTitle(doc),
			metaProperty(doc, "og:title"),
		),
		event.FieldDescription: event.FirstNonEmpty(
			firstText(doc,
				"[data-testid='event-description']",
				".structured-content",
				"section[aria-label*='Description']",
				"article",
			),
			metaName(doc, "description"),
		),
		event.FieldDateText: firstText(doc,
			"time",
			"[data-testid='event-date']",
			"div.event-details__data",
		),
		event.FieldLocation: firstText(doc,
			"[data-testid='event-location']",
			"div.location-info__address",
			"section[aria-label*='Location']",
		),
		event.FieldPrice: firstText(doc,
			"[data-testid='event-price']",
			"div.conversion-bar__panel-info",
		),
	}
}

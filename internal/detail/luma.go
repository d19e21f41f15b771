package detail

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/kaiwenlim/sg-events/internal/event"
)

func parseLuma(doc *goquery.Document) event.Fields {
	return event.Fields{
		event.FieldTitle: event.FirstNonEmpty(
			selectText(doc, "h1"),
			pageTitle(doc),
			metaProperty(doc, "og:title"),
		),
		event.FieldDescription: event.FirstNonEmpty(
			firstText(doc, "main", "article"),
			metaName(doc, "description"),
		),
		event.FieldDateText: selectText(doc, "time"),
		event.FieldLocation: firstText(doc,
			"[data-testid='location']",
			"a[href*='maps']",
		),
	}
}

package detail

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/kaiwenlim/sg-events/internal/event"
)

// parseGeneric is the fallback for sources without a dedicated parser: page
// title and meta description only.
func parseGeneric(doc *goquery.Document) event.Fields {
	return event.Fields{
		event.FieldTitle:       event.FirstNonEmpty(pageTitle(doc), metaProperty(doc, "og:title")),
		event.FieldDescription: metaName(doc, "description"),
	}
}

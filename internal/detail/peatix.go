package detail

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kaiwenlim/sg-events/internal/dates"
	"github.com/kaiwenlim/sg-events/internal/event"
)

// parsePeatix fuses three layers. Peatix serves schema.org microdata even
// when the client app has not rendered, so that layer carries most fields.
func parsePeatix(doc *goquery.Document) event.Fields {
	schema := peatixSchemaOrg(doc)

	meta := event.Fields{
		event.FieldTitle:       event.FirstNonEmpty(metaProperty(doc, "og:title"), metaName(doc, "title")),
		event.FieldDescription: metaName(doc, "description"),
	}

	visible := event.Fields{
		event.FieldTitle: event.FirstNonEmpty(selectText(doc, "h1"), pageTitle(doc)),
		event.FieldDescription: firstText(doc,
			".event-description",
			"[data-testid='event-description']",
			".event__description",
			"article",
		),
		event.FieldLocation: firstText(doc,
			".event__venue",
			".event-venue",
			"[data-testid='venue']",
		),
		event.FieldPrice: firstText(doc,
			".event__ticket",
			".ticket",
			"[data-testid='ticket-price']",
		),
	}

	return event.Reduce(event.Fields{}, schema, meta, visible)
}

// peatixSchemaOrg extracts the schema.org Event microdata scope: name,
// start date, venue plus address, and offer price.
func peatixSchemaOrg(doc *goquery.Document) event.Fields {
	scope := doc.Find("[itemscope][itemtype='http://schema.org/Event']").First()
	if scope.Length() == 0 {
		return event.Fields{}
	}

	out := event.Fields{
		event.FieldTitle: itempropContent(scope, "name"),
		event.FieldStart: dates.ParseISOLike(itempropContent(scope, "startDate")),
	}

	loc := scope.Find("[itemprop='location'][itemscope]").First()
	venue := itempropContent(loc, "name")
	address := itempropContent(loc, "address")
	var parts []string
	for _, p := range []string{venue, address} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	out[event.FieldLocation] = strings.Join(parts, ", ")

	offers := scope.Find("[itemprop='offers'][itemscope]").First()
	out[event.FieldPrice] = itempropContent(offers, "price")

	return out
}

package detail

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/kaiwenlim/sg-events/internal/event"
)

// metaName returns the content of <meta name="..."> or "".
func metaName(doc *goquery.Document, name string) string {
	content, _ := doc.Find("meta[name='" + name + "']").First().Attr("content")
	return event.NormalizeWhitespace(content)
}

// metaProperty returns the content of <meta property="..."> or "".
func metaProperty(doc *goquery.Document, prop string) string {
	content, _ := doc.Find("meta[property='" + prop + "']").First().Attr("content")
	return event.NormalizeWhitespace(content)
}

// selectText returns the normalized text of the first node matching css.
func selectText(doc *goquery.Document, css string) string {
	return event.NormalizeWhitespace(doc.Find(css).First().Text())
}

// firstText tries a ranked list of selectors and returns the first non-empty
// normalized text.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, css := range selectors {
		if t := selectText(doc, css); t != "" {
			return t
		}
	}
	return ""
}

// pageTitle returns the normalized <title> text.
func pageTitle(doc *goquery.Document) string {
	return event.NormalizeWhitespace(doc.Find("title").First().Text())
}

// itempropContent returns the content of <meta itemprop="..."> inside scope.
func itempropContent(scope *goquery.Selection, prop string) string {
	content, _ := scope.Find("meta[itemprop='" + prop + "']").First().Attr("content")
	return event.NormalizeWhitespace(content)
}

package detail

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kaiwenlim/sg-events/internal/dates"
	"github.com/kaiwenlim/sg-events/internal/event"
)

// ParseFunc extracts a field patch from one detail page.
type ParseFunc func(doc *goquery.Document) event.Fields

// parsers dispatches by the source's configured detail parser name.
var parsers = map[string]ParseFunc{
	"peatix":     parsePeatix,
	"eventbrite": parseEventbrite,
	"luma":       parseLuma,
	"fever":      parseFever,
	"generic":    parseGeneric,
}

var priceNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// capacityVocabulary is the fixed set of availability phrases scanned for in
// page text, in priority order.
var capacityVocabulary = []string{
	"Sold out",
	"Selling fast",
	"Few tickets left",
	"Limited spots",
}

// Parse runs the source's parser over the HTML and finalizes the record:
// fusion, price and capacity normalization, and date resolution. A panic
// inside a parser is recovered and surfaced as an error so one bad page
// never halts the batch.
func Parse(source, parserName, url, html string, resolver *dates.Resolver) (ev *event.Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			ev, err = nil, fmt.Errorf("parser panic: %v", r)
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing detail HTML: %w", err)
	}

	fn, ok := parsers[parserName]
	if !ok {
		fn = parseGeneric
	}

	ev = event.New(source, url)
	fields := event.MergeFillEmpty(ev.Fields(), fn(doc))

	normalizePrice(fields)
	if event.NormalizeWhitespace(fields[event.FieldCapacity]) == "" {
		fields[event.FieldCapacity] = scanCapacity(doc)
	}
	resolveStart(fields, resolver)

	ev.ApplyFields(fields)
	return ev, nil
}

// normalizePrice reduces a textual price ("SGD 25.50", "From $12") to its
// leading numeric token.
func normalizePrice(fields event.Fields) {
	price := event.NormalizeWhitespace(fields[event.FieldPrice])
	if price == "" {
		return
	}
	if m := priceNumber.FindString(price); m != "" {
		fields[event.FieldPrice] = m
	}
}

// scanCapacity looks for the first availability phrase anywhere in the
// page's visible text.
func scanCapacity(doc *goquery.Document) string {
	text := strings.ToLower(event.NormalizeWhitespace(doc.Text()))
	for _, phrase := range capacityVocabulary {
		if strings.Contains(text, strings.ToLower(phrase)) {
			return phrase
		}
	}
	return ""
}

// resolveStart normalizes an instant-like start value, or resolves the raw
// date text when no start was extracted. Failure leaves the instant empty
// and the raw text untouched.
func resolveStart(fields event.Fields, resolver *dates.Resolver) {
	if start := event.NormalizeWhitespace(fields[event.FieldStart]); start != "" {
		if iso := dates.ParseISOLike(start); iso != "" {
			fields[event.FieldStart] = iso
		}
		return
	}

	dateText := event.NormalizeWhitespace(fields[event.FieldDateText])
	if dateText == "" {
		return
	}
	start, end := resolver.Resolve(dateText)
	fields[event.FieldStart] = start
	if event.NormalizeWhitespace(fields[event.FieldEnd]) == "" {
		fields[event.FieldEnd] = end
	}
}

// Package dates converts freeform event date text into absolute instants in
// the pipeline's fixed +08:00 offset.
//
// Resolution is layered: instant-like strings (ISO 8601 with or without an
// explicit offset or seconds) are parsed directly; other absolute formats go
// through dateparse; relative expressions ("Tomorrow 2pm", "this weekend",
// bare weekday names) go through the natural-language parser anchored at the
// run's reference instant. Failure is soft: the caller keeps the raw text and
// leaves the instant empty.
package dates

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Layout is the canonical output format: ISO 8601 at minute precision with
// an explicit offset.
const Layout = "2006-01-02T15:04-07:00"

// SGT is the fixed offset all instants are expressed in.
var SGT = time.FixedZone("+08:00", 8*60*60)

var rangePattern = regexp.MustCompile(`(?i)^(.{2,}?)\s+(?:-|–|—|to)\s+(.+)$`)

// Resolver resolves date text against a fixed reference instant.
type Resolver struct {
	now    time.Time
	parser *when.Parser
}

// NewResolver creates a resolver anchored at the given reference instant,
// re-expressed in the fixed offset.
func NewResolver(now time.Time) *Resolver {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Resolver{now: now.In(SGT), parser: w}
}

// Format re-expresses t in the fixed offset at minute precision.
func Format(t time.Time) string {
	return t.In(SGT).Format(Layout)
}

// ParseISOLike parses instant-like strings such as "2026-03-15T10:00",
// "2026-03-15 10:00:00" or "2026-03-15T10:00+08:00". Strings without an
// explicit offset are assumed to be in the fixed offset. Returns "" when the
// input is not instant-like.
func ParseISOLike(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	s = strings.Replace(s, " ", "T", 1)

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Format(t)
		}
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, SGT); err == nil {
			return Format(t)
		}
	}
	return ""
}

// Resolve converts raw date text into start and optional end instants.
// Range text ("2pm - 4pm", "7pm to 9pm") yields a best-effort end; the start
// point is authoritative. Both results are "" when nothing can be resolved.
func (r *Resolver) Resolve(text string) (start, end string) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", ""
	}

	if m := rangePattern.FindStringSubmatch(text); m != nil {
		left, right := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		startT, okStart := r.resolveOne(left)
		endT, okEnd := r.resolveOne(right)

		// A bare end time ("4pm") resolves relative to now; align it with
		// the start date when the two disagree.
		if okStart && okEnd && !sameDate(startT, endT) {
			e := endT.In(SGT)
			y, m, d := startT.In(SGT).Date()
			endT = time.Date(y, m, d, e.Hour(), e.Minute(), 0, 0, SGT)
		}

		if okStart {
			start = Format(startT)
			if okEnd {
				end = Format(endT)
			}
			return start, end
		}
		// Fall through: the separator was not a time range.
	}

	if t, ok := r.resolveOne(text); ok {
		return Format(t), ""
	}
	return "", ""
}

// resolveOne tries the layered parsers on a single point expression.
func (r *Resolver) resolveOne(text string) (time.Time, bool) {
	if iso := ParseISOLike(text); iso != "" {
		t, err := time.Parse(Layout, iso)
		if err == nil {
			return t, true
		}
	}

	if t, err := dateparse.ParseIn(text, SGT); err == nil {
		return t, true
	}

	res, err := r.parser.Parse(text, r.now)
	if err == nil && res != nil {
		return res.Time.In(SGT), true
	}
	return time.Time{}, false
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.In(SGT).Date()
	by, bm, bd := b.In(SGT).Date()
	return ay == by && am == bm && ad == bd
}

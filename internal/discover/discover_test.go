package discover

import (
	"os"
	"testing"

	"github.com/kaiwenlim/sg-events/internal/cache"
	"github.com/kaiwenlim/sg-events/internal/config"
	"github.com/kaiwenlim/sg-events/internal/fetch"
)

// stubRenderer returns one canned page per URL and records render calls.
type stubRenderer struct {
	pages map[string]string
	calls []string
}

func (s *stubRenderer) Render(url, waitSelector string, scroll fetch.ScrollPolicy) (string, error) {
	s.calls = append(s.calls, url)
	return s.pages[url], nil
}

func peatixSource() config.Source {
	return config.Source{
		Name:    "peatix",
		Enabled: true,
		Listing: config.Listing{
			Strategy:     config.StrategyPaged,
			BaseURL:      "https://peatix.com/search?p=1",
			PageParam:    "p",
			StartPage:    1,
			MaxPages:     3,
			WaitSelector: ".event-card",
		},
		LinkSelectors:  []string{"a.event-card__title", "a[href*='/event/']"},
		URLMustContain: "/event/",
		DetailParser:   "peatix",
	}
}

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", name, err)
	}
	return string(data)
}

func TestExtractLinks(t *testing.T) {
	src := peatixSource()
	html := loadFixture(t, "listing_peatix.html")

	rows, err := ExtractLinks(src, "https://peatix.com/search?p=1", html)
	if err != nil {
		t.Fatalf("ExtractLinks failed: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected 3 candidate rows, got %d: %+v", len(rows), rows)
	}

	if rows[0].URL != "https://peatix.com/event/4100001" {
		t.Errorf("unexpected first URL: %s", rows[0].URL)
	}
	if rows[0].Title != "Sunset Rooftop Jazz" {
		t.Errorf("unexpected first title: %q", rows[0].Title)
	}

	// Anchor text with messy whitespace is normalized.
	if rows[1].Title != "Founders Networking Mixer" {
		t.Errorf("title not normalized: %q", rows[1].Title)
	}

	// Empty anchor text falls back to the aria-label attribute.
	if rows[2].Title != "Pottery Workshop for Beginners" {
		t.Errorf("attribute fallback failed: %q", rows[2].Title)
	}

	for _, r := range rows {
		if r.Source != "peatix" {
			t.Errorf("expected source peatix, got %q", r.Source)
		}
	}
}

func TestDiscoverPagedStopsOnEmptyPage(t *testing.T) {
	src := peatixSource()
	listing := loadFixture(t, "listing_peatix.html")

	rend := &stubRenderer{pages: map[string]string{
		"https://peatix.com/search?p=1": listing,
		"https://peatix.com/search?p=2": listing, // same rows: dedupe across pages
		"https://peatix.com/search?p=3": "<html><body>no results</body></html>",
	}}

	c, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("creating cache: %v", err)
	}

	d := New(c, rend)
	rows, err := d.Discover(src, false, 0)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if len(rend.calls) != 3 {
		t.Errorf("expected 3 rendered pages, got %d", len(rend.calls))
	}
	if len(rows) != 3 {
		t.Errorf("expected 3 unique rows after cross-page dedupe, got %d", len(rows))
	}
}

func TestDiscoverMaxPagesOverride(t *testing.T) {
	src := peatixSource()
	listing := loadFixture(t, "listing_peatix.html")

	rend := &stubRenderer{pages: map[string]string{
		"https://peatix.com/search?p=1": listing,
	}}

	c, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("creating cache: %v", err)
	}

	d := New(c, rend)
	if _, err := d.Discover(src, false, 1); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(rend.calls) != 1 {
		t.Errorf("override to 1 page should render once, got %d", len(rend.calls))
	}
}

func TestDiscoverWithoutRendererIsAnError(t *testing.T) {
	c, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("creating cache: %v", err)
	}

	d := New(c, nil)
	if _, err := d.Discover(peatixSource(), true, 0); err == nil {
		t.Fatal("expected error when no renderer is available")
	}
}

func TestDiscoverUsesListingCache(t *testing.T) {
	src := peatixSource()
	src.Listing.MaxPages = 1
	listing := loadFixture(t, "listing_peatix.html")

	rend := &stubRenderer{pages: map[string]string{
		"https://peatix.com/search?p=1": listing,
	}}

	c, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("creating cache: %v", err)
	}

	d := New(c, rend)
	if _, err := d.Discover(src, true, 0); err != nil {
		t.Fatalf("first Discover failed: %v", err)
	}
	if _, err := d.Discover(src, true, 0); err != nil {
		t.Fatalf("second Discover failed: %v", err)
	}

	if len(rend.calls) != 1 {
		t.Errorf("second run should hit the listing cache, got %d renders", len(rend.calls))
	}
}

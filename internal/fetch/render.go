package fetch

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	DefaultRenderTimeout = 20 * time.Second
	DefaultScrollPause   = 1200 * time.Millisecond
)

// ScrollMode selects how a rendered page is scrolled before capture.
type ScrollMode int

const (
	// ScrollNone captures the page as loaded.
	ScrollNone ScrollMode = iota
	// ScrollFixed scrolls to the bottom a fixed number of times.
	ScrollFixed
	// ScrollUntilNoGrowth scrolls until the matching item count stops
	// increasing, bounded by a hard scroll ceiling.
	ScrollUntilNoGrowth
)

// ScrollPolicy describes the scrolling applied after page load.
type ScrollPolicy struct {
	Mode          ScrollMode
	Count         int           // fixed scroll count for ScrollFixed
	ItemSelector  string        // growth counter selector for ScrollUntilNoGrowth
	NoGrowthLimit int           // consecutive no-growth rounds before stopping
	MaxScrolls    int           // hard ceiling for ScrollUntilNoGrowth
	Pause         time.Duration // pause between scroll actions
}

// Renderer captures fully rendered HTML for a URL. Implementations wait for
// waitSelector (tolerating a timeout) and apply the scroll policy before
// returning the page content.
type Renderer interface {
	Render(url, waitSelector string, scroll ScrollPolicy) (string, error)
}

// PlaywrightRenderer renders pages with a headless Firefox driven by
// playwright. One browser is shared across renders; each render gets a
// fresh page.
type PlaywrightRenderer struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	timeout time.Duration
}

// NewPlaywrightRenderer starts the playwright driver and launches a headless
// browser. Callers must Close it when done.
func NewPlaywrightRenderer(timeout time.Duration) (*PlaywrightRenderer, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	browser, err := pw.Firefox.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	return &PlaywrightRenderer{pw: pw, browser: browser, timeout: timeout}, nil
}

// Render navigates to url, waits for waitSelector, applies the scroll policy
// and returns the page HTML.
func (r *PlaywrightRenderer) Render(url, waitSelector string, scroll ScrollPolicy) (string, error) {
	page, err := r.browser.NewPage()
	if err != nil {
		return "", fmt.Errorf("creating page: %w", err)
	}
	defer page.Close()

	timeoutMs := float64(r.timeout.Milliseconds())
	if _, err := page.Goto(url, playwright.PageGotoOptions{Timeout: playwright.Float(timeoutMs)}); err != nil {
		return "", fmt.Errorf("navigating to %s: %w", url, err)
	}

	if waitSelector != "" {
		// A timeout here is tolerable: capture whatever has rendered.
		_, _ = page.WaitForSelector(waitSelector, playwright.PageWaitForSelectorOptions{
			Timeout: playwright.Float(timeoutMs),
		})
	}

	pause := scroll.Pause
	if pause <= 0 {
		pause = DefaultScrollPause
	}

	switch scroll.Mode {
	case ScrollFixed:
		for i := 0; i < scroll.Count; i++ {
			r.scrollToBottom(page, pause)
		}
	case ScrollUntilNoGrowth:
		r.scrollUntilNoGrowth(page, scroll, pause)
	}

	html, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("capturing page content: %w", err)
	}
	return html, nil
}

// scrollUntilNoGrowth keeps scrolling while the item count grows, stopping
// after NoGrowthLimit stagnant rounds or MaxScrolls total scrolls.
func (r *PlaywrightRenderer) scrollUntilNoGrowth(page playwright.Page, scroll ScrollPolicy, pause time.Duration) {
	lastCount := -1
	noGrowth := 0
	scrolls := 0

	for {
		count, err := page.Locator(scroll.ItemSelector).Count()
		if err != nil {
			count = -1
		}

		if count == lastCount {
			noGrowth++
		} else {
			noGrowth = 0
		}

		if noGrowth >= scroll.NoGrowthLimit || scrolls >= scroll.MaxScrolls {
			return
		}

		lastCount = count
		r.scrollToBottom(page, pause)
		scrolls++
	}
}

func (r *PlaywrightRenderer) scrollToBottom(page playwright.Page, pause time.Duration) {
	_, _ = page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	page.WaitForTimeout(float64(pause.Milliseconds()))
}

// Close shuts down the browser and the playwright driver.
func (r *PlaywrightRenderer) Close() error {
	if err := r.browser.Close(); err != nil {
		return fmt.Errorf("closing browser: %w", err)
	}
	return r.pw.Stop()
}

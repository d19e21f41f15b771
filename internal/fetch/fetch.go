package fetch

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultUserAgent mimics a desktop browser; several sources reject
	// obvious bot agents.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/122.0.0.0 Safari/537.36"

	DefaultTimeout = 25 * time.Second
	DefaultRetries = 2

	// Politeness window between lightweight requests.
	DefaultMinDelay = 300 * time.Millisecond
	DefaultMaxDelay = 900 * time.Millisecond
)

// Client is the lightweight HTTP fetch tier.
type Client struct {
	http      *http.Client
	userAgent string
	retries   uint64
	minDelay  time.Duration
	maxDelay  time.Duration
}

// NewClient creates a lightweight client with the default timeout, retry
// count and politeness window.
func NewClient() *Client {
	return &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		retries:   DefaultRetries,
		minDelay:  DefaultMinDelay,
		maxDelay:  DefaultMaxDelay,
	}
}

// politeDelay sleeps for a random interval inside the politeness window.
func (c *Client) politeDelay() {
	if c.maxDelay <= c.minDelay {
		time.Sleep(c.minDelay)
		return
	}
	jitter := time.Duration(rand.Int63n(int64(c.maxDelay - c.minDelay)))
	time.Sleep(c.minDelay + jitter)
}

// Fetch retrieves url, retrying transport errors and >=400 statuses up to
// the configured retry count before giving up this tier.
func (c *Client) Fetch(url string) (string, error) {
	var body string

	attempt := func() error {
		c.politeDelay()

		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("fetching page: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}
		body = string(data)
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(200*time.Millisecond), c.retries)
	if err := backoff.Retry(attempt, policy); err != nil {
		return "", err
	}
	return body, nil
}

package event

import (
	"net/url"
	"strconv"
	"strings"
)

// NormalizeWhitespace collapses any run of whitespace to a single space and
// trims both ends. Empty input yields "".
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FirstNonEmpty returns the first value that is non-empty after whitespace
// normalization, or "" if all values are empty.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if n := NormalizeWhitespace(v); n != "" {
			return n
		}
	}
	return ""
}

// CanonicalURL resolves href against base and returns the absolute URL, or
// "" when the input is unparseable or the result is not an http(s) URL with
// a host.
func CanonicalURL(href, base string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := b.ResolveReference(ref)
	if (abs.Scheme != "http" && abs.Scheme != "https") || abs.Host == "" {
		return ""
	}
	return abs.String()
}

// WithPageParam returns rawURL with the named query parameter set to page,
// preserving all other query parameters.
func WithPageParam(rawURL, param string, page int) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(param, strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

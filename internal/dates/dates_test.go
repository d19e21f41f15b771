package dates

import (
	"testing"
	"time"
)

func referenceNow() time.Time {
	return time.Date(2026, 1, 10, 9, 0, 0, 0, SGT)
}

func TestParseISOLike(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "no offset no seconds", input: "2026-03-15T10:00", expected: "2026-03-15T10:00+08:00"},
		{name: "no offset with seconds", input: "2026-03-15T10:00:00", expected: "2026-03-15T10:00+08:00"},
		{name: "space separator", input: "2026-03-15 10:00", expected: "2026-03-15T10:00+08:00"},
		{name: "explicit offset kept", input: "2026-03-15T10:00+08:00", expected: "2026-03-15T10:00+08:00"},
		{name: "other offset re-expressed", input: "2026-03-15T02:00Z", expected: "2026-03-15T10:00+08:00"},
		{name: "not instant-like", input: "Tomorrow 2pm", expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseISOLike(tt.input); got != tt.expected {
				t.Errorf("ParseISOLike(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseISOLikeIdempotent(t *testing.T) {
	// Feeding an already-fixed-offset string back through must not change it.
	first := ParseISOLike("2026-03-15 10:00")
	second := ParseISOLike(first)
	if first != second {
		t.Errorf("re-normalization not idempotent: %q vs %q", first, second)
	}
}

func TestResolveRelative(t *testing.T) {
	r := NewResolver(referenceNow())

	start, _ := r.Resolve("Tomorrow 2pm")
	if start != "2026-01-11T14:00+08:00" {
		t.Errorf("Tomorrow 2pm: got %q, want 2026-01-11T14:00+08:00", start)
	}
}

func TestResolveAbsolute(t *testing.T) {
	r := NewResolver(referenceNow())

	start, end := r.Resolve("2026-03-15T19:30")
	if start != "2026-03-15T19:30+08:00" {
		t.Errorf("got %q", start)
	}
	if end != "" {
		t.Errorf("expected no end time, got %q", end)
	}
}

func TestResolveRange(t *testing.T) {
	r := NewResolver(referenceNow())

	start, end := r.Resolve("Tomorrow 2pm - 4pm")
	if start != "2026-01-11T14:00+08:00" {
		t.Errorf("start: got %q", start)
	}
	if end != "2026-01-11T16:00+08:00" {
		t.Errorf("end: got %q, want aligned to start date", end)
	}
}

func TestResolveUnparseable(t *testing.T) {
	r := NewResolver(referenceNow())

	start, end := r.Resolve("doors open when the vibe is right")
	if start != "" || end != "" {
		t.Errorf("expected soft failure, got start=%q end=%q", start, end)
	}

	start, end = r.Resolve("")
	if start != "" || end != "" {
		t.Errorf("expected empty results for empty input, got start=%q end=%q", start, end)
	}
}

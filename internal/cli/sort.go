package cli

import (
	"sort"
	"strings"

	"github.com/kaiwenlim/sg-events/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate   SortOrder = "date"
	SortBySource SortOrder = "source"
	SortByTitle  SortOrder = "title"
)

// sortEvents sorts a slice of events based on the specified sort order
func sortEvents(events []*event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByStart(events[i], events[j])
		})
	case SortBySource:
		sort.SliceStable(events, func(i, j int) bool {
			if events[i].Source != events[j].Source {
				return events[i].Source < events[j].Source
			}
			return compareByStart(events[i], events[j])
		})
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			if events[i].Title != events[j].Title {
				return strings.ToLower(events[i].Title) < strings.ToLower(events[j].Title)
			}
			return compareByStart(events[i], events[j])
		})
	}
}

// compareByStart orders by start datetime. Start strings share one fixed
// offset, so lexicographic comparison is chronological. Events without a
// resolved start sort last.
func compareByStart(i, j *event.Event) bool {
	if i.Start != "" && j.Start != "" {
		return i.Start < j.Start
	}
	if i.Start != "" {
		return true
	}
	if j.Start != "" {
		return false
	}
	if i.Source != j.Source {
		return i.Source < j.Source
	}
	return strings.ToLower(i.Title) < strings.ToLower(j.Title)
}

package classify

import (
	"time"

	"github.com/kaiwenlim/sg-events/internal/event"
	"github.com/kaiwenlim/sg-events/internal/logger"
)

// DefaultBatchSize is the number of events sent per service call.
const DefaultBatchSize = 30

// DefaultBatchDelay is the pause between consecutive service calls.
const DefaultBatchDelay = time.Second

// Result is the kept/removed partition of a classified event set.
type Result struct {
	Kept    []*event.Event
	Removed []*event.Event
}

// Runner classifies an event set in batches and partitions it. Events the
// service fails to cover fall back to the keyword heuristic, so every event
// leaves Run with a category.
type Runner struct {
	classifier BatchClassifier
	batchSize  int
	removal    map[string]bool
	delay      time.Duration
}

// NewRunner builds a runner. A nil classifier is valid and routes everything
// through the heuristic. Categories in removal name the events to drop from
// the kept set.
func NewRunner(classifier BatchClassifier, batchSize int, removal []string, delay time.Duration) *Runner {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	removalSet := make(map[string]bool, len(removal))
	for _, c := range removal {
		removalSet[c] = true
	}
	return &Runner{
		classifier: classifier,
		batchSize:  batchSize,
		removal:    removalSet,
		delay:      delay,
	}
}

// Run assigns a category to every event and partitions the set. Input order
// is preserved within both partitions.
func (r *Runner) Run(events []*event.Event) Result {
	for start := 0; start < len(events); start += r.batchSize {
		end := start + r.batchSize
		if end > len(events) {
			end = len(events)
		}
		if start > 0 && r.delay > 0 {
			time.Sleep(r.delay)
		}
		r.classifyBatch(events[start:end])
	}

	var res Result
	for _, ev := range events {
		if r.removal[ev.VibeCategory] {
			res.Removed = append(res.Removed, ev)
		} else {
			res.Kept = append(res.Kept, ev)
		}
	}
	logger.Info("Classification complete", logger.Fields{
		"events":  len(events),
		"kept":    len(res.Kept),
		"removed": len(res.Removed),
	})
	return res
}

func (r *Runner) classifyBatch(batch []*event.Event) {
	var assignments map[string]string
	if r.classifier != nil {
		items := make([]Item, len(batch))
		for i, ev := range batch {
			items[i] = Item{ID: ev.Identity(), Title: ev.Title, Description: ev.Description}
		}
		var err error
		assignments, err = r.classifier.ClassifyBatch(items)
		if err != nil {
			logger.Warn("Batch classification failed, using heuristic", logger.Fields{
				"batch_size": len(batch),
				"error":      err.Error(),
			})
			logger.IncrCounter("classify.batch_failures")
		}
	}

	for _, ev := range batch {
		if cat, ok := assignments[ev.Identity()]; ok {
			ev.VibeCategory = cat
			logger.IncrCounter("classify.service_assigned")
			continue
		}
		ev.VibeCategory = HeuristicCategory(ev.Title, ev.Description)
		logger.IncrCounter("classify.heuristic_assigned")
	}
}

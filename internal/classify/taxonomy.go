// Package classify implements Stage C: assigning every enriched event one
// category from a fixed closed taxonomy, then partitioning the set into kept
// and removed events.
//
// The primary classifier is an external chat-completion service called in
// batches; a deterministic keyword heuristic covers every event the service
// misses, so classification never drops an event.
package classify

// CategoryOther is the catch-all assigned when nothing else matches.
const CategoryOther = "other"

// Taxonomy is the fixed closed set of vibe categories.
var Taxonomy = []string{
	"arts_culture",
	"business_networking",
	"family_kids",
	"fitness_wellness",
	"food_drink",
	"live_music",
	"nightlife_party",
	"tech_meetup",
	"workshop_learning",
	CategoryOther,
}

var taxonomySet = func() map[string]bool {
	set := make(map[string]bool, len(Taxonomy))
	for _, c := range Taxonomy {
		set[c] = true
	}
	return set
}()

// ValidCategory reports whether c is in the taxonomy.
func ValidCategory(c string) bool {
	return taxonomySet[c]
}

package classify

import "strings"

// keywordGroup maps a category to the phrases that imply it. Groups are
// checked in order; the first hit wins.
type keywordGroup struct {
	category string
	keywords []string
}

var keywordGroups = []keywordGroup{
	{"business_networking", []string{"networking", "mixer", "founders", "investor", "pitch night", "business card"}},
	{"nightlife_party", []string{"nightclub", "club night", "dj", "party", "rave", "bar crawl", "nightlife"}},
	{"live_music", []string{"concert", "gig", "live band", "live music", "open mic", "acoustic"}},
	{"workshop_learning", []string{"workshop", "masterclass", "seminar", "bootcamp", "webinar", "course"}},
	{"fitness_wellness", []string{"yoga", "run club", "fitness", "hiit", "meditation", "wellness"}},
	{"food_drink", []string{"tasting", "brunch", "wine", "cocktail", "supper", "dinner", "food"}},
	{"arts_culture", []string{"gallery", "exhibition", "museum", "theatre", "film screening", "art"}},
	{"family_kids", []string{"kids", "family", "children"}},
	{"tech_meetup", []string{"hackathon", "developer", "tech talk", "coding", "ai meetup"}},
}

// HeuristicCategory deterministically categorizes an event from its
// lower-cased title and description, returning the catch-all when no
// keyword group matches.
func HeuristicCategory(title, description string) string {
	text := strings.ToLower(title + " " + description)
	for _, group := range keywordGroups {
		for _, kw := range group.keywords {
			if strings.Contains(text, kw) {
				return group.category
			}
		}
	}
	return CategoryOther
}

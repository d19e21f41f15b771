package config

// BuiltinSources is the default source table. Selectors are best-effort
// defaults for each site and are expected to be tuned over time; the YAML
// override file exists for exactly that.
func BuiltinSources() []Source {
	return []Source{
		{
			Name:    "peatix",
			Enabled: true,
			Listing: Listing{
				Strategy:     StrategyPaged,
				BaseURL:      "https://peatix.com/search?utm_source=homebanner&p=1",
				PageParam:    "p",
				StartPage:    DefaultStartPage,
				MaxPages:     DefaultMaxPages,
				WaitSelector: ".event-card",
			},
			LinkSelectors: []string{
				"a.event-card__title",
				"a[href*='/event/']",
			},
			URLMustContain: "/event/",
			DetailParser:   "peatix",
		},
		{
			Name:    "eventbrite",
			Enabled: false,
			Listing: Listing{
				Strategy:     StrategyPaged,
				BaseURL:      "https://www.eventbrite.sg/d/singapore--singapore/all-events/?page=1",
				PageParam:    "page",
				StartPage:    DefaultStartPage,
				MaxPages:     DefaultMaxPages,
				WaitSelector: "body",
			},
			LinkSelectors: []string{
				"a[href*='/e/']",
				"a[href*='eventbrite.sg/e/']",
			},
			URLMustContain: "/e/",
			DetailParser:   "eventbrite",
		},
		{
			Name:    "luma",
			Enabled: false,
			Listing: Listing{
				Strategy:     StrategyScroll,
				BaseURL:      "https://luma.com/singapore",
				WaitSelector: "body",
				ItemSelector: ".card-wrapper",
			},
			LinkSelectors: []string{
				"a[href*='luma.com/']",
				"a[href^='/']",
			},
			DetailParser: "luma",
		},
		{
			Name:    "fever",
			Enabled: false,
			Listing: Listing{
				Strategy:     StrategyScroll,
				BaseURL:      "https://feverup.com/en/singapore/things-to-do",
				WaitSelector: "body",
				ItemSelector: "[data-testid^='fv-plan-card']",
			},
			LinkSelectors: []string{
				"a[href*='/en/singapore/']",
				"a[href^='/']",
			},
			DetailParser: "fever",
		},
	}
}

// DefaultRemoval is the default removal subset: categories excluded from the
// kept output. A policy choice, overridable in configuration.
func DefaultRemoval() []string {
	return []string{"business_networking", "workshop_learning"}
}

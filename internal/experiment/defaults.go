package experiment

// DefaultExperiments is the built-in experiment table for the marketing site.
func DefaultExperiments() []Experiment {
	return []Experiment{
		{
			ID:     "hero_section",
			Name:   "Hero Section Headline",
			Active: true,
			Variants: []Variant{
				{ID: "control", Weight: 50},
				{ID: "bold", Weight: 50},
			},
		},
		{
			ID:     "cta_test",
			Name:   "Primary CTA Copy",
			Active: true,
			Variants: []Variant{
				{ID: "control", Weight: 34},
				{ID: "bold", Weight: 33},
				{ID: "urgent", Weight: 33},
			},
		},
		{
			ID:     "pricing_section",
			Name:   "Pricing Layout",
			Active: false,
			Variants: []Variant{
				{ID: "control", Weight: 50},
				{ID: "annual_first", Weight: 50},
			},
		},
		{
			ID:     "yield_calculator",
			Name:   "Yield Program Calculator Placement",
			Active: true,
			Variants: []Variant{
				{ID: "control", Weight: 70},
				{ID: "above_fold", Weight: 30},
			},
		},
	}
}

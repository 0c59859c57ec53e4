package domain

const (
	DefaultDomain      = "fliptechpro.com"
	ProfessionalDomain = "fliptech.pro"
)

// DefaultConfigs is the built-in domain table. fliptechpro.com is the fallback.
func DefaultConfigs() []DomainConfig {
	return []DomainConfig{
		{
			Domain:   DefaultDomain,
			Audience: AudienceSMB,
			Branding: Branding{
				Name:        "FlipTech Pro",
				Tagline:     "Flip smarter. Grow faster.",
				Description: "Deal analysis and yield tools for small real-estate businesses.",
			},
			Analytics: Analytics{MeasurementID: "G-FTPSMB001"},
			Content: map[Section]SectionContent{
				SectionHero: {
					Headline: "Run every flip like a pro",
					Body:     "Underwrite deals, track rehab budgets and forecast returns in one place.",
					CTALabel: "Start free",
				},
				SectionFeatures: {
					Headline: "Everything a growing flipper needs",
					Body:     "Deal calculators, contractor scheduling and lender-ready reports.",
				},
				SectionPricing: {
					Headline: "Simple pricing for small teams",
					Body:     "One flat monthly plan. Cancel anytime.",
					CTALabel: "See plans",
				},
				SectionCTA: {
					Headline: "Your next deal starts here",
					Body:     "Join the operators closing more flips with less guesswork.",
					CTALabel: "Get started",
				},
				SectionFooter: {
					Headline: "FlipTech Pro",
					Body:     "Built for small real-estate businesses.",
				},
			},
		},
		{
			Domain:   ProfessionalDomain,
			Audience: AudienceProfessional,
			Branding: Branding{
				Name:        "FlipTech Pro Yield",
				Tagline:     "Institutional-grade yield for real-estate professionals.",
				Description: "Portfolio analytics and the FlipTech yield program for funds and brokers.",
			},
			Analytics: Analytics{MeasurementID: "G-FTPPRO001"},
			Content: map[Section]SectionContent{
				SectionHero: {
					Headline: "Put your capital to work in vetted flips",
					Body:     "Access the yield program with transparent underwriting and monthly reporting.",
					CTALabel: "Request access",
				},
				SectionFeatures: {
					Headline: "Built for professional allocators",
					Body:     "Portfolio dashboards, audit trails and API access.",
				},
				SectionPricing: {
					Headline: "Transparent program terms",
					Body:     "Performance-aligned fees with no hidden costs.",
					CTALabel: "View terms",
				},
				SectionCTA: {
					Headline: "Talk to our yield desk",
					Body:     "Schedule a call with the team that underwrites every deal.",
					CTALabel: "Book a call",
				},
				SectionFooter: {
					Headline: "FlipTech Pro Yield",
					Body:     "For accredited and professional investors.",
				},
			},
		},
	}
}

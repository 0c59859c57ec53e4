package analytics

// Event names understood by the analytics property.
const (
	EventDomainAssignment   = "domain_assignment"
	EventVariantView        = "ab_test_view"
	EventVariantConversion  = "ab_test_conversion"
	EventCTAClick           = "cta_click"
	EventFormSubmit         = "form_submit"
	EventPricingInteraction = "pricing_interaction"
)

// Event categories used for downstream grouping.
const (
	CategoryABTest     = "ab_test"
	CategoryConversion = "ab_test_conversion"
	CategoryDomain     = "domain"
	CategoryEngagement = "engagement"
)

const defaultConversionType = "conversion"

// Event is a transient value handed to the sink.
type Event struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

func experimentParams(experimentID, variantID, userID, category string) map[string]any {
	return map[string]any{
		"test_id":        experimentID,
		"variant_id":     variantID,
		"user_id":        userID,
		"event_category": category,
		"event_label":    experimentID + "_" + variantID,
	}
}

package distribution

import (
	"sort"
	"strings"

	"rihla/internal/domain"
)

// KeywordRule maps a lowercase substring pattern to the business-type tags
// it implies. Rules are an ordered, versioned table so matching stays
// testable independent of the full keyword set.
type KeywordRule struct {
	Pattern string
	Tags    []domain.BusinessType
}

// ClassifierConfig carries the keyword table and the fallback tag sets, so
// behavior is overridable per call site rather than baked into constants.
type ClassifierConfig struct {
	Rules           []KeywordRule
	PackageFallback []domain.BusinessType
	ServiceFallback []domain.BusinessType
	CustomFallback  []domain.BusinessType
	// Always is unioned into every result; agency-type providers are
	// treated as universally relevant.
	Always []domain.BusinessType
}

func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Rules: []KeywordRule{
			{Pattern: "visa", Tags: []domain.BusinessType{domain.BusinessVisa}},
			{Pattern: "hotel", Tags: []domain.BusinessType{domain.BusinessHotels}},
			{Pattern: "transport", Tags: []domain.BusinessType{domain.BusinessTransport}},
			{Pattern: "taxi", Tags: []domain.BusinessType{domain.BusinessTransport}},
			{Pattern: "food", Tags: []domain.BusinessType{domain.BusinessFood}},
			{Pattern: "meal", Tags: []domain.BusinessType{domain.BusinessFood}},
			{Pattern: "laundry", Tags: []domain.BusinessType{domain.BusinessLaundry}},
			{Pattern: "umrah", Tags: []domain.BusinessType{domain.BusinessUmrahPackages, domain.BusinessUmrahGuide, domain.BusinessUmrahKit}},
			{Pattern: "hajj", Tags: []domain.BusinessType{domain.BusinessHajjPackage}},
			{Pattern: "ticket", Tags: []domain.BusinessType{domain.BusinessAirTicket}},
			{Pattern: "flight", Tags: []domain.BusinessType{domain.BusinessAirTicket}},
			{Pattern: "water", Tags: []domain.BusinessType{domain.BusinessZamzamWater}},
			{Pattern: "zam", Tags: []domain.BusinessType{domain.BusinessZamzamWater}},
		},
		PackageFallback: []domain.BusinessType{domain.BusinessUmrahPackages, domain.BusinessHajjPackage, domain.BusinessAgency},
		ServiceFallback: []domain.BusinessType{domain.BusinessAgency, domain.BusinessIndividual, domain.BusinessCompany},
		CustomFallback:  []domain.BusinessType{domain.BusinessAgency, domain.BusinessCompany},
		Always:          []domain.BusinessType{domain.BusinessAgency},
	}
}

// LeadContent is the classifier's view of a lead: declared kind, the
// resolved target owner's business type when known, and the keyword
// signals of a custom lead.
type LeadContent struct {
	Kind      domain.LeadKind
	OwnerType domain.BusinessType
	Keys      []string
	FreeText  string
}

// ContentOf projects a lead into classifier input. ownerType is the
// business type of the provider owning the target package/service; pass
// the zero value when the target is unresolved.
func ContentOf(l *domain.Lead, ownerType domain.BusinessType) LeadContent {
	keys := make([]string, 0, len(l.SelectedServices))
	for k := range l.SelectedServices {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return LeadContent{
		Kind:      l.Kind,
		OwnerType: ownerType,
		Keys:      keys,
		FreeText:  l.SpecialRequirements + " " + l.CustomMessage,
	}
}

// Classifier infers which provider business types match a lead's content.
// Pure and deterministic: same content always yields the same tag set.
type Classifier struct {
	cfg ClassifierConfig
}

func NewClassifier(cfg ClassifierConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// InferTargetTypes returns the matching tag set, sorted for reproducible
// downstream iteration. The result always contains cfg.Always.
func (c *Classifier) InferTargetTypes(content LeadContent) []domain.BusinessType {
	set := make(map[domain.BusinessType]struct{})

	switch content.Kind {
	case domain.LeadKindPackage:
		if content.OwnerType != "" {
			set[content.OwnerType] = struct{}{}
		} else {
			addAll(set, c.cfg.PackageFallback)
		}
	case domain.LeadKindService:
		if content.OwnerType != "" {
			set[content.OwnerType] = struct{}{}
		} else {
			addAll(set, c.cfg.ServiceFallback)
		}
	default:
		c.matchKeywords(set, content)
	}

	addAll(set, c.cfg.Always)

	out := make([]domain.BusinessType, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c *Classifier) matchKeywords(set map[domain.BusinessType]struct{}, content LeadContent) {
	haystack := strings.ToLower(content.FreeText)
	keys := make([]string, len(content.Keys))
	for i, k := range content.Keys {
		keys[i] = strings.ToLower(k)
	}

	matched := false
	for _, rule := range c.cfg.Rules {
		if c.ruleMatches(rule.Pattern, keys, haystack) {
			addAll(set, rule.Tags)
			matched = true
		}
	}
	if !matched {
		addAll(set, c.cfg.CustomFallback)
	}
}

func (c *Classifier) ruleMatches(pattern string, keys []string, haystack string) bool {
	for _, k := range keys {
		if strings.Contains(k, pattern) {
			return true
		}
	}
	return strings.Contains(haystack, pattern)
}

func addAll(set map[domain.BusinessType]struct{}, tags []domain.BusinessType) {
	for _, t := range tags {
		set[t] = struct{}{}
	}
}

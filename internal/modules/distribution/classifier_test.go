package distribution

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rihla/internal/domain"
)

func classify(t *testing.T, l *domain.Lead, ownerType domain.BusinessType) []domain.BusinessType {
	t.Helper()
	c := NewClassifier(DefaultClassifierConfig())
	return c.InferTargetTypes(ContentOf(l, ownerType))
}

func TestClassifierUsesOwnerTypeForPackageLead(t *testing.T) {
	pkgID := int64(5)
	l := &domain.Lead{Kind: domain.LeadKindPackage, PackageID: &pkgID}

	tags := classify(t, l, domain.BusinessUmrahPackages)

	assert.ElementsMatch(t, []domain.BusinessType{
		domain.BusinessAgency,
		domain.BusinessUmrahPackages,
	}, tags)
}

func TestClassifierPackageFallbackWhenOwnerUnknown(t *testing.T) {
	l := &domain.Lead{Kind: domain.LeadKindPackage}

	tags := classify(t, l, "")

	assert.ElementsMatch(t, []domain.BusinessType{
		domain.BusinessUmrahPackages,
		domain.BusinessHajjPackage,
		domain.BusinessAgency,
	}, tags)
}

func TestClassifierMatchesSelectedServiceKeys(t *testing.T) {
	l := &domain.Lead{
		Kind: domain.LeadKindCustom,
		SelectedServices: map[string]string{
			"visa":  "express",
			"hotel": "4-star near haram",
		},
	}

	tags := classify(t, l, "")

	assert.ElementsMatch(t, []domain.BusinessType{
		domain.BusinessVisa,
		domain.BusinessHotels,
		domain.BusinessAgency,
	}, tags)
}

func TestClassifierUmrahKeywordExpandsToThreeTags(t *testing.T) {
	l := &domain.Lead{
		Kind:             domain.LeadKindCustom,
		SelectedServices: map[string]string{"umrah": "full package"},
	}

	tags := classify(t, l, "")

	assert.ElementsMatch(t, []domain.BusinessType{
		domain.BusinessUmrahPackages,
		domain.BusinessUmrahGuide,
		domain.BusinessUmrahKit,
		domain.BusinessAgency,
	}, tags)
}

func TestClassifierScansFreeTextCaseInsensitive(t *testing.T) {
	l := &domain.Lead{
		Kind:                domain.LeadKindCustom,
		SpecialRequirements: "Need a VISA and Zamzam WATER delivered",
	}

	tags := classify(t, l, "")

	assert.Contains(t, tags, domain.BusinessVisa)
	assert.Contains(t, tags, domain.BusinessZamzamWater)
	assert.Contains(t, tags, domain.BusinessAgency)
}

func TestClassifierCustomFallbackWhenNothingMatches(t *testing.T) {
	l := &domain.Lead{
		Kind:          domain.LeadKindCustom,
		CustomMessage: "something completely unrelated",
	}

	tags := classify(t, l, "")

	assert.ElementsMatch(t, []domain.BusinessType{
		domain.BusinessAgency,
		domain.BusinessCompany,
	}, tags)
}

func TestClassifierAlwaysIncludesAgency(t *testing.T) {
	leads := []*domain.Lead{
		{Kind: domain.LeadKindCustom, CustomMessage: "laundry please"},
		{Kind: domain.LeadKindService},
		{Kind: domain.LeadKindPackage},
	}
	for _, l := range leads {
		assert.Contains(t, classify(t, l, ""), domain.BusinessAgency)
	}
}

func TestClassifierDeterministicOutput(t *testing.T) {
	l := &domain.Lead{
		Kind: domain.LeadKindCustom,
		SelectedServices: map[string]string{
			"transport": "bus",
			"food":      "half board",
			"visa":      "standard",
		},
	}

	first := classify(t, l, "")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, classify(t, l, ""))
	}
}

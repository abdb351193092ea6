package testing

import (
	"github.com/aristath/advisor/internal/domain"
)

// NewProfileFixture returns a valid client profile for use in tests.
// The values match the worked example from the service documentation:
// 85000 income over 10 years, 200000 debt, 50000 savings, 100000 existing cover.
func NewProfileFixture() domain.Profile {
	return domain.Profile{
		Age:                    35,
		AnnualIncome:           85000,
		Dependents:             2,
		Location:               "Austin, TX",
		TotalDebt:              200000,
		AvailableSavings:       50000,
		ExistingLifeInsurance:  100000,
		IncomeReplacementYears: 10,
		Currency:               "USD",
	}
}

// NewRecommendationFixtures returns a deterministic set of candidate products.
func NewRecommendationFixtures() []domain.RecommendationItem {
	return []domain.RecommendationItem{
		{
			Name:    "SecureTerm 20",
			Summary: "20-year level term policy with fixed premiums",
			Link:    "https://example.com/secureterm-20",
			Source:  "example.com",
		},
		{
			Name:    "FamilyShield Term",
			Summary: "Term life with child rider options",
			Link:    "https://example.com/familyshield",
			Source:  "example.com",
		},
	}
}

package advisor

import (
	"fmt"
	"math"

	"github.com/aristath/advisor/internal/domain"
)

// DefaultDiscountRate is the real discount rate applied to future income when
// no rate is configured.
const DefaultDiscountRate = 0.02

// Calculator computes the recommended coverage gap for a profile.
//
// Coverage policy v1 (changing it is a behavior-breaking change for the API):
//
//	annuity_factor = (1 - (1+r)^-years) / r   (plain years when r <= 0)
//	coverage       = max(0, income*annuity_factor + total_debt
//	                        - available_savings - existing_life_insurance)
//
// The result is rounded to a whole amount in the profile's currency and is
// never negative. The computation is deterministic and performs no I/O.
type Calculator struct {
	discountRate float64
}

// NewCalculator creates a coverage calculator with the given real discount rate.
// A rate of zero or below disables discounting (straight income x years).
func NewCalculator(discountRate float64) *Calculator {
	return &Calculator{discountRate: discountRate}
}

// Compute derives the coverage figure, its breakdown, and the assumptions used.
// The profile must already be validated; there is no failure path.
func (c *Calculator) Compute(profile domain.Profile) (domain.CoverageResult, domain.Breakdown, domain.Assumptions) {
	annuity := annuityFactor(c.discountRate, profile.IncomeReplacementYears)

	incomeReplacement := profile.AnnualIncome * annuity
	assetsOffset := profile.AvailableSavings + profile.ExistingLifeInsurance

	raw := incomeReplacement + profile.TotalDebt - assetsOffset
	amount := math.Round(math.Max(0, raw))

	coverage := domain.CoverageResult{
		CoverageAmount:   amount,
		CoverageCurrency: profile.Currency,
	}

	breakdown := domain.Breakdown{
		IncomeReplacement: incomeReplacement,
		DebtObligations:   profile.TotalDebt,
		AssetsOffset:      -assetsOffset,
		Methodology: fmt.Sprintf(
			"coverage policy v1: max(0, annual_income x annuity_factor(%.4f) + total_debt - available_savings - existing_life_insurance)",
			annuity,
		),
	}

	assumptions := domain.Assumptions{
		IncomeReplacementYears: profile.IncomeReplacementYears,
		RealDiscountRate:       math.Max(0, c.discountRate),
	}

	return coverage, breakdown, assumptions
}

// annuityFactor discounts a stream of years annual payments at real rate r.
func annuityFactor(r float64, years int) float64 {
	if years <= 0 {
		return 0
	}
	if r <= 0 {
		return float64(years)
	}
	return (1 - math.Pow(1+r, -float64(years))) / r
}
